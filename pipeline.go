// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// PipelineFormat applies formats in sequence.
type PipelineFormat struct {
	steps []Format
}

// Pipeline returns a Format which feeds the output of each step into the
// next and stops at the first failing step. An empty Pipeline returns its
// input unchanged.
//
// On failure only the events of the failing step are kept. On success the
// events of every step are kept in order.
func Pipeline(steps ...Format) *PipelineFormat {
	for i, step := range steps {
		if step == nil {
			configFault("pipeline", "step %d is nil", i)
		}
	}
	return &PipelineFormat{steps: steps}
}

// Composite is an alias of [Pipeline].
func Composite(steps ...Format) *PipelineFormat {
	return Pipeline(steps...)
}

// Apply implements the [Format] interface.
func (p *PipelineFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	acc := sink.Fork()
	cur := in
	for _, step := range p.steps {
		stepSink := sink.Fork()
		out, ok := applyChecked(step, cur, at, stepSink)
		if !ok || stepSink.HasErrors() {
			sink.Merge(stepSink)
			return value.Null(), false
		}
		acc.Merge(stepSink)
		cur = out
	}
	sink.Merge(acc)
	return cur, true
}
