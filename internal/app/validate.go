// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/format"
	"github.com/z5labs/format/event"
	"github.com/z5labs/format/internal/try"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/pkg/slogfield"
	"github.com/z5labs/format/schema"
	"github.com/z5labs/format/value"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// input is a document to validate. The name "-" stands for stdin.
type input struct {
	name string
	lang schema.Lang
	open func() (io.ReadCloser, error)
}

// InputError is returned when a document could not be opened or read.
type InputError struct {
	Document string
	Cause    error
}

// Error implements the [builtin.error] interface.
func (e InputError) Error() string {
	return fmt.Sprintf("failed to read document %s: %s", e.Document, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InputError) Unwrap() error {
	return e.Cause
}

type checker struct {
	format format.Format
	inputs []input
	mask   event.Mask
	limit  int
	encode encodeFunc
	out    io.Writer
	log    *slog.Logger
	tracer trace.Tracer
}

// Run validates every input against the same Format, at most limit at a
// time, and writes one report per input in the order they were given.
func (c *checker) Run(ctx context.Context) error {
	reports := make([]Report, len(c.inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)
	for i, in := range c.inputs {
		g.Go(func() error {
			r, err := c.check(gctx, in)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return err
	}

	err = c.encode(c.out, reports)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		return FailedDocumentsError{Failed: failed, Total: len(reports)}
	}
	return nil
}

func (c *checker) check(ctx context.Context, in input) (Report, error) {
	ctx, span := c.tracer.Start(ctx, "validate", trace.WithAttributes(
		attribute.String("document", in.name),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	v, err := readDocument(in)
	var merr malformedError
	if errors.As(err, &merr) {
		c.log.WarnContext(ctx, "document is malformed", slogfield.Document(in.name), slogfield.Error(err))
		span.SetStatus(codes.Error, "malformed document")
		return malformedReport(in.name, err, c.mask), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read document")
		return Report{}, InputError{Document: in.name, Cause: err}
	}

	res := format.Run(c.format, v, c.mask)
	span.SetAttributes(
		attribute.Bool("ok", res.OK),
		attribute.Int("errors", res.Events.ErrorCount()),
	)
	if !res.OK {
		span.SetStatus(codes.Error, "validation failed")
	}

	c.log.InfoContext(
		ctx,
		"document validated",
		slogfield.Document(in.name),
		slogfield.Bool("ok", res.OK),
		slogfield.Int("errors", res.Events.ErrorCount()),
		slogfield.Int("warnings", res.Events.Count(event.KindWarning)),
		slogfield.Any("input", v),
	)
	for _, e := range res.Events.Events() {
		c.log.DebugContext(ctx, "validation event", slogfield.Document(in.name), slogfield.Event(e))
	}

	events := res.Events.Events()
	if events == nil {
		events = []event.Event{}
	}
	return Report{
		Document: in.name,
		OK:       res.OK,
		Value:    res.Value,
		Events:   events,
	}, nil
}

type malformedError struct {
	cause error
}

func (e malformedError) Error() string {
	return e.cause.Error()
}

func (e malformedError) Unwrap() error {
	return e.cause
}

func readDocument(in input) (_ value.Value, err error) {
	rc, err := in.open()
	if err != nil {
		return value.Value{}, err
	}
	defer try.Close(&err, rc)

	var v value.Value
	switch in.lang {
	case schema.JSON:
		v, err = value.DecodeJSON(rc)
	default:
		var b []byte
		b, err = io.ReadAll(rc)
		if err != nil {
			return value.Value{}, err
		}
		v, err = value.DecodeYAML(b)
	}
	if err != nil {
		return value.Value{}, malformedError{cause: err}
	}
	return v, nil
}

// malformedReport reports a document which is not valid JSON or YAML as
// a single Error at its root.
func malformedReport(name string, err error, mask event.Mask) Report {
	sink := event.NewSink(mask)
	sink.Error(
		path.Root(),
		"Please provide a well-formed document.",
		event.Code("document.malformed"),
		event.Details(map[string]any{"error": err.Error()}),
	)
	events := sink.Events()
	if events == nil {
		events = []event.Event{}
	}
	return Report{
		Document: name,
		Value:    value.Null(),
		Events:   events,
	}
}
