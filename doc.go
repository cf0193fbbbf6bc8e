// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package format provides a small, composable algebra for validating and
// normalizing untrusted tree shaped input into canonical values.
//
// The package is built around a single abstraction:
//
//   - Format: validates a [value.Value] at a [path.Path], records events into
//     an [event.Sink] and returns the canonical value.
//
// # Leaf Formats
//
// Bool, String, Number, Null and Object validate and coerce scalars. String and
// Number accept options which filter and test the value in registration order.
//
// # Structural Formats
//
// Dict validates named fields, each Required, Optional or with a Default, and
// decides what happens to unknown keys. List validates a dense, zero based
// sequence with a shared item format.
//
// # Combinators
//
//   - Pipeline: run formats in sequence, feeding each output to the next
//   - And: require every format to accept the same input and merge their dicts
//   - Or: accept the output of the first format which succeeds
//   - Variant: select a format by the value of a tag field
//
// # Basic Usage
//
// Build a Format once:
//
//	user := format.Dict(
//	    format.Required("name", format.String(format.Trim(), format.NotEmpty())),
//	    format.Optional("age", format.Number(format.Integer(), format.Min(0))),
//	    format.Required("admin", format.Bool()),
//	)
//
// Then run it against as many values as needed:
//
//	res := format.Run(user, input, event.CollectAll)
//	if !res.OK {
//	    for _, e := range res.Events.Errors() {
//	        fmt.Println(e.Path, e.Message)
//	    }
//	}
//
// Every successful output is canonical: running the same Format against it
// succeeds again and returns it unchanged.
//
// Misconfiguring a Format, e.g. registering the same Variant tag twice, is
// a programmer error and panics with a [ConfigError].
package format
