// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema builds Format graphs from declarative YAML or JSON
// documents.
//
// A document has a root node and optional named definitions which nodes
// may refer to with ref:
//
//	definitions:
//	  money: {type: number, min: 0}
//	root:
//	  type: dict
//	  unknown: reject
//	  fields:
//	    - {name: id, required: true, format: {type: number, integer: true}}
//	    - {name: price, format: {ref: money}}
//
// String options are applied in a fixed order: trim, normalize, case,
// replace, then the tests one_of, equals, pattern and the length rules.
//
// Variant cases are keyed by tag text. Integer keys, quoted or not, match
// integer tags by their decimal text:
//
//	root:
//	  type: variant
//	  tag: version
//	  cases:
//	    1: {ref: v1}
//	    2: {ref: v2}
package schema
