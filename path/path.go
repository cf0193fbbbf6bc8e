// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package path provides immutable locations inside a value tree.
package path

import (
	"strconv"
	"strings"
)

// Segment is a common interface all path segment types must implement.
type Segment interface {
	Key() string
}

// Name represents a named field of a dictionary.
type Name string

// Key implements the [Segment] interface.
func (n Name) Key() string {
	return string(n)
}

// Index represents a zero based position in a list.
type Index int

// Key implements the [Segment] interface.
func (i Index) Key() string {
	return strconv.Itoa(int(i))
}

type node struct {
	parent *node
	seg    Segment
	depth  int
}

// Path is an ordered sequence of segments. The zero value is the root path.
//
// Paths are immutable. [Path.Child] shares the receivers segments instead
// of copying them, so extending a path is a single allocation.
type Path struct {
	tail *node
}

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// Of builds a Path from the given segments.
func Of(segs ...Segment) Path {
	var p Path
	for _, seg := range segs {
		p = p.Child(seg)
	}
	return p
}

// Child returns a new Path extended by seg. The receiver is left unchanged.
func (p Path) Child(seg Segment) Path {
	depth := 1
	if p.tail != nil {
		depth = p.tail.depth + 1
	}
	return Path{
		tail: &node{
			parent: p.tail,
			seg:    seg,
			depth:  depth,
		},
	}
}

// Field is shorthand for p.Child(Name(name)).
func (p Path) Field(name string) Path {
	return p.Child(Name(name))
}

// At is shorthand for p.Child(Index(i)).
func (p Path) At(i int) Path {
	return p.Child(Index(i))
}

// Len returns the number of segments.
func (p Path) Len() int {
	if p.tail == nil {
		return 0
	}
	return p.tail.depth
}

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool {
	return p.tail == nil
}

// Last returns the final segment, if any.
func (p Path) Last() (Segment, bool) {
	if p.tail == nil {
		return nil, false
	}
	return p.tail.seg, true
}

// Segments returns a copy of the segments from root to leaf.
func (p Path) Segments() []Segment {
	segs := make([]Segment, p.Len())
	for n := p.tail; n != nil; n = n.parent {
		segs[n.depth-1] = n.seg
	}
	return segs
}

// Key renders the path with segments joined by ".", e.g. "a.b.0".
func (p Path) Key() string {
	segs := p.Segments()
	ss := make([]string, len(segs))
	for i := range len(segs) {
		ss[i] = segs[i].Key()
	}
	return strings.Join(ss, ".")
}

// String implements the [fmt.Stringer] interface.
func (p Path) String() string {
	return p.Key()
}

// Equal reports whether p and other contain the same segments.
func (p Path) Equal(other Path) bool {
	if p.Len() != other.Len() {
		return false
	}
	a, b := p.tail, other.tail
	for a != nil {
		if a == b {
			return true
		}
		if a.seg != b.seg {
			return false
		}
		a, b = a.parent, b.parent
	}
	return true
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.Key()), nil
}
