// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package metamodel

import (
	"fmt"
	"strings"
)

// SegmentKind says how a path Segment selects children.
type SegmentKind int

const (
	// SegmentField selects one named member of an object.
	SegmentField SegmentKind = iota
	// SegmentElements selects every element of an array, written "[*]".
	SegmentElements
	// SegmentValues selects every value of an object, written ".*".
	SegmentValues
)

// Segment is one step of a Path.
type Segment struct {
	Kind SegmentKind
	Name string
}

// Path addresses values inside a serialized payload. Its text form starts at the
// root "$", for example "$.lines[*].note" or "$.contacts.*.street".
type Path []Segment

// Root is the empty path "$".
var Root = Path{}

// Field returns a copy of p extended by a named member.
func (p Path) Field(name string) Path {
	return p.with(Segment{Kind: SegmentField, Name: name})
}

// Elements returns a copy of p extended by "[*]".
func (p Path) Elements() Path {
	return p.with(Segment{Kind: SegmentElements})
}

// Values returns a copy of p extended by ".*".
func (p Path) Values() Path {
	return p.with(Segment{Kind: SegmentValues})
}

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// FieldsOnly reports whether every segment selects a single named member.
func (p Path) FieldsOnly() bool {
	for _, s := range p {
		if s.Kind != SegmentField {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, s := range p {
		switch s.Kind {
		case SegmentField:
			b.WriteString(".")
			b.WriteString(s.Name)
		case SegmentElements:
			b.WriteString("[*]")
		case SegmentValues:
			b.WriteString(".*")
		}
	}
	return b.String()
}

// ParsePath parses the text form of a Path.
func ParsePath(s string) (Path, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, fmt.Errorf("path %q must start with $", s)
	}

	p := Path{}
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "[*]"):
			p = append(p, Segment{Kind: SegmentElements})
			rest = rest[len("[*]"):]

		case strings.HasPrefix(rest, ".*"):
			p = append(p, Segment{Kind: SegmentValues})
			rest = rest[len(".*"):]

		case strings.HasPrefix(rest, "."):
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return nil, fmt.Errorf("path %q has an empty member name", s)
			}
			p = append(p, Segment{Kind: SegmentField, Name: rest[:end]})
			rest = rest[end:]

		default:
			return nil, fmt.Errorf("path %q has an unexpected %q", s, rest[:1])
		}
	}
	return p, nil
}
