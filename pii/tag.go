// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import (
	"reflect"
	"strings"
)

// TagKey is the struct tag key read by the Resolver.
const TagKey = "pii"

const (
	tagSubject     = "subject"
	tagSensitive   = "sensitive"
	tagPlain       = "plain"
	tagReplacement = "replacement="
)

// parseTag returns the role and replacement token declared by a `pii` tag value.
// The replacement option must come last, since everything after "replacement=" is
// taken verbatim and may itself contain commas.
func parseTag(tag string) (Role, string, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	switch strings.TrimSpace(name) {
	case "", tagPlain:
		return RolePlain, "", opts == ""
	case tagSubject:
		return RoleSubjectID, "", opts == ""
	case tagSensitive:
		if opts == "" {
			return RoleSensitive, "", true
		}
		if !strings.HasPrefix(opts, tagReplacement) {
			return RolePlain, "", false
		}
		return RoleSensitive, strings.TrimPrefix(opts, tagReplacement), true
	}
	return RolePlain, "", false
}

// serializedName is the name a field takes in encoded payloads: the `json` tag name
// when one is set, otherwise the Go field name.
func serializedName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

// isAncestor reports whether an embedded field contributes its own fields to the
// outer type instead of being a field itself.
func isAncestor(sf reflect.StructField) bool {
	if !sf.Anonymous {
		return false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if _, tagged := sf.Tag.Lookup(TagKey); tagged {
		return false
	}
	if tag, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return false
		}
	}
	return true
}
