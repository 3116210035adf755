// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package pii resolves which fields of a struct type hold personal data.
//
// Fields are tagged with the `pii` struct tag:
//
//	type UserRegistered struct {
//		pii.Holder
//		ID    string `json:"id" pii:"subject"`
//		Email string `json:"email" pii:"sensitive,replacement=<email>"`
//		Plan  string `json:"plan"`
//	}
//
// Embedded structs act as ancestors: their fields are promoted into the outer
// type's Descriptor unless the outer type declares a field with the same name,
// in which case the outer declaration wins.
package pii

import "fmt"

// Role is the part a field plays during redaction.
type Role int

const (
	// RolePlain fields are copied unchanged.
	RolePlain Role = iota

	// RoleSubjectID marks the field identifying the data subject. It is never altered.
	RoleSubjectID

	// RoleSensitive fields are overwritten with their configured replacement.
	RoleSensitive
)

func (r Role) String() string {
	switch r {
	case RolePlain:
		return "plain"
	case RoleSubjectID:
		return "subject"
	case RoleSensitive:
		return "sensitive"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
