// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package testevents holds event types shared by tests across packages.
package testevents

import (
	"net/netip"
	"time"

	"github.com/hashicorp/dataprotect/pii"
)

// BaseEvent is embedded by events that carry a subject id and an audit id.
type BaseEvent struct {
	ID      string `json:"id" pii:"subject"`
	AuditID string `json:"auditId" pii:"sensitive,replacement=null"`
}

type AEvent struct {
	AField *string `json:"aField" pii:"sensitive,replacement=null"`
}

type BEvent struct {
	AEvent
	BField *string `json:"bField" pii:"sensitive,replacement=null"`
}

type CEvent struct {
	BEvent
	CField *string `json:"cField" pii:"sensitive,replacement=null"`
}

type SimpleFlatEvent struct {
	pii.Holder
	ID    string `json:"id" pii:"subject"`
	Value string `json:"value" pii:"sensitive"`
}

type ShallowInheritanceEvent struct {
	pii.Holder
	BaseEvent
	Value string `json:"value" pii:"sensitive"`
}

type DeepInheritanceEvent struct {
	pii.Holder
	CEvent
	ID    string `json:"id" pii:"subject"`
	Value string `json:"value" pii:"sensitive"`
}

// ShallowEvent mixes a sensitive field with a plain numeric one.
type ShallowEvent struct {
	pii.Holder
	BaseEvent
	ShallowField string `json:"shallowField" pii:"sensitive"`
	Amount       int    `json:"amount"`
}

// OverridingEvent redeclares AuditID as plain, hiding BaseEvent's sensitive one.
type OverridingEvent struct {
	pii.Holder
	BaseEvent
	AuditID string `json:"auditId" pii:"plain"`
}

type DuplicateSubjectEvent struct {
	pii.Holder
	ID      string `pii:"subject"`
	OtherID string `pii:"subject"`
}

// InheritedDuplicateSubjectEvent declares a second subject id next to BaseEvent's.
type InheritedDuplicateSubjectEvent struct {
	pii.Holder
	BaseEvent
	UserID string `pii:"subject"`
}

// NoSensitiveEvent redacts to itself.
type NoSensitiveEvent struct {
	pii.Holder
	ID    string `pii:"subject"`
	Count int
}

type NumericNullEvent struct {
	ID  string `pii:"subject"`
	Age int    `pii:"sensitive,replacement=null"`
}

type NotAHolder struct {
	ID     string `pii:"subject"`
	Secret string `pii:"sensitive,replacement=***"`
}

type Address struct {
	pii.Holder
	Street string `json:"street" pii:"sensitive,replacement=<street>"`
	City   string `json:"city"`
}

type Line struct {
	pii.Holder
	SKU  string `json:"sku"`
	Note string `json:"note" pii:"sensitive"`
}

// OrderPlaced composes other holders directly, through pointers, slices and maps.
type OrderPlaced struct {
	pii.Holder
	OrderID   string             `json:"orderId" pii:"subject"`
	Email     string             `json:"email" pii:"sensitive,replacement=<email>"`
	Shipping  Address            `json:"shipping"`
	Billing   *Address           `json:"billing"`
	Lines     []*Line            `json:"lines"`
	Contacts  map[string]Address `json:"contacts"`
	Metadata  map[string]string  `json:"metadata"`
	Unrelated NotAHolder         `json:"unrelated"`
	Previous  *OrderPlaced       `json:"previous"`
}

// Scalars covers replacement conversion for each supported kind.
type Scalars struct {
	pii.Holder
	ID       string            `pii:"subject"`
	Name     string            `pii:"sensitive,replacement=anonymous"`
	Nickname *string           `pii:"sensitive"`
	Age      int               `pii:"sensitive"`
	Score    float64           `pii:"sensitive,replacement=-1.5"`
	Level    uint8             `pii:"sensitive,replacement=7"`
	Active   bool              `pii:"sensitive,replacement=false"`
	Balance  *int64            `pii:"sensitive,replacement=null"`
	Token    []byte            `pii:"sensitive,replacement=xxxx"`
	Tags     []string          `pii:"sensitive,replacement=null"`
	Extra    map[string]string `pii:"sensitive"`
	Anything any               `pii:"sensitive,replacement=gone"`
	BornAt   time.Time         `pii:"sensitive,replacement=1970-01-01T00:00:00Z"`
	SeenAt   *time.Time        `pii:"sensitive"`
	IP       netip.Addr        `pii:"sensitive,replacement=0.0.0.0"`
	Label    Label             `pii:"sensitive,replacement=a,b,c"`
}

// Label is a named string type.
type Label string

// Shipment composes holders without referring back to itself.
type Shipment struct {
	pii.Holder
	ShipmentID string              `json:"shipmentId" pii:"subject"`
	Recipient  string              `json:"recipient" pii:"sensitive,replacement=<name>"`
	To         *Address            `json:"to"`
	Lines      []Line              `json:"lines"`
	Stops      map[string]*Address `json:"stops"`
}

func (Shipment) Revision() string { return "2" }

type LeftNote struct {
	Note string `pii:"sensitive"`
}

type RightNote struct {
	Note string
}

type PlainNote struct {
	Note string
}

// AmbiguousEvent promotes Note from two embedded structs at the same depth.
type AmbiguousEvent struct {
	pii.Holder
	ID string `pii:"subject"`
	LeftNote
	RightNote
}

// QuietlyAmbiguousEvent promotes a plain Note twice, so Note is simply not visible.
type QuietlyAmbiguousEvent struct {
	ID string `pii:"subject"`
	RightNote
	PlainNote
}

// PointerEmbeddingEvent reaches BaseEvent through an embedded pointer.
type PointerEmbeddingEvent struct {
	pii.Holder
	*BaseEvent
	Value string `json:"value" pii:"sensitive"`
}

type UnexportedSensitiveEvent struct {
	ID     string `pii:"subject"`
	secret string `pii:"sensitive"`
}

type BadTagEvent struct {
	Name string `pii:"secret"`
}
