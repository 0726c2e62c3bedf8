// Package component turns typed component descriptors into node trees.
//
// A Descriptor is decoded into the Payload of its kind exactly once, at the
// Dispatcher. Decoding failures, missing required fields and unknown kinds
// all become inline error nodes, so one bad descriptor never stops the rest
// of a page from rendering.
package component

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindHero         Kind = "hero"
	KindText         Kind = "text"
	KindCode         Kind = "code"
	KindCommand      Kind = "command"
	KindVideo        Kind = "video"
	KindImage        Kind = "image"
	KindAlert        Kind = "alert"
	KindInformation  Kind = "information"
	KindInfo         Kind = "info"
	KindList         Kind = "list"
	KindAccordion    Kind = "accordion"
	KindQuiz         Kind = "quiz"
	KindTable        Kind = "table"
	KindCard         Kind = "card"
	KindTimeline     Kind = "timeline"
	KindDownload     Kind = "download"
	KindCompletion   Kind = "completion"
	KindMaterial     Kind = "material"
	KindModuleHeader Kind = "moduleHeader"
)

// aliases maps alternate names used by older content to their kind.
var aliases = map[Kind]Kind{
	"cardSection":      KindCard,
	"accordionSection": KindAccordion,
}

// Canonical resolves aliases.
func (k Kind) Canonical() Kind {
	if a, ok := aliases[k]; ok {
		return a
	}
	return k
}

// Descriptor is one entry of a page's components array.
type Descriptor struct {
	Kind Kind            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	// ID overrides the generated anchor id.
	ID string `json:"id,omitempty"`
}

// NewDescriptor marshals data into a descriptor of kind.
func NewDescriptor(kind Kind, data interface{}) (Descriptor, error) {
	bs, err := json.Marshal(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("marshal %s data: %w", kind, err)
	}
	return Descriptor{Kind: kind, Data: bs}, nil
}

// Payload is the decoded data of one kind.
type Payload interface {
	Kind() Kind
	// Label is the free text the anchor id is derived from.
	Label() string
	// Validate reports the first missing required field as *MissingFieldError.
	Validate() error
	Shared() bool
}

// normalizer is implemented by payloads that clamp or coerce values after decoding.
type normalizer interface {
	normalize()
}

type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown component type: %s", e.Kind)
}

type MissingFieldError struct {
	Kind  Kind
	Field string
	// Err is set when the payload could not be decoded at all.
	Err error
}

func (e *MissingFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s is required", e.Kind, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return e.Err
}

func missing(k Kind, field string) error {
	return &MissingFieldError{Kind: k, Field: field}
}
