// Package controller holds the state machines behind interactive components.
//
// Every controller is a plain object guarded by its own mutex. Views observe
// state by reading it or by subscribing; they never mutate it directly.
package controller

import "errors"

// ErrUnsupported is returned by a Platform lacking a capability.
var ErrUnsupported = errors.New("not supported")

// ErrDeferred is returned by a Platform whose calls run on the client.
var ErrDeferred = errors.New("deferred to client")

// ErrSubmitted is returned when answering a quiz that was already submitted.
var ErrSubmitted = errors.New("quiz already submitted")

var ErrNoSuchItem = errors.New("no such item")
