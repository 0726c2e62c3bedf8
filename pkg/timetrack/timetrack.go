// Package timetrack measures nested spans of work.
package timetrack

import (
	"sync/atomic"
	"time"
)

// Report receives a finished span. depth is 0 for outermost spans.
type Report func(span string, depth int, d time.Duration)

type Tracker struct {
	depth  int32
	report Report
}

func New(report Report) *Tracker {
	return &Tracker{report: report}
}

// Start opens span and returns the func that closes it.
// A nil Tracker tracks nothing.
func (t *Tracker) Start(span string) func() {
	if t == nil || t.report == nil {
		return func() {}
	}
	depth := atomic.AddInt32(&t.depth, 1)
	n := time.Now()
	return func() {
		t.report(span, int(depth-1), time.Since(n))
		atomic.AddInt32(&t.depth, -1)
	}
}
