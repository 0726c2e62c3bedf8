package controller

import (
	"sync"
	"time"
)

const DefaultHighlightDuration = 2 * time.Second

// SectionHighlight is the single highlighted section of a page.
// A newer Set replaces an older one.
type SectionHighlight struct {
	mu       sync.Mutex
	duration time.Duration
	id       string
	until    time.Time
}

func NewSectionHighlight(d time.Duration) *SectionHighlight {
	if d <= 0 {
		d = DefaultHighlightDuration
	}
	return &SectionHighlight{duration: d}
}

func (h *SectionHighlight) Duration() time.Duration {
	return h.duration
}

// Set highlights id from now on and returns when it clears.
func (h *SectionHighlight) Set(id string, now time.Time) time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = id
	h.until = now.Add(h.duration)
	return h.until
}

// Active returns the highlighted id, clearing it once expired.
func (h *SectionHighlight) Active(now time.Time) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.id == "" {
		return "", false
	}
	if !now.Before(h.until) {
		h.id = ""
		return "", false
	}
	return h.id, true
}
