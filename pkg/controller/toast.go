package controller

import (
	"sync"
	"time"

	"github.com/zbysir/gomodul/pkg/anchor"
)

const DefaultToastTTL = 4 * time.Second

type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

type Toast struct {
	ID      string     `json:"id"`
	Message string     `json:"message"`
	Level   ToastLevel `json:"level"`
	Expires time.Time  `json:"expires"`
}

// Toasts is the page-wide notification queue. Entries expire after ttl.
type Toasts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Toast
}

// NewToasts uses DefaultToastTTL for ttl <= 0 and time.Now for a nil clock.
func NewToasts(ttl time.Duration, now func() time.Time) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Toasts{ttl: ttl, now: now}
}

func (t *Toasts) Push(message string, level ToastLevel) Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	toast := Toast{
		ID:      anchor.RandomID(),
		Message: message,
		Level:   level,
		Expires: t.now().Add(t.ttl),
	}
	t.items = append(t.items, toast)
	return toast
}

func (t *Toasts) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, it := range t.items {
		if it.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active drops expired toasts and returns the rest, newest first.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.Expires) {
			kept = append(kept, it)
		}
	}
	t.items = kept

	out := make([]Toast, len(kept))
	for i, it := range kept {
		out[len(kept)-1-i] = it
	}
	return out
}
