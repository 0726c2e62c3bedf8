package controller

import "sync"

// Fullscreen keeps the per-component fullscreen flag.
type Fullscreen struct {
	mu sync.Mutex
	on map[string]bool
}

func NewFullscreen() *Fullscreen {
	return &Fullscreen{on: map[string]bool{}}
}

// Toggle flips the flag for id and returns the new value.
func (f *Fullscreen) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.on[id] = !f.on[id]
	return f.on[id]
}

func (f *Fullscreen) IsOn(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on[id]
}
