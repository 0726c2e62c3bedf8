package controller

import "sync"

// Alerts tracks dismissible alerts of one page. Removal is terminal.
type Alerts struct {
	mu      sync.Mutex
	visible map[string]bool
}

func NewAlerts() *Alerts {
	return &Alerts{visible: map[string]bool{}}
}

// Register adds a visible alert. Registering a removed alert does not revive it.
func (a *Alerts) Register(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.visible[id]; !ok {
		a.visible[id] = true
	}
}

// Dismiss removes the alert and reports whether this call removed it.
// Dismissing an unknown or already removed alert is a no-op.
func (a *Alerts) Dismiss(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.visible[id] {
		return false
	}
	a.visible[id] = false
	return true
}

// Visible reports whether id is still shown. Unregistered ids are visible.
func (a *Alerts) Visible(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.visible[id]
	return !ok || v
}
