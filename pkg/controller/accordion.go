package controller

import (
	"fmt"
	"sync"
)

// AccordionEvent is a snapshot taken after one transition.
type AccordionEvent struct {
	ID       string
	Expanded []int
}

type Accordion struct {
	ID string

	mu            sync.Mutex
	allowMultiple bool
	expanded      []bool
	observers     map[int]func(AccordionEvent)
	nextObserver  int
}

// NewAccordion creates a group of n collapsed items, opening those in
// defaultOpen. Without allowMultiple only the first default-open item opens.
func NewAccordion(id string, n int, allowMultiple bool, defaultOpen []int) *Accordion {
	a := &Accordion{
		ID:            id,
		allowMultiple: allowMultiple,
		expanded:      make([]bool, n),
		observers:     map[int]func(AccordionEvent){},
	}
	for _, i := range defaultOpen {
		if i < 0 || i >= n {
			continue
		}
		a.expanded[i] = true
		if !allowMultiple {
			break
		}
	}
	return a
}

// Toggle flips item i. Opening an item in a single-open group closes its
// siblings within the same locked step.
func (a *Accordion) Toggle(i int) error {
	a.mu.Lock()
	if i < 0 || i >= len(a.expanded) {
		a.mu.Unlock()
		return fmt.Errorf("accordion %s item %d: %w", a.ID, i, ErrNoSuchItem)
	}
	open := !a.expanded[i]
	if open && !a.allowMultiple {
		for j := range a.expanded {
			a.expanded[j] = false
		}
	}
	a.expanded[i] = open

	ev := AccordionEvent{ID: a.ID, Expanded: a.expandedLocked()}
	observers := make([]func(AccordionEvent), 0, len(a.observers))
	for _, fn := range a.observers {
		observers = append(observers, fn)
	}
	a.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
	return nil
}

func (a *Accordion) IsExpanded(i int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return i >= 0 && i < len(a.expanded) && a.expanded[i]
}

// Expanded returns the open item indexes in ascending order.
func (a *Accordion) Expanded() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expandedLocked()
}

func (a *Accordion) expandedLocked() []int {
	out := []int{}
	for i, e := range a.expanded {
		if e {
			out = append(out, i)
		}
	}
	return out
}

func (a *Accordion) AllowMultiple() bool {
	return a.allowMultiple
}

func (a *Accordion) Len() int {
	return len(a.expanded)
}

// Subscribe registers fn for every later transition and returns its cancel func.
func (a *Accordion) Subscribe(fn func(AccordionEvent)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextObserver
	a.nextObserver++
	a.observers[id] = fn
	return func() {
		a.mu.Lock()
		delete(a.observers, id)
		a.mu.Unlock()
	}
}
