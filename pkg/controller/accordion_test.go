package controller

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccordionSingle(t *testing.T) {
	a := NewAccordion("accordion-faq", 3, false, nil)
	assert.Equal(t, []int{}, a.Expanded())

	assert.NoError(t, a.Toggle(0))
	assert.Equal(t, []int{0}, a.Expanded())

	// opening B while A is open closes A in the same step
	var events []AccordionEvent
	a.Subscribe(func(ev AccordionEvent) { events = append(events, ev) })
	assert.NoError(t, a.Toggle(1))
	assert.False(t, a.IsExpanded(0))
	assert.True(t, a.IsExpanded(1))
	assert.Equal(t, []AccordionEvent{{ID: "accordion-faq", Expanded: []int{1}}}, events)

	// closing the open item leaves none open
	assert.NoError(t, a.Toggle(1))
	assert.Equal(t, []int{}, a.Expanded())

	err := a.Toggle(3)
	assert.True(t, errors.Is(err, ErrNoSuchItem))
}

func TestAccordionMultiple(t *testing.T) {
	a := NewAccordion("acc", 3, true, []int{0, 2})
	assert.Equal(t, []int{0, 2}, a.Expanded())
	assert.NoError(t, a.Toggle(1))
	assert.Equal(t, []int{0, 1, 2}, a.Expanded())
}

func TestAccordionDefaultOpenSingle(t *testing.T) {
	a := NewAccordion("acc", 3, false, []int{5, 1, 2})
	assert.Equal(t, []int{1}, a.Expanded())
}

func TestAccordionNeverTwoOpen(t *testing.T) {
	a := NewAccordion("acc", 3, false, nil)
	var mu sync.Mutex
	violations := 0
	a.Subscribe(func(ev AccordionEvent) {
		if len(ev.Expanded) > 1 {
			mu.Lock()
			violations++
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = a.Toggle(i % 3)
			assert.LessOrEqual(t, len(a.Expanded()), 1)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, violations)
}

func TestAccordionUnsubscribe(t *testing.T) {
	a := NewAccordion("acc", 2, false, nil)
	n := 0
	cancel := a.Subscribe(func(AccordionEvent) { n++ })
	_ = a.Toggle(0)
	cancel()
	_ = a.Toggle(1)
	assert.Equal(t, 1, n)
}
