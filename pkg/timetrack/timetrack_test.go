package timetrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	type span struct {
		Name  string
		Depth int
	}
	var got []span
	tr := New(func(name string, depth int, d time.Duration) {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		got = append(got, span{name, depth})
	})

	end := tr.Start("compose")
	tr.Start("render")()
	tr.Start("load")()
	end()

	assert.Equal(t, []span{{"render", 1}, {"load", 1}, {"compose", 0}}, got)
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() { tr.Start("x")() })
}
