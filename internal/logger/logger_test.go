package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zap.WarnLevel))

	_, err = New("dev", "loud")
	assert.Error(t, err)
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("page", "modul-1")

	l.Warn("unknown component type", "type", "slider")

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "unknown component type", e.Message)
	assert.Equal(t, map[string]interface{}{"page": "modul-1", "type": "slider"}, e.ContextMap())
}
