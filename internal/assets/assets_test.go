package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	for _, name := range Names() {
		a, err := Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, a.Body)
		assert.NotEmpty(t, a.ContentType)
	}

	js, _ := Get("runtime.js")
	assert.Contains(t, string(js.Body), "/api/sessions/")
	assert.NotContains(t, string(js.Body), "\n  ")

	_, err := Get("missing.js")
	assert.Error(t, err)
}

func TestRuntimeActions(t *testing.T) {
	js, err := Get("runtime.js")
	require.NoError(t, err)

	body := string(js.Body)
	for _, want := range []string{`"popstate"`, `"navigate"`, `"share-result"`, `"copy-result"`} {
		assert.Contains(t, body, want)
	}
}
