package mermaid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestExtender(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(&Extender{}))

	var out bytes.Buffer
	src := "# Flow\n\n```mermaid\ngraph TD;\n  A-->B;\n```\n"
	require.NoError(t, md.Convert([]byte(src), &out))

	assert.Contains(t, out.String(), "<pre class=\"mermaid\">graph TD;\n  A--&gt;B;\n</pre>")
	assert.NotContains(t, out.String(), "<script")
}
