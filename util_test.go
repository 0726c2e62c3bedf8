package gomodul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentFormat(t *testing.T) {
	cases := map[string]Format{
		"modul/1/index.mdx": FormatMDX,
		"README.MD":         FormatMDX,
		"data/modul-1.json": FormatJSON,
		"main.go":           "",
		"noext":             "",
	}

	for in, out := range cases {
		assert.Equal(t, out, DocumentFormat(in), in)
	}
	assert.False(t, IsDocument("style.css"))
}
