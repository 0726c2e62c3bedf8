package main

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbysir/gomodul"
)

func TestCheckFS(t *testing.T) {
	fsys := fstest.MapFS{
		"src/A.java":          {Data: []byte("class A {}")},
		"data/modul-1.json":   {Data: []byte(`{"components": [{"type": "code", "data": {"filePath": "/src/A.java"}}]}`)},
		"data/modul-2.json":   {Data: []byte(`{"components": [{"type": "slider"}, {"type": "code", "data": {"filePath": "/src/B.java"}}]}`)},
		"data/modul-3.json":   {Data: []byte(`{"title": "no components"}`)},
		"content/x/index.mdx": {Data: []byte("# Hi\n")},
		".git/config.json":    {Data: []byte(`{}`)},
		"README.txt":          {Data: []byte("skip")},
	}
	e := gomodul.New(gomodul.WithFS(fsys))

	rs, err := checkFS(context.Background(), e, fsys)
	require.NoError(t, err)

	byPath := map[string]Report{}
	for _, r := range rs {
		byPath[r.Path] = r
	}
	require.Len(t, byPath, 4)
	assert.NoError(t, byPath["data/modul-1.json"].Err)
	assert.Empty(t, byPath["data/modul-1.json"].Problems)
	assert.Len(t, byPath["data/modul-2.json"].Problems, 2)
	assert.Error(t, byPath["data/modul-3.json"].Err)
	assert.Empty(t, byPath["content/x/index.mdx"].Problems)
	assert.Equal(t, 1, failed(rs))

	out := formatReport("site", rs)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "4 documents, 1 failed, 1 with warnings")
}
