package page

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/fetch"
)

const sampleDoc = `{
  "title": "Java Dasar",
  "description": "Belajar Java",
  "components": [
    {"type": "moduleHeader", "data": {"title": "Java Dasar", "moduleName": "Modul 1"}},
    {"type": "code", "data": {"title": "Hello", "filePath": "./code/Hello.java", "language": "java"}},
    {"type": "slider", "data": {}},
    {"type": "accordion", "data": {"title": "FAQ", "items": [{"title": "a", "content": "A"}, {"title": "b", "content": "B"}]}},
    {"type": "code", "data": {"title": "Missing", "filePath": "./code/Nope.java"}}
  ]
}`

func TestParse(t *testing.T) {
	cases := []struct {
		Name string
		In   string
		Err  error
		Len  int
	}{
		{Name: "ok", In: sampleDoc, Len: 5},
		{Name: "empty array", In: `{"components":[]}`, Len: 0},
		{Name: "missing", In: `{"title":"x"}`, Err: ErrNoComponents},
		{Name: "not array", In: `{"components":{"type":"hero"}}`, Err: ErrNoComponents},
		{Name: "null", In: `{"components":null}`, Err: ErrNoComponents},
		{Name: "bad entry keeps slot", In: `{"components":[1,{"type":"hero"}]}`, Len: 2},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			doc, err := Parse([]byte(c.In))
			if c.Err != nil {
				assert.ErrorIs(t, err, c.Err)
				var de *DocumentError
				assert.True(t, errors.As(err, &de))
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc.Components, c.Len)
		})
	}

	_, err := Parse([]byte(`{`))
	var de *DocumentError
	assert.True(t, errors.As(err, &de))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"data/modul-1.json": {Data: []byte(sampleDoc)},
		"data/bad.json":     {Data: []byte(`{"title":"x"}`)},
	}
	l := fetch.FSLoader{FS: fsys}
	ctx := context.Background()

	doc, err := Load(ctx, l, "/data/modul-1.json")
	require.NoError(t, err)
	assert.Equal(t, "Java Dasar", doc.Title)

	_, err = Load(ctx, l, "/data/none.json")
	var de *DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "/data/none.json", de.Path)

	_, err = Load(ctx, l, "/data/bad.json")
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "/data/bad.json", de.Path)
	assert.ErrorIs(t, err, ErrNoComponents)
	assert.Contains(t, ErrorView(err).HTML(), "Invalid JSON structure: components array is required")
}

func newComposer(fsys fstest.MapFS) *Composer {
	return NewComposer(nil, component.Env{}, fetch.FSLoader{FS: fsys})
}

var codeFS = fstest.MapFS{
	"code/Hello.java": {Data: []byte("class Hello {}\n")},
}

func TestCompose(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	p, err := newComposer(codeFS).Compose(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "Java Dasar", p.Title)
	assert.Equal(t, []string{"header-java-dasar", "code-hello", "slider", "accordion-faq", "code-missing"}, p.Anchors())
	require.Len(t, p.Root().Children, 5)

	html := p.HTML()
	assert.True(t, strings.HasPrefix(html, `<div id="module-root" class="module-content">`))
	assert.Contains(t, html, "class Hello {}")
	assert.Contains(t, html, "Unknown component type: <strong>slider</strong>")
	assert.Contains(t, html, "// Error: Could not load file Nope.java")
	assert.NotContains(t, html, "Loading code...")
	assert.Len(t, p.Errors(), 1)
}

func TestRenderBeforeLoad(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	var loads int32
	c := NewComposer(nil, component.Env{}, fetch.LoaderFunc(func(ctx context.Context, p string) fetch.Result {
		atomic.AddInt32(&loads, 1)
		return fetch.Result{Path: p, Content: "x"}
	}))
	p := c.Render(context.Background(), doc)
	assert.Equal(t, 2, strings.Count(p.HTML(), "Loading code..."))

	require.NoError(t, p.LoadAssets(context.Background()))
	require.NoError(t, p.LoadAssets(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
	assert.NotContains(t, p.HTML(), "Loading code...")
}

func TestNavigateToSection(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	p := newComposer(codeFS).Render(context.Background(), doc)
	now := time.Unix(1000, 0)

	u, _ := url.Parse("/modul/1?tab=a&section=accordion-faq")
	id, ok := p.NavigateToSection(u, now)
	require.True(t, ok)
	assert.Equal(t, "accordion-faq", id)
	assert.Contains(t, p.HTML(), `class="component-container component-accordion section-highlight ring ring-primary" data-component-type="accordion" data-highlight-ms="2000"`)

	active, ok := p.Highlighted(now.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, "accordion-faq", active)
	_, ok = p.Highlighted(now.Add(2 * time.Second))
	assert.False(t, ok)

	u, _ = url.Parse("/modul/1?section=code-hello")
	_, ok = p.NavigateToSection(u, now)
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(p.HTML(), "section-highlight"))

	for _, raw := range []string{"/modul/1", "/modul/1?section=nope", "/modul/1?section="} {
		u, _ = url.Parse(raw)
		_, ok = p.NavigateToSection(u, now)
		assert.False(t, ok, raw)
	}
}
