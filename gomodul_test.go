package gomodul

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbysir/gomodul/pkg/page"
	"github.com/zbysir/gomodul/pkg/vdom"
)

var site = fstest.MapFS{
	"src/Hello.java": {Data: []byte("class Hello {}\n")},
	"modul-1.json": {Data: []byte(`{
		"title": "Java Dasar",
		"components": [
			{"type": "moduleHeader", "data": {"title": "Java Dasar"}},
			{"type": "code", "data": {"title": "Hello", "filePath": "./src/Hello.java", "language": "java"}}
		]
	}`)},
	"index.mdx": {Data: []byte("---\ntitle: Intro\n---\n# Halo\n\n<Alert type=\"info\" title=\"Catatan\" content=\"Baca dulu.\" />\n")},
	"bad.json":  {Data: []byte(`{"title": "x"}`)},
}

func TestRenderFile(t *testing.T) {
	e := New(WithFS(site))

	p, err := e.RenderFile(context.Background(), site, "modul-1.json")
	require.NoError(t, err)
	assert.Equal(t, "Java Dasar", p.Title)
	assert.Equal(t, []string{"header-java-dasar", "code-hello"}, p.Anchors())
	assert.Contains(t, p.HTML(), "class Hello {}")

	p, err = e.RenderFile(context.Background(), site, "index.mdx")
	require.NoError(t, err)
	assert.Equal(t, "Intro", p.Title)
	assert.Equal(t, []string{"text", "alert-catatan"}, p.Anchors())

	_, err = e.RenderFile(context.Background(), site, "bad.json")
	var de *page.DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "bad.json", de.Path)

	_, err = e.RenderFile(context.Background(), site, "missing.json")
	assert.Error(t, err)

	_, err = e.Parse("notes.txt", []byte("x"))
	assert.Error(t, err)
}

func TestMount(t *testing.T) {
	e := New(WithFS(site), WithTheme("blue"))
	p, err := e.RenderFile(context.Background(), site, "modul-1.json")
	require.NoError(t, err)

	out := e.Mount("<body><main></main></body>", MountEndpoint{Endpoint: "<main></main>", Page: p})
	assert.True(t, strings.HasPrefix(out, `<body><div id="module-root" class="module-content">`))
}

func TestSession(t *testing.T) {
	e := New(WithFS(site))
	p, err := e.RenderFile(context.Background(), site, "modul-1.json")
	require.NoError(t, err)

	s := e.NewSession(p, &url.URL{Path: "/modul/1"})
	res, err := s.Apply(context.Background(), page.Action{Type: page.ActionCopy, Target: "code-hello"})
	require.NoError(t, err)
	assert.Empty(t, res.Clipboard)
	require.Len(t, res.Toasts, 1)
}

func TestShell(t *testing.T) {
	body := vdom.El("div").ID(page.RootID)

	out := Shell{Title: "A & B", Theme: "dark", SessionID: "s1", LiveReload: true}.Document(body)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"id\" data-theme=\"dark\" data-session=\"s1\" data-live-reload>"))
	assert.Contains(t, out, "<title>A &amp; B</title>")
	assert.Contains(t, out, `<script src="/runtime.js" defer></script>`)
	assert.Contains(t, out, `<main class="min-h-screen"><div id="module-root"></div></main>`)

	out = Shell{Theme: "system", Inline: true, Script: "run()", Style: "a{}"}.Document(body)
	assert.NotContains(t, out, "data-theme")
	assert.Contains(t, out, "<style>a{}</style>")
	assert.Contains(t, out, "<script>run()</script>")
}
