// Package gomodul renders learning-module documents into interactive HTML pages.
package gomodul

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/fetch"
	"github.com/zbysir/gomodul/pkg/highlight"
	"github.com/zbysir/gomodul/pkg/markdown"
	"github.com/zbysir/gomodul/pkg/mdx"
	"github.com/zbysir/gomodul/pkg/page"
	"github.com/zbysir/gomodul/pkg/sanitize"
	"github.com/zbysir/gomodul/pkg/timetrack"
	"github.com/zbysir/gomodul/pkg/vdom"
)

type Engine struct {
	reg      *component.Registry
	env      component.Env
	loader   fetch.Loader
	mdx      *mdx.Parser
	composer *page.Composer
	tracker  *timetrack.Tracker

	highlightDuration time.Duration
	toastTTL          time.Duration
	cacheSize         int
}

type Option interface {
	apply(e *Engine)
}

type OptionFunc func(e *Engine)

func (o OptionFunc) apply(e *Engine) {
	o(e)
}

// WithFS loads code assets from fsys, and full URLs over HTTP.
func WithFS(fsys fs.FS) Option {
	return OptionFunc(func(e *Engine) {
		e.loader = fetch.NewFetcher(fsys, http.DefaultClient, "")
	})
}

func WithLoader(l fetch.Loader) Option {
	return OptionFunc(func(e *Engine) {
		e.loader = l
	})
}

func WithTheme(theme string) Option {
	return OptionFunc(func(e *Engine) {
		e.env.Theme = theme
	})
}

func WithHighlighter(h highlight.Highlighter) Option {
	return OptionFunc(func(e *Engine) {
		e.env.Highlighter = h
	})
}

func WithLogger(l component.Logger) Option {
	return OptionFunc(func(e *Engine) {
		e.env.Logger = l
	})
}

func WithRegistry(r *component.Registry) Option {
	return OptionFunc(func(e *Engine) {
		e.reg = r
	})
}

// WithMarkdownCacheSize sets how many rendered markdown fragments are kept.
func WithMarkdownCacheSize(n int) Option {
	return OptionFunc(func(e *Engine) {
		e.cacheSize = n
	})
}

func WithSectionHighlight(d time.Duration) Option {
	return OptionFunc(func(e *Engine) {
		e.highlightDuration = d
	})
}

// WithTracker times the phases of every Render.
func WithTracker(t *timetrack.Tracker) Option {
	return OptionFunc(func(e *Engine) {
		e.tracker = t
	})
}

func WithToastTTL(d time.Duration) Option {
	return OptionFunc(func(e *Engine) {
		e.toastTTL = d
	})
}

func New(ops ...Option) *Engine {
	e := &Engine{
		loader:    fetch.NewFetcher(os.DirFS("."), http.DefaultClient, ""),
		mdx:       mdx.New(),
		cacheSize: markdown.DefaultCacheSize,
	}
	for _, o := range ops {
		o.apply(e)
	}
	if e.reg == nil {
		e.reg = component.NewRegistry()
	}
	e.env.Converter = markdown.New(markdown.WithCacheSize(e.cacheSize))
	e.env.Sanitizer = sanitize.New(sanitize.DefaultPolicy())

	e.composer = page.NewComposer(e.reg, e.env, e.loader)
	e.composer.HighlightDuration = e.highlightDuration
	e.composer.Tracker = e.tracker
	return e
}

func (e *Engine) Registry() *component.Registry {
	return e.reg
}

func (e *Engine) Composer() *page.Composer {
	return e.composer
}

// Parse reads a document; name picks the format, see DocumentFormat.
func (e *Engine) Parse(name string, src []byte) (*page.Document, error) {
	var (
		doc *page.Document
		err error
	)
	switch DocumentFormat(name) {
	case FormatMDX:
		doc, err = e.mdx.Parse(src)
	case FormatJSON:
		doc, err = page.Parse(src)
	default:
		return nil, &page.DocumentError{Path: name, Err: fmt.Errorf("unsupported document type %q", name)}
	}
	var de *page.DocumentError
	if errors.As(err, &de) && de.Path == "" {
		de.Path = name
	}
	return doc, err
}

// Render renders doc and loads its code assets.
func (e *Engine) Render(ctx context.Context, doc *page.Document) (*page.Page, error) {
	return e.composer.Compose(ctx, doc)
}

// RenderFile parses and renders the document at name in fsys.
func (e *Engine) RenderFile(ctx context.Context, fsys fs.FS, name string) (*page.Page, error) {
	bs, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &page.DocumentError{Path: name, Err: err}
	}
	doc, err := e.Parse(name, bs)
	if err != nil {
		return nil, err
	}
	return e.Render(ctx, doc)
}

// NewSession starts the interactive state of one view of p served at u.
func (e *Engine) NewSession(p *page.Page, u *url.URL) *page.Session {
	return page.NewSession(p, u, page.SessionOptions{ToastTTL: e.toastTTL})
}

// MountEndpoint places the rendered Page where Endpoint appears in a template.
type MountEndpoint struct {
	Endpoint string
	Page     *page.Page
}

// Mount replaces each endpoint of indexTpl with its page html.
func (e *Engine) Mount(indexTpl string, es ...MountEndpoint) string {
	var oldnew []string
	for _, ep := range es {
		oldnew = append(oldnew, ep.Endpoint, ep.Page.HTML())
	}
	return strings.NewReplacer(oldnew...).Replace(indexTpl)
}

// Shell describes the html document around a rendered page.
type Shell struct {
	Title       string
	Description string
	// Theme is written to data-theme; "system" and "" leave it unset.
	Theme      string
	SessionID  string
	LiveReload bool
	// Inline embeds Script and Style instead of linking /runtime.js and /style.css.
	Inline bool
	Script string
	Style  string
}

// Document wraps body in a complete html document.
func (s Shell) Document(body *vdom.Node) string {
	h := vdom.El("html").Set("lang", "id")
	if s.Theme != "" && s.Theme != "system" {
		h.Set("data-theme", s.Theme)
	}
	h.SetIf("data-session", s.SessionID).Flag("data-live-reload", s.LiveReload)

	head := vdom.El("head",
		vdom.El("meta").Set("charset", "utf-8"),
		vdom.El("meta").Set("name", "viewport").Set("content", "width=device-width, initial-scale=1"),
		vdom.El("title", vdom.Text(s.Title)),
	)
	if s.Description != "" {
		head.Append(vdom.El("meta").Set("name", "description").Set("content", s.Description))
	}
	var script *vdom.Node
	if s.Inline {
		head.Append(vdom.El("style", vdom.Raw(s.Style)))
		script = vdom.El("script", vdom.Raw(s.Script))
	} else {
		head.Append(vdom.El("link").Set("rel", "stylesheet").Set("href", "/style.css"))
		script = vdom.El("script").Set("src", "/runtime.js").Flag("defer", true)
	}

	h.Append(head, vdom.El("body", vdom.El("main", body).Class("min-h-screen"), script))
	return "<!DOCTYPE html>\n" + h.HTML()
}
