package component

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/zbysir/gomodul/pkg/fetch"
	"github.com/zbysir/gomodul/pkg/highlight"
)

type AssetState int32

const (
	AssetNotStarted AssetState = iota
	AssetLoading
	// AssetDone covers both loaded and failed loads.
	AssetDone
)

func (s AssetState) String() string {
	switch s {
	case AssetLoading:
		return "loading"
	case AssetDone:
		return "done"
	}
	return "not-started"
}

// CodeAsset is the source text behind one code block. A file-backed asset is
// fetched once, outside the render pass; only that load mutates it.
type CodeAsset struct {
	// ID is the anchor id of the owning component.
	ID             string
	FilePath       string
	Language       string
	HighlightLines []int

	mu          sync.Mutex
	state       AssetState
	content     string
	placeholder bool
	lines       []string
	done        chan struct{}
}

func newFileAsset(id, filePath, language string, hl []int) *CodeAsset {
	return &CodeAsset{
		ID:             id,
		FilePath:       filePath,
		Language:       language,
		HighlightLines: hl,
		done:           make(chan struct{}),
	}
}

func newInlineAsset(ctx context.Context, id, code, language string, hl []int, h highlight.Highlighter, log Logger) *CodeAsset {
	a := newFileAsset(id, "", language, hl)
	a.finish(code, false, highlightLines(ctx, h, code, language, false, log))
	return a
}

func (a *CodeAsset) State() AssetState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Content returns the loaded text, or the placeholder after a failed load.
func (a *CodeAsset) Content() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content
}

func (a *CodeAsset) Placeholder() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.placeholder
}

// Lines returns one HTML fragment per source line.
func (a *CodeAsset) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lines
}

// Done is closed when the asset reaches AssetDone.
func (a *CodeAsset) Done() <-chan struct{} {
	return a.done
}

// Load fetches the file once. Calls after the first return immediately.
func (a *CodeAsset) Load(ctx context.Context, l fetch.Loader, h highlight.Highlighter, log Logger) {
	a.mu.Lock()
	if a.state != AssetNotStarted {
		a.mu.Unlock()
		return
	}
	a.state = AssetLoading
	a.mu.Unlock()

	r := l.Load(ctx, a.FilePath)
	if r.Placeholder && log != nil {
		log.Warn("load code asset failed", "path", a.FilePath, "err", r.Err)
	}
	a.finish(r.Content, r.Placeholder, highlightLines(ctx, h, r.Content, a.Language, r.Placeholder, log))
}

func (a *CodeAsset) finish(content string, placeholder bool, lines []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.content = content
	a.placeholder = placeholder
	a.lines = lines
	a.state = AssetDone
	close(a.done)
}

// highlightLines highlights code when possible and falls back to escaped text.
func highlightLines(ctx context.Context, h highlight.Highlighter, code, language string, plain bool, log Logger) []string {
	out := ""
	if h != nil && !plain {
		s, err := h.Highlight(ctx, code, language)
		if err == nil {
			out = s
		} else if log != nil {
			log.Warn("highlight failed", "language", language, "err", err)
		}
	}
	if out == "" {
		out = html.EscapeString(code)
	}
	out = strings.TrimSuffix(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	return strings.Split(out, "\n")
}
