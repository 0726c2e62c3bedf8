package component

import (
	"context"

	"github.com/zbysir/gomodul/pkg/highlight"
	"github.com/zbysir/gomodul/pkg/markdown"
	"github.com/zbysir/gomodul/pkg/sanitize"
	"github.com/zbysir/gomodul/pkg/vdom"
)

type Logger interface {
	Warn(msg string, kv ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

// colorMap maps palette names to tone classes.
var colorMap = map[string]string{
	"orange":  "warning",
	"navy":    "info",
	"blue":    "info",
	"success": "success",
	"error":   "error",
	"warning": "warning",
	"default": "neutral",
	"primary": "primary",
}

const DefaultTheme = "orange"

// Tone returns the tone class for a palette name, "primary" when unknown.
func Tone(theme string) string {
	if t, ok := colorMap[theme]; ok {
		return t
	}
	return "primary"
}

// StateView exposes interactive state to renderers. A nil StateView
// renders every component in its initial state.
type StateView interface {
	Expanded(id string, index int) (bool, bool)
	AlertVisible(id string) bool
	QuizAnswer(id string, index int) string
	QuizResult(id string) (rate int, submitted bool)
	Fullscreen(id string) bool
}

// Widget describes an interactive component found during rendering.
type Widget struct {
	ID          string
	Kind        Kind
	Title       string
	Shared      bool
	Dismissible bool
	Accordion   *Accordion
	Quiz        *Quiz
	Asset       *CodeAsset
	// Copy is the text a copy-all action writes, for command blocks.
	Copy string
}

// RenderContext is what a RenderFunc sees.
type RenderContext struct {
	Context     context.Context
	Kind        Kind
	AnchorID    string
	Theme       string
	Converter   *markdown.Converter
	Sanitizer   *sanitize.Sanitizer
	Highlighter highlight.Highlighter
	Logger      Logger
	State       StateView

	d      *Dispatcher
	widget *Widget
}

// Tone resolves a payload theme, falling back to the page theme.
func (rc *RenderContext) Tone(theme string) string {
	if theme == "" {
		theme = rc.Theme
	}
	return Tone(theme)
}

// HTML sanitizes an HTML fragment from the payload.
func (rc *RenderContext) HTML(s string) *vdom.Node {
	if rc.Sanitizer == nil {
		return vdom.Raw(sanitize.HTML(s))
	}
	return vdom.Raw(rc.Sanitizer.HTML(s))
}

// Markdown renders markdown prose and sanitizes the result.
func (rc *RenderContext) Markdown(s string) *vdom.Node {
	if rc.Converter == nil {
		return vdom.Text(s)
	}
	out, err := rc.Converter.Convert(s)
	if err != nil {
		rc.Logger.Warn("render markdown failed", "anchor", rc.AnchorID, "err", err)
		return vdom.Text(s)
	}
	return rc.HTML(out)
}

// Widget returns the interactive description of the component being rendered.
func (rc *RenderContext) Widget() *Widget {
	return rc.widget
}

// Asset returns the code asset of this component, creating it on first render.
func (rc *RenderContext) Asset(p *Code) *CodeAsset {
	return rc.d.asset(rc, p)
}

func (rc *RenderContext) expanded(index int, def bool) bool {
	if rc.State == nil {
		return def
	}
	if v, ok := rc.State.Expanded(rc.AnchorID, index); ok {
		return v
	}
	return def
}

func (rc *RenderContext) alertVisible() bool {
	return rc.State == nil || rc.State.AlertVisible(rc.AnchorID)
}

func (rc *RenderContext) quizAnswer(index int) string {
	if rc.State == nil {
		return ""
	}
	return rc.State.QuizAnswer(rc.AnchorID, index)
}

func (rc *RenderContext) quizResult() (int, bool) {
	if rc.State == nil {
		return 0, false
	}
	return rc.State.QuizResult(rc.AnchorID)
}

func (rc *RenderContext) fullscreen() bool {
	return rc.State != nil && rc.State.Fullscreen(rc.AnchorID)
}
