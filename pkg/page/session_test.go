package page

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zbysir/gomodul/pkg/controller"
)

const interactiveDoc = `{
  "components": [
    {"type": "accordion", "data": {"title": "FAQ", "items": [{"title": "a", "content": "A"}, {"title": "b", "content": "B"}]}},
    {"type": "quiz", "data": {"title": "Check", "questions": [{"question": "Pick", "options": ["x", "y"]}, {"question": "Why?"}]}},
    {"type": "alert", "data": {"title": "Heads up", "content": "hi", "dismissible": true, "shared": true}},
    {"type": "command", "data": {"title": "Run", "commands": [{"command": "go build"}, {"command": "go test"}]}},
    {"type": "code", "data": {"title": "Snippet", "code": "let a = 1"}}
  ]
}`

func newTestSession(t *testing.T) *Session {
	doc, err := Parse([]byte(interactiveDoc))
	require.NoError(t, err)
	p, err := newComposer(nil).Compose(context.Background(), doc)
	require.NoError(t, err)
	now := time.Unix(1000, 0)
	u, _ := url.Parse("/modul/1?tab=x")
	return NewSession(p, u, SessionOptions{Now: func() time.Time { return now }})
}

func TestSessionAccordion(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, Action{Type: ActionToggleAccordion, Target: "accordion-faq", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(res.HTML, "collapse-open"))
	assert.Contains(t, res.HTML, `data-index="0" aria-expanded="true"`)

	res, err = s.Apply(ctx, Action{Type: ActionToggleAccordion, Target: "accordion-faq", Index: 1})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `data-index="0" aria-expanded="false"`)
	assert.Contains(t, res.HTML, `data-index="1" aria-expanded="true"`)

	acc, ok := s.Accordion("accordion-faq")
	require.True(t, ok)
	assert.Equal(t, []int{1}, acc.Expanded())
	assert.Contains(t, s.Page().HTML(), `data-index="1" aria-expanded="true"`)

	_, err = s.Apply(ctx, Action{Type: ActionToggleAccordion, Target: "accordion-faq", Index: 5})
	assert.ErrorIs(t, err, controller.ErrNoSuchItem)
}

func TestSessionQuiz(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, Action{Type: ActionAnswerQuiz, Target: "quiz-check", Index: 0, Value: "y"})
	require.NoError(t, err)

	res, err := s.Apply(ctx, Action{Type: ActionSubmitQuiz, Target: "quiz-check"})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "Quiz submitted! Completion: 50%")
	require.Len(t, res.Toasts, 1)
	assert.Equal(t, "Quiz submitted! Completion: 50%", res.Toasts[0].Message)

	res, err = s.Apply(ctx, Action{Type: ActionSubmitQuiz, Target: "quiz-check"})
	require.NoError(t, err)
	assert.Len(t, res.Toasts, 1)

	_, err = s.Apply(ctx, Action{Type: ActionAnswerQuiz, Target: "quiz-check", Index: 1, Value: "late"})
	assert.ErrorIs(t, err, controller.ErrSubmitted)
}

func TestSessionAlert(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, Action{Type: ActionDismissAlert, Target: "alert-heads-up"})
	require.NoError(t, err)
	assert.True(t, res.Remove)
	assert.Contains(t, res.HTML, `<div class="alert-dismissed" hidden></div>`)
	assert.False(t, s.AlertVisible("alert-heads-up"))

	_, err = s.Apply(ctx, Action{Type: ActionDismissAlert, Target: "alert-heads-up"})
	assert.NoError(t, err)

	_, err = s.Apply(ctx, Action{Type: ActionDismissAlert, Target: "quiz-check"})
	assert.ErrorIs(t, err, controller.ErrNoSuchItem)
}

func TestSessionShare(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, Action{Type: ActionShare, Target: "alert-heads-up", Capabilities: controller.Capabilities{CanShare: true}})
	require.NoError(t, err)
	assert.Equal(t, controller.ShareNative, res.Share.Method)
	assert.True(t, res.Share.Pending)
	assert.Equal(t, "/modul/1?tab=x&section=alert-heads-up", res.Share.Data.URL)
	assert.Equal(t, "Check out this section: Heads up", res.Share.Data.Text)
	assert.Empty(t, res.Toasts)

	res, err = s.Apply(ctx, Action{Type: ActionShare, Target: "alert-heads-up", Capabilities: controller.Capabilities{CanClipboard: true}})
	require.NoError(t, err)
	assert.Equal(t, controller.ShareClipboard, res.Share.Method)
	assert.True(t, res.Share.Pending)
	assert.Empty(t, res.Toasts)

	// The client fell back to the clipboard after the share sheet was dismissed.
	res, err = s.Apply(ctx, Action{Type: ActionShareResult, Target: "alert-heads-up", Value: "clipboard"})
	require.NoError(t, err)
	assert.Equal(t, controller.ShareClipboard, res.Share.Method)
	require.Len(t, res.Toasts, 1)
	assert.Equal(t, "Copied to clipboard!", res.Toasts[0].Message)

	res, err = s.Apply(ctx, Action{Type: ActionShareResult, Target: "alert-heads-up", Value: "manual"})
	require.NoError(t, err)
	assert.Equal(t, controller.ShareManual, res.Share.Method)
	assert.Equal(t, "Copy this link: /modul/1?tab=x&section=alert-heads-up", res.Toasts[0].Message)

	_, err = s.Apply(ctx, Action{Type: ActionShareResult, Target: "nope", Value: "manual"})
	assert.ErrorIs(t, err, controller.ErrNoSuchItem)

	res, err = s.Apply(ctx, Action{Type: ActionShare, Target: "alert-heads-up", URL: "https://x.dev/modul/1?section=old&b=2"})
	require.NoError(t, err)
	assert.Equal(t, controller.ShareManual, res.Share.Method)
	assert.Equal(t, "Copy this link: https://x.dev/modul/1?b=2&section=alert-heads-up", res.Toasts[0].Message)
}

func TestSessionCopyAndDownload(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	clip := controller.Capabilities{CanClipboard: true}

	res, err := s.Apply(ctx, Action{Type: ActionCopy, Target: "command-run", Capabilities: clip})
	require.NoError(t, err)
	assert.Equal(t, "go build\ngo test", res.Clipboard)

	res, err = s.Apply(ctx, Action{Type: ActionCopy, Target: "command-run", Copy: "go test", Capabilities: clip})
	require.NoError(t, err)
	assert.Equal(t, "go test", res.Clipboard)

	assert.Empty(t, res.Toasts)

	res, err = s.Apply(ctx, Action{Type: ActionCopyResult, Target: "command-run", Value: "ok"})
	require.NoError(t, err)
	require.Len(t, res.Toasts, 1)
	assert.Equal(t, "Copied to clipboard!", res.Toasts[0].Message)

	res, err = s.Apply(ctx, Action{Type: ActionCopyResult, Target: "command-run", Value: "failed"})
	require.NoError(t, err)
	assert.Equal(t, "Failed to copy", res.Toasts[0].Message)

	res, err = s.Apply(ctx, Action{Type: ActionCopy, Target: "code-snippet"})
	require.NoError(t, err)
	assert.Empty(t, res.Clipboard)
	assert.Equal(t, "Failed to copy", res.Toasts[0].Message)

	res, err = s.Apply(ctx, Action{Type: ActionDownload, Target: "code-snippet"})
	require.NoError(t, err)
	require.NotNil(t, res.Download)
	assert.False(t, res.Download.Native)
	assert.Equal(t, "code.js", res.Download.FileName)
	assert.Equal(t, "let a = 1", res.Download.Content)

	id := res.Toasts[0].ID
	res, err = s.Apply(ctx, Action{Type: ActionDismissToast, Value: id})
	require.NoError(t, err)
	for _, tt := range res.Toasts {
		assert.NotEqual(t, id, tt.ID)
	}
}

func TestSessionFullscreenAndNavigate(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, Action{Type: ActionToggleFullscreen, Target: "code-snippet"})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "component-fullscreen")
	res, err = s.Apply(ctx, Action{Type: ActionToggleFullscreen, Target: "code-snippet"})
	require.NoError(t, err)
	assert.NotContains(t, res.HTML, "component-fullscreen")

	res, err = s.Apply(ctx, Action{Type: ActionNavigate, URL: "/modul/1?section=quiz-check"})
	require.NoError(t, err)
	require.NotNil(t, res.Highlight)
	assert.Equal(t, "quiz-check", res.Highlight.ID)
	assert.Equal(t, time.Unix(1002, 0), res.Highlight.Until)

	res, err = s.Apply(ctx, Action{Type: ActionNavigate, URL: "/modul/1?section=missing"})
	require.NoError(t, err)
	assert.Nil(t, res.Highlight)
}

func TestSessionUnknown(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Apply(context.Background(), Action{Type: "explode"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = s.Apply(context.Background(), Action{Type: ActionSubmitQuiz, Target: "nope"})
	assert.ErrorIs(t, err, controller.ErrNoSuchItem)
}
