package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/controller"
)

// Action names accepted by Session.Apply.
const (
	ActionToggleAccordion  = "toggle-accordion"
	ActionDismissAlert     = "dismiss-alert"
	ActionAnswerQuiz       = "answer-quiz"
	ActionSubmitQuiz       = "submit-quiz"
	ActionToggleFullscreen = "toggle-fullscreen"
	ActionShare            = "share"
	ActionCopy             = "copy"
	ActionShareResult      = "share-result"
	ActionCopyResult       = "copy-result"
	ActionDownload         = "download"
	ActionDismissToast     = "dismiss-toast"
	ActionNavigate         = "navigate"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is one user interaction sent by the client.
type Action struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Index  int    `json:"index"`
	// Value is the answer, toast id, or how a client-side share or copy
	// ended ("native", "clipboard", "manual" / "ok", "failed").
	Value string `json:"value,omitempty"`
	// Copy is the text of a single-line copy button.
	Copy string `json:"copy,omitempty"`
	// URL is the page URL as the client sees it.
	URL          string                  `json:"url,omitempty"`
	Capabilities controller.Capabilities `json:"capabilities"`
}

// Result is what the client applies after an action.
type Result struct {
	Target    string                   `json:"target,omitempty"`
	HTML      string                   `json:"html,omitempty"`
	Remove    bool                     `json:"remove,omitempty"`
	Toasts    []controller.Toast       `json:"toasts"`
	Share     *controller.ShareOutcome `json:"share,omitempty"`
	Clipboard string                   `json:"clipboard,omitempty"`
	Download  *controller.Download     `json:"download,omitempty"`
	Highlight *Highlight               `json:"highlight,omitempty"`
}

type Highlight struct {
	ID    string    `json:"id"`
	Until time.Time `json:"until"`
}

type SessionOptions struct {
	ToastTTL time.Duration
	Now      func() time.Time
}

// Session is the interactive state of one view of a page.
type Session struct {
	ID string

	page    *Page
	current *url.URL
	now     func() time.Time

	mu         sync.Mutex
	accordions map[string]*controller.Accordion
	quizzes    map[string]*controller.Quiz
	alerts     *controller.Alerts
	fullscreen *controller.Fullscreen
	toasts     *controller.Toasts
}

// NewSession builds controllers for every interactive component of p.
// current is the URL the page was served under.
func NewSession(p *Page, current *url.URL, opts SessionOptions) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if current == nil {
		current = &url.URL{Path: "/"}
	}
	s := &Session{
		ID:         uuid.NewString(),
		page:       p,
		current:    current,
		now:        opts.Now,
		accordions: map[string]*controller.Accordion{},
		quizzes:    map[string]*controller.Quiz{},
		alerts:     controller.NewAlerts(),
		fullscreen: controller.NewFullscreen(),
		toasts:     controller.NewToasts(opts.ToastTTL, opts.Now),
	}
	for _, w := range p.Widgets() {
		switch {
		case w.Accordion != nil:
			s.accordions[w.ID] = controller.NewAccordion(w.ID, len(w.Accordion.Items), w.Accordion.AllowMultiple, w.Accordion.DefaultOpen())
		case w.Quiz != nil:
			s.quizzes[w.ID] = controller.NewQuiz(w.ID, w.Quiz.QuestionKinds())
		case w.Dismissible:
			s.alerts.Register(w.ID)
		}
	}
	return s
}

func (s *Session) Page() *Page {
	return s.page
}

func (s *Session) Toasts() *controller.Toasts {
	return s.toasts
}

func (s *Session) Accordion(id string) (*controller.Accordion, bool) {
	a, ok := s.accordions[id]
	return a, ok
}

func (s *Session) Quiz(id string) (*controller.Quiz, bool) {
	q, ok := s.quizzes[id]
	return q, ok
}

// Expanded implements component.StateView.
func (s *Session) Expanded(id string, i int) (bool, bool) {
	a, ok := s.accordions[id]
	if !ok {
		return false, false
	}
	return a.IsExpanded(i), true
}

func (s *Session) AlertVisible(id string) bool {
	return s.alerts.Visible(id)
}

func (s *Session) QuizAnswer(id string, i int) string {
	q, ok := s.quizzes[id]
	if !ok {
		return ""
	}
	return q.AnswerOf(i)
}

func (s *Session) QuizResult(id string) (int, bool) {
	q, ok := s.quizzes[id]
	if !ok {
		return 0, false
	}
	r, ok := q.Result()
	return r.CompletionRate, ok
}

func (s *Session) Fullscreen(id string) bool {
	return s.fullscreen.IsOn(id)
}

var _ component.StateView = (*Session)(nil)

// Apply runs one controller transition and returns the fragment to swap in.
func (s *Session) Apply(ctx context.Context, a Action) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Target: a.Target}
	var err error
	switch a.Type {
	case ActionToggleAccordion:
		acc, ok := s.accordions[a.Target]
		if !ok {
			return s.fail(a)
		}
		if err = acc.Toggle(a.Index); err == nil {
			err = s.rerender(ctx, &res)
		}
	case ActionDismissAlert:
		w, ok := s.page.Widget(a.Target)
		if !ok || !w.Dismissible {
			return s.fail(a)
		}
		s.alerts.Dismiss(a.Target)
		res.Remove = true
		err = s.rerender(ctx, &res)
	case ActionAnswerQuiz:
		q, ok := s.quizzes[a.Target]
		if !ok {
			return s.fail(a)
		}
		err = q.Answer(a.Index, a.Value)
	case ActionSubmitQuiz:
		q, ok := s.quizzes[a.Target]
		if !ok {
			return s.fail(a)
		}
		if !q.Submitted() {
			s.toasts.Push(q.Submit().String(), controller.ToastSuccess)
		}
		err = s.rerender(ctx, &res)
	case ActionToggleFullscreen:
		if _, ok := s.page.Widget(a.Target); !ok {
			return s.fail(a)
		}
		s.fullscreen.Toggle(a.Target)
		err = s.rerender(ctx, &res)
	case ActionShare:
		w, ok := s.page.Widget(a.Target)
		if !ok {
			return s.fail(a)
		}
		out := controller.Share(ctx, controller.ShareTarget{ID: w.ID, Title: w.Title}, s.url(a), a.Capabilities, s.toasts)
		res.Share = &out
	case ActionShareResult:
		w, ok := s.page.Widget(a.Target)
		if !ok {
			return s.fail(a)
		}
		data := controller.ShareData{Title: w.Title, URL: controller.ShareURL(s.url(a), w.ID)}
		out := controller.SettleShare(controller.ShareMethod(a.Value), data, s.toasts)
		res.Share = &out
	case ActionCopy:
		text, ok := s.copyText(a)
		if !ok {
			return s.fail(a)
		}
		if controller.CopyCode(ctx, a.Capabilities, text, s.toasts) {
			res.Clipboard = text
		}
	case ActionCopyResult:
		controller.SettleCopy(a.Value == "ok", s.toasts)
	case ActionDownload:
		w, ok := s.page.Widget(a.Target)
		if !ok || w.Asset == nil {
			return s.fail(a)
		}
		plan := controller.PlanDownload(w.Asset.FilePath, w.Asset.Content(), w.Asset.Language)
		res.Download = &plan
	case ActionDismissToast:
		s.toasts.Dismiss(a.Value)
	case ActionNavigate:
		u := s.url(a)
		id, ok := s.page.NavigateToSection(u, s.now())
		if ok {
			res.Target = id
			res.Highlight = &Highlight{ID: id, Until: s.now().Add(s.page.highlight.Duration())}
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	res.Toasts = s.toasts.Active()
	return res, err
}

func (s *Session) fail(a Action) (Result, error) {
	return Result{}, fmt.Errorf("%s %q: %w", a.Type, a.Target, controller.ErrNoSuchItem)
}

func (s *Session) rerender(ctx context.Context, res *Result) error {
	n, ok := s.page.rerender(ctx, res.Target, s)
	if !ok {
		return fmt.Errorf("rerender %q: %w", res.Target, controller.ErrNoSuchItem)
	}
	res.HTML = n.HTML()
	return nil
}

func (s *Session) copyText(a Action) (string, bool) {
	if a.Copy != "" {
		return a.Copy, true
	}
	w, ok := s.page.Widget(a.Target)
	if !ok {
		return "", false
	}
	if w.Asset != nil {
		return w.Asset.Content(), true
	}
	return w.Copy, w.Copy != ""
}

func (s *Session) url(a Action) *url.URL {
	if a.URL != "" {
		if u, err := url.Parse(a.URL); err == nil {
			return u
		}
	}
	return s.current
}
