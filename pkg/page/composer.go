package page

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/controller"
	"github.com/zbysir/gomodul/pkg/fetch"
	"github.com/zbysir/gomodul/pkg/timetrack"
	"github.com/zbysir/gomodul/pkg/vdom"
	"golang.org/x/sync/errgroup"
)

// RootID is the id of the element every page renders into.
const RootID = "module-root"

// highlightClasses mark the section a deep link points at.
var highlightClasses = []string{"section-highlight", "ring", "ring-primary"}

type Composer struct {
	Registry *component.Registry
	Env      component.Env
	// Loader fetches file-backed code assets.
	Loader fetch.Loader
	// HighlightDuration is how long a deep-linked section stays highlighted.
	HighlightDuration time.Duration
	// Tracker times the render and asset phases of Compose. May be nil.
	Tracker *timetrack.Tracker
}

func NewComposer(reg *component.Registry, env component.Env, loader fetch.Loader) *Composer {
	return &Composer{Registry: reg, Env: env, Loader: loader}
}

// Render renders every descriptor of doc in order. Code assets are left
// unloaded; see Page.LoadAssets.
func (c *Composer) Render(ctx context.Context, doc *Document) *Page {
	d := component.NewDispatcher(c.Registry, c.Env)
	nodes := d.RenderAll(ctx, doc.Components)
	return &Page{
		Title:       doc.Title,
		Description: doc.Description,
		Meta:        doc.Meta,
		doc:         doc,
		root:        vdom.El("div", nodes...).ID(RootID).Class("module-content"),
		d:           d,
		ids:         d.Anchors(),
		loader:      c.Loader,
		env:         c.Env,
		highlight:   controller.NewSectionHighlight(c.HighlightDuration),
	}
}

// Compose renders doc and waits for its code assets.
func (c *Composer) Compose(ctx context.Context, doc *Document) (*Page, error) {
	defer c.Tracker.Start("compose")()

	end := c.Tracker.Start("render")
	p := c.Render(ctx, doc)
	end()

	defer c.Tracker.Start("load assets")()
	if err := p.LoadAssets(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// Page is a rendered document.
type Page struct {
	Title       string
	Description string
	Meta        map[string]interface{}

	doc    *Document
	d      *component.Dispatcher
	ids    []string
	loader fetch.Loader
	env    component.Env

	mu          sync.Mutex
	root        *vdom.Node
	highlighted string

	highlight *controller.SectionHighlight
}

// LoadAssets loads every file-backed code asset concurrently. A failed
// asset only affects its own component; the error is the context's.
func (p *Page) LoadAssets(ctx context.Context) error {
	if p.loader == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range p.d.Assets() {
		if a.State() != component.AssetNotStarted {
			continue
		}
		g.Go(func() error {
			a.Load(gctx, p.loader, p.env.Highlighter, p.env.Logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Page) Document() *Document {
	return p.doc
}

// Root returns the page tree. Callers must not mutate it.
func (p *Page) Root() *vdom.Node {
	return p.root
}

func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root.HTML()
}

// Anchors returns the anchor id of each component in document order.
func (p *Page) Anchors() []string {
	return append([]string(nil), p.ids...)
}

func (p *Page) Widgets() []*component.Widget {
	return p.d.Widgets()
}

func (p *Page) Widget(id string) (*component.Widget, bool) {
	return p.d.Widget(id)
}

// Errors returns the component-level failures of the page.
func (p *Page) Errors() []error {
	return p.d.Errors()
}

func (p *Page) indexOf(id string) int {
	for i, x := range p.ids {
		if x == id {
			return i
		}
	}
	return -1
}

// rerender renders the component anchored at id with state and swaps it
// into the tree.
func (p *Page) rerender(ctx context.Context, id string, state component.StateView) (*vdom.Node, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return nil, false
	}
	n := p.d.Rerender(ctx, p.doc.Components[i], id, state)
	p.mu.Lock()
	if active, ok := p.highlight.Active(time.Now()); ok && active == id {
		n.Class(highlightClasses...)
	}
	p.root.Children[i] = n
	p.mu.Unlock()
	return n, true
}

// NavigateToSection highlights the section named by the "section" query
// parameter of u. Unknown or absent sections are ignored.
func (p *Page) NavigateToSection(u *url.URL, now time.Time) (string, bool) {
	if u == nil {
		return "", false
	}
	id := u.Query().Get("section")
	i := p.indexOf(id)
	if id == "" || i < 0 {
		return "", false
	}
	p.highlight.Set(id, now)

	p.mu.Lock()
	defer p.mu.Unlock()
	if j := p.indexOf(p.highlighted); j >= 0 {
		for _, c := range highlightClasses {
			p.root.Children[j].RemoveClass(c)
		}
	}
	p.highlighted = id
	p.root.Children[i].
		Class(highlightClasses...).
		Data("highlightMs", strconv.FormatInt(p.highlight.Duration().Milliseconds(), 10))
	return id, true
}

// Highlighted returns the highlighted section while the highlight lasts.
func (p *Page) Highlighted(now time.Time) (string, bool) {
	return p.highlight.Active(now)
}
