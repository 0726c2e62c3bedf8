package component

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/stoewer/go-strcase"
	"github.com/zbysir/gomodul/pkg/anchor"
	"github.com/zbysir/gomodul/pkg/highlight"
	"github.com/zbysir/gomodul/pkg/markdown"
	"github.com/zbysir/gomodul/pkg/sanitize"
	"github.com/zbysir/gomodul/pkg/vdom"
)

// Env holds the collaborators shared by every render of a page.
type Env struct {
	// Theme is the page palette, DefaultTheme when empty.
	Theme       string
	Converter   *markdown.Converter
	Sanitizer   *sanitize.Sanitizer
	Highlighter highlight.Highlighter
	Logger      Logger
}

// Dispatcher renders the descriptors of one page. Anchor ids are unique
// within a Dispatcher, so use a new one per page.
type Dispatcher struct {
	reg     *Registry
	env     Env
	anchors *anchor.Registry

	mu      sync.Mutex
	state   StateView
	assets  map[string]*CodeAsset
	order   []string
	widgets map[string]*Widget
	claimed []string
	errs    []error
}

func NewDispatcher(reg *Registry, env Env) *Dispatcher {
	if reg == nil {
		reg = NewRegistry()
	}
	if env.Theme == "" {
		env.Theme = DefaultTheme
	}
	if env.Logger == nil {
		env.Logger = nopLogger{}
	}
	if env.Sanitizer == nil {
		env.Sanitizer = sanitize.New(sanitize.DefaultPolicy())
	}
	return &Dispatcher{
		reg:     reg,
		env:     env,
		anchors: anchor.NewRegistry(),
		assets:  map[string]*CodeAsset{},
		widgets: map[string]*Widget{},
	}
}

// SetState makes later renders reflect interactive state.
func (d *Dispatcher) SetState(s StateView) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Render renders one descriptor. It never fails: unknown kinds and invalid
// payloads render as error markers.
func (d *Dispatcher) Render(ctx context.Context, desc Descriptor) *vdom.Node {
	return d.render(ctx, desc, "", nil)
}

// RenderAll renders ds in order, one node per descriptor.
func (d *Dispatcher) RenderAll(ctx context.Context, ds []Descriptor) []*vdom.Node {
	nodes := make([]*vdom.Node, len(ds))
	for i, desc := range ds {
		nodes[i] = d.Render(ctx, desc)
	}
	return nodes
}

// Rerender renders desc again under an anchor id it was given before,
// reusing its code asset. A nil state falls back to the one from SetState.
func (d *Dispatcher) Rerender(ctx context.Context, desc Descriptor, anchorID string, state StateView) *vdom.Node {
	return d.render(ctx, desc, anchorID, state)
}

func (d *Dispatcher) render(ctx context.Context, desc Descriptor, id string, state StateView) *vdom.Node {
	def, ok := d.reg.Lookup(desc.Kind)
	if !ok {
		err := &UnknownKindError{Kind: desc.Kind}
		d.env.Logger.Warn("unknown component type", "type", string(desc.Kind))
		d.fail(err)
		id = d.claim(id, desc, "", "")
		return wrap(id, desc.Kind, desc.Kind, unknownNode(desc.Kind))
	}

	p := def.New()
	err := Decode(p, desc.Data)
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		d.env.Logger.Warn("invalid component", "type", string(desc.Kind), "err", err)
		d.fail(err)
		id = d.claim(id, desc, "", def.Prefix)
		return wrap(id, desc.Kind, p.Kind(), invalidNode(err))
	}

	id = d.claim(id, desc, p.Label(), def.Prefix)
	rc := d.context(ctx, p.Kind(), id, state)
	rc.widget = &Widget{ID: id, Kind: p.Kind(), Title: p.Label(), Shared: p.Shared()}
	body := def.Render(rc, p)

	d.mu.Lock()
	if _, ok := d.widgets[id]; !ok {
		d.order = append(d.order, id)
	}
	d.widgets[id] = rc.widget
	d.mu.Unlock()

	return wrap(id, desc.Kind, p.Kind(), body).ClassIf(rc.fullscreen(), "component-fullscreen")
}

// claim picks the anchor id of a component. A fixed id is used as is.
func (d *Dispatcher) claim(fixed string, desc Descriptor, label, prefix string) string {
	if fixed != "" {
		return fixed
	}
	id := desc.ID
	if id == "" && label != "" {
		// A label with no usable characters leaves only the prefix.
		id = strings.Trim(anchor.GenerateSectionID(label, prefix), "-")
	}
	if id == "" {
		// Label-less components anchor on their kind so output stays deterministic.
		id = prefix
		if id == "" {
			id = strcase.KebabCase(string(desc.Kind))
		}
	}
	id = d.anchors.Claim(id)
	d.mu.Lock()
	d.claimed = append(d.claimed, id)
	d.mu.Unlock()
	return id
}

func (d *Dispatcher) context(ctx context.Context, kind Kind, id string, state StateView) *RenderContext {
	if state == nil {
		d.mu.Lock()
		state = d.state
		d.mu.Unlock()
	}
	return &RenderContext{
		Context:     ctx,
		Kind:        kind,
		AnchorID:    id,
		Theme:       d.env.Theme,
		Converter:   d.env.Converter,
		Sanitizer:   d.env.Sanitizer,
		Highlighter: d.env.Highlighter,
		Logger:      d.env.Logger,
		State:       state,
		d:           d,
	}
}

func (d *Dispatcher) asset(rc *RenderContext, p *Code) *CodeAsset {
	d.mu.Lock()
	a, ok := d.assets[rc.AnchorID]
	d.mu.Unlock()
	if ok && a.FilePath == p.FilePath {
		return a
	}
	if p.FilePath != "" {
		a = newFileAsset(rc.AnchorID, p.FilePath, p.Language, p.HighlightLines)
	} else {
		a = newInlineAsset(rc.Context, rc.AnchorID, p.Code, p.Language, p.HighlightLines, rc.Highlighter, rc.Logger)
	}
	d.mu.Lock()
	d.assets[rc.AnchorID] = a
	d.mu.Unlock()
	return a
}

func (d *Dispatcher) fail(err error) {
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
}

// Assets returns the code assets created so far in render order.
func (d *Dispatcher) Assets() []*CodeAsset {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*CodeAsset, 0, len(d.assets))
	for _, id := range d.order {
		if a, ok := d.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Widgets returns every rendered component in render order.
func (d *Dispatcher) Widgets() []*Widget {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Widget, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.widgets[id])
	}
	return out
}

func (d *Dispatcher) Widget(id string) (*Widget, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.widgets[id]
	return w, ok
}

// Anchors returns every anchor id claimed, in claim order.
func (d *Dispatcher) Anchors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.claimed...)
}

// HasAnchor reports whether id was claimed by a component of this page.
func (d *Dispatcher) HasAnchor(id string) bool {
	return d.anchors.Has(id)
}

// Errors returns the component-level failures seen so far.
func (d *Dispatcher) Errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errs...)
}

func wrap(id string, given, kind Kind, body *vdom.Node) *vdom.Node {
	return vdom.El("div", body).
		ID(id).
		Class("component-container", "component-"+strcase.KebabCase(string(kind))).
		Data("componentType", string(given))
}

func unknownNode(k Kind) *vdom.Node {
	return vdom.El("div",
		vdom.Text("Unknown component type: "),
		vdom.El("strong", vdom.Text(string(k))),
	).Class("component-error alert alert-error").Set("role", "alert")
}

func invalidNode(err error) *vdom.Node {
	n := vdom.El("div", vdom.Text(err.Error())).
		Class("component-error alert alert-error").
		Set("role", "alert")
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		n.Data("field", mf.Field)
	}
	return n
}
