package component

import (
	"sort"
	"sync"

	"github.com/zbysir/gomodul/pkg/vdom"
)

// RenderFunc renders a validated payload. It must not fail.
type RenderFunc func(rc *RenderContext, p Payload) *vdom.Node

type Definition struct {
	// Prefix namespaces generated anchor ids.
	Prefix string
	// New returns a payload pre-filled with the kind's defaults.
	New    func() Payload
	Render RenderFunc
}

type Registry struct {
	mu   sync.RWMutex
	defs map[Kind]Definition
}

// NewRegistry returns a registry holding every built-in kind.
func NewRegistry() *Registry {
	r := &Registry{defs: map[Kind]Definition{}}
	for k, d := range builtins() {
		r.defs[k] = d
	}
	return r
}

// Register adds or replaces the definition of kind.
func (r *Registry) Register(kind Kind, def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[kind] = def
}

// Lookup resolves aliases before looking kind up.
func (r *Registry) Lookup(kind Kind) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.defs[kind]; ok {
		return d, true
	}
	d, ok := r.defs[kind.Canonical()]
	return d, ok
}

func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ks := make([]Kind, 0, len(r.defs))
	for k := range r.defs {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

func builtins() map[Kind]Definition {
	return map[Kind]Definition{
		KindHero: {Prefix: "hero", Render: renderHero,
			New: func() Payload { return &Hero{} }},
		KindText: {Prefix: "text", Render: renderText,
			New: func() Payload { return &Text{Align: "left", Size: "base"} }},
		KindCode: {Prefix: "code", Render: renderCode,
			New: func() Payload {
				return &Code{base: base{Share: true}, Language: "javascript", ShowLineNumbers: true, Downloadable: true}
			}},
		KindCommand: {Prefix: "command", Render: renderCommand,
			New: func() Payload { return &Command{Type: "terminal"} }},
		KindVideo: {Prefix: "video", Render: renderVideo,
			New: func() Payload { return &Video{base: base{Share: true}, AspectRatio: "16:9"} }},
		KindImage: {Prefix: "image", Render: renderImage,
			New: func() Payload { return &Image{Width: "full", Align: "center"} }},
		KindAlert: {Prefix: "alert", Render: renderAlert,
			New: func() Payload { return &Alert{Type: "info"} }},
		KindInformation: {Prefix: "information", Render: renderInformation,
			New: func() Payload { return &Information{Type: "info"} }},
		KindInfo: {Prefix: "info", Render: renderInfo,
			New: func() Payload { return &Info{Type: "info"} }},
		KindList: {Prefix: "list", Render: renderList,
			New: func() Payload { return &List{Type: "unordered"} }},
		KindAccordion: {Prefix: "accordion", Render: renderAccordion,
			New: func() Payload { return &Accordion{} }},
		KindQuiz: {Prefix: "quiz", Render: renderQuiz,
			New: func() Payload { return &Quiz{} }},
		KindTable: {Prefix: "table", Render: renderTable,
			New: func() Payload { return &Table{Responsive: true} }},
		KindCard: {Prefix: "cards", Render: renderCard,
			New: func() Payload { return &Card{Columns: 2} }},
		KindTimeline: {Prefix: "timeline", Render: renderTimeline,
			New: func() Payload { return &Timeline{} }},
		KindDownload: {Prefix: "download", Render: renderDownload,
			New: func() Payload { return &Download{} }},
		KindCompletion: {Prefix: "completion", Render: renderCompletion,
			New: func() Payload { return &Completion{} }},
		KindMaterial: {Prefix: "material", Render: renderMaterial,
			New: func() Payload { return &Material{Level: "h2"} }},
		KindModuleHeader: {Prefix: "header", Render: renderModuleHeader,
			New: func() Payload { return &ModuleHeader{} }},
	}
}
