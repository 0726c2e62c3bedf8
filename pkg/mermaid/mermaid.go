// Package mermaid renders mermaid diagram blocks for client-side drawing.
package mermaid

import (
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/mermaid"
)

// ClientRenderer writes diagrams as <pre class="mermaid"> blocks.
// The page layout loads the mermaid runtime once, so the script
// node emitted by the transformer is rendered as nothing.
type ClientRenderer struct {
	// Class overrides the default "mermaid" class.
	Class string
}

func (r *ClientRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(mermaid.Kind, r.Render)
	reg.Register(mermaid.ScriptKind, r.renderScript)
}

func (r *ClientRenderer) Render(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*mermaid.Block)
	if entering {
		class := r.Class
		if class == "" {
			class = "mermaid"
		}
		_, _ = w.WriteString(`<pre class="` + template.HTMLEscapeString(class) + `">`)
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			template.HTMLEscape(w, line.Value(src))
		}
	} else {
		_, _ = w.WriteString("</pre>")
	}
	return ast.WalkContinue, nil
}

func (r *ClientRenderer) renderScript(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

// Extender turns ```mermaid fences into diagram blocks.
type Extender struct {
	Class string
}

func (e *Extender) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(&mermaid.Transformer{}, 100)),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&ClientRenderer{Class: e.Class}, 100)),
	)
}
