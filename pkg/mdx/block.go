package mdx

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var KindComponent = ast.NewNodeKind("Component")

// Node is a component element found between markdown blocks.
type Node struct {
	ast.BaseBlock
	Tag   string
	Attrs []Attr
	// Body is the source between the opening and closing tags.
	Body []byte
}

func (n *Node) Kind() ast.NodeKind {
	return KindComponent
}

// IsRaw keeps goldmark from parsing the element source as markdown.
func (n *Node) IsRaw() bool {
	return true
}

func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": n.Tag}, nil)
}

type componentParser struct{}

// NewComponentParser parses block-level elements whose tag starts with an
// upper case letter, e.g. <Code filePath="./a.java" />.
func NewComponentParser() parser.BlockParser {
	return &componentParser{}
}

var _ parser.BlockParser = (*componentParser)(nil)

var componentStartReg = regexp.MustCompile(`^ {0,3}<[A-Z][a-zA-Z0-9]*[\s/>]`)

func (p *componentParser) Trigger() []byte {
	return []byte{'<'}
}

func (p *componentParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	if pos := pc.BlockOffset(); pos < 0 || line[pos] != '<' {
		return nil, parser.NoChildren
	}
	if !componentStartReg.Match(line) {
		return nil, parser.NoChildren
	}

	_, s := reader.Position()
	offset := s.Start
	el, err := scanElement(reader.Source()[offset:])
	if err != nil {
		return nil, parser.NoChildren
	}

	node := &Node{Tag: el.tag, Attrs: el.attrs, Body: el.body}
	segment := text.NewSegment(offset, offset+el.end)
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.Close
}

func (p *componentParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *componentParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *componentParser) CanInterruptParagraph() bool {
	return true
}

func (p *componentParser) CanAcceptIndentedLine() bool {
	return false
}

type preambleParser struct{}

// NewPreambleParser drops the import and export statements an MDX file
// starts with. They end at the first blank line.
func NewPreambleParser() parser.BlockParser {
	return &preambleParser{}
}

type preambleNode struct {
	ast.BaseBlock
}

var preambleKind = ast.NewNodeKind("Preamble")

func (n *preambleNode) Kind() ast.NodeKind {
	return preambleKind
}

func (n *preambleNode) IsRaw() bool {
	return true
}

func (n *preambleNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var preambleReg = regexp.MustCompile(`^(import|export)\s`)

func (p *preambleParser) Trigger() []byte {
	return nil
}

func (p *preambleParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Type() != ast.TypeDocument || parent.HasChildren() {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	segment = segment.TrimLeftSpace(reader.Source())
	if segment.IsEmpty() || !preambleReg.Match(line) {
		return nil, parser.NoChildren
	}
	node := &preambleNode{}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *preambleParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close | parser.NoChildren
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

var importsKey = parser.NewContextKey()

func (p *preambleParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	var b strings.Builder
	b.WriteString(Imports(pc))
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(reader.Source()))
	}
	pc.Set(importsKey, b.String())

	node.Parent().RemoveChild(node.Parent(), node)
}

func (p *preambleParser) CanInterruptParagraph() bool {
	return false
}

func (p *preambleParser) CanAcceptIndentedLine() bool {
	return false
}

// Imports returns the preamble statements seen while parsing.
func Imports(pc parser.Context) string {
	v := pc.Get(importsKey)
	if v == nil {
		return ""
	}
	return v.(string)
}

// componentRenderer writes nothing; components are lifted out of the
// document before prose is rendered.
type componentRenderer struct{}

func (componentRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindComponent, func(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
		return ast.WalkSkipChildren, nil
	})
}

type extender struct{}

// Extension adds component elements and preamble handling to goldmark.
var Extension goldmark.Extender = extender{}

func (extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(NewPreambleParser(), 0),
		util.Prioritized(NewComponentParser(), 10),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(componentRenderer{}, 10),
	))
}
