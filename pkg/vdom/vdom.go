// Package vdom is a small typed node tree that renders to deterministic HTML.
//
// Attributes, classes and style properties keep insertion order, so the same
// tree always produces byte-identical output.
package vdom

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/stoewer/go-strcase"
)

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	RawNode
	FragmentNode
	DynamicNode
)

type Attr struct {
	Key   string
	Value string
	// Bool attributes render as a bare key.
	Bool bool
}

type Node struct {
	Type     NodeType
	Tag      string
	Attrs    []Attr
	Classes  []string
	Styles   []Attr
	Children []*Node
	// Text is escaped on output for TextNode, written as-is for RawNode.
	Text string
	// Eval produces the subtree of a DynamicNode at render time.
	Eval func() *Node
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func El(tag string, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Tag: tag}
	return n.Append(children...)
}

func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

func Textf(format string, a ...interface{}) *Node {
	return Text(fmt.Sprintf(format, a...))
}

// Raw wraps already-safe HTML.
func Raw(s string) *Node {
	return &Node{Type: RawNode, Text: s}
}

func Fragment(children ...*Node) *Node {
	n := &Node{Type: FragmentNode}
	return n.Append(children...)
}

// Dynamic defers building a subtree until the tree is rendered.
func Dynamic(fn func() *Node) *Node {
	return &Node{Type: DynamicNode, Eval: fn}
}

// Append adds children, skipping nil ones.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Set sets or replaces attribute key.
func (n *Node) Set(key, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i] = Attr{Key: key, Value: value}
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
	return n
}

// SetIf sets key only when value is not empty.
func (n *Node) SetIf(key, value string) *Node {
	if value == "" {
		return n
	}
	return n.Set(key, value)
}

// Flag sets a boolean attribute when on is true.
func (n *Node) Flag(key string, on bool) *Node {
	if !on {
		return n
	}
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i] = Attr{Key: key, Bool: true}
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Bool: true})
	return n
}

func (n *Node) ID(id string) *Node {
	return n.SetIf("id", id)
}

// Data sets a data-* attribute; name is converted to kebab case.
func (n *Node) Data(name, value string) *Node {
	return n.Set(DataAttr(name), value)
}

// DataAttr returns the attribute key for data name, e.g. "componentType" -> "data-component-type".
func DataAttr(name string) string {
	return "data-" + strcase.KebabCase(name)
}

// Class appends class names, ignoring empty and duplicate ones.
func (n *Node) Class(names ...string) *Node {
	for _, s := range names {
		for _, c := range strings.Fields(s) {
			if !n.HasClass(c) {
				n.Classes = append(n.Classes, c)
			}
		}
	}
	return n
}

// ClassIf appends name when cond holds.
func (n *Node) ClassIf(cond bool, name string) *Node {
	if cond {
		n.Class(name)
	}
	return n
}

func (n *Node) RemoveClass(name string) *Node {
	out := n.Classes[:0]
	for _, c := range n.Classes {
		if c != name {
			out = append(out, c)
		}
	}
	n.Classes = out
	return n
}

func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Style sets a style property; camel case names are hyphenated.
func (n *Node) Style(name, value string) *Node {
	name = ToKebabCase(name)
	for i := range n.Styles {
		if n.Styles[i].Key == name {
			n.Styles[i].Value = value
			return n
		}
	}
	n.Styles = append(n.Styles, Attr{Key: name, Value: value})
	return n
}

// Get returns the value of attribute key.
func (n *Node) Get(key string) (string, bool) {
	switch key {
	case "class":
		return strings.Join(n.Classes, " "), len(n.Classes) != 0
	case "style":
		return n.styleString(), len(n.Styles) != 0
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) styleString() string {
	var s strings.Builder
	for i, p := range n.Styles {
		if i != 0 {
			s.WriteString(" ")
		}
		s.WriteString(p.Key)
		s.WriteString(": ")
		s.WriteString(p.Value)
		s.WriteString(";")
	}
	return s.String()
}

// Resolve returns the concrete node, evaluating a DynamicNode.
func (n *Node) Resolve() *Node {
	for n != nil && n.Type == DynamicNode {
		if n.Eval == nil {
			return nil
		}
		n = n.Eval()
	}
	return n
}

// Walk visits n and its descendants depth first, resolving dynamic nodes.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	n = n.Resolve()
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first element with id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Type == ElementNode {
			if v, ok := x.Get("id"); ok && v == id {
				found = x
				return false
			}
		}
		return true
	})
	return found
}

// FindAll returns every element carrying class name, in document order.
func (n *Node) FindAll(class string) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Type == ElementNode && x.HasClass(class) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	var s strings.Builder
	n.Walk(func(x *Node) bool {
		if x.Type == TextNode {
			s.WriteString(x.Text)
		}
		return true
	})
	return s.String()
}

func (n *Node) HTML() string {
	var s strings.Builder
	n.render(&s)
	return s.String()
}

func (n *Node) Render(w io.Writer) error {
	_, err := io.WriteString(w, n.HTML())
	return err
}

func (n *Node) String() string {
	return n.HTML()
}

func (n *Node) render(s *strings.Builder) {
	n = n.Resolve()
	if n == nil {
		return
	}
	switch n.Type {
	case TextNode:
		s.WriteString(html.EscapeString(n.Text))
	case RawNode:
		s.WriteString(n.Text)
	case FragmentNode:
		n.renderChildren(s)
	case ElementNode:
		s.WriteString("<")
		s.WriteString(n.Tag)
		n.renderAttributes(s)
		s.WriteString(">")
		if voidElements[n.Tag] {
			return
		}
		n.renderChildren(s)
		s.WriteString("</")
		s.WriteString(n.Tag)
		s.WriteString(">")
	}
}

func (n *Node) renderChildren(s *strings.Builder) {
	for _, c := range n.Children {
		c.render(s)
	}
}

func (n *Node) renderAttributes(s *strings.Builder) {
	wroteID := false
	if v, ok := n.Get("id"); ok {
		writeAttr(s, "id", v)
		wroteID = true
	}
	if len(n.Classes) != 0 {
		writeAttr(s, "class", strings.Join(n.Classes, " "))
	}
	if len(n.Styles) != 0 {
		writeAttr(s, "style", n.styleString())
	}
	for _, a := range n.Attrs {
		if a.Key == "id" && wroteID {
			continue
		}
		if a.Bool {
			s.WriteString(" ")
			s.WriteString(a.Key)
			continue
		}
		writeAttr(s, a.Key, a.Value)
	}
}

func writeAttr(s *strings.Builder, k, v string) {
	s.WriteString(" ")
	s.WriteString(k)
	s.WriteString(`="`)
	s.WriteString(html.EscapeString(v))
	s.WriteString(`"`)
}
