// Package mdx reads MDX lesson files into page documents.
//
// Block-level elements with a capitalised tag become component descriptors;
// the tag name in lower camel case is the kind, so <ModuleHeader> maps to
// "moduleHeader". Markdown between elements becomes "text" components.
package mdx

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/markdown"
	"github.com/zbysir/gomodul/pkg/page"
)

type Parser struct {
	conv    *markdown.Converter
	timeout time.Duration
}

type Option func(*Parser)

// WithEvalTimeout bounds the evaluation of each attribute expression.
func WithEvalTimeout(d time.Duration) Option {
	return func(p *Parser) {
		p.timeout = d
	}
}

func New(ops ...Option) *Parser {
	p := &Parser{
		conv:    markdown.New(markdown.WithCacheSize(0), markdown.WithExtensions(Extension)),
		timeout: DefaultEvalTimeout,
	}
	for _, o := range ops {
		o(p)
	}
	return p
}

var std = New()

// Parse reads src with the default parser.
func Parse(src []byte) (*page.Document, error) {
	return std.Parse(src)
}

func (p *Parser) Parse(src []byte) (*page.Document, error) {
	md := p.conv.Markdown()
	pc := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	fm, err := meta.TryGet(pc)
	if err != nil {
		return nil, &page.DocumentError{Err: fmt.Errorf("parse frontmatter: %w", err)}
	}
	doc := &page.Document{Meta: fm, Components: []component.Descriptor{}}
	if s, ok := fm["title"].(string); ok {
		doc.Title = s
	}
	if s, ok := fm["description"].(string); ok {
		doc.Description = s
	}

	var prose bytes.Buffer
	flush := func() error {
		html := strings.TrimSpace(prose.String())
		prose.Reset()
		if html == "" {
			return nil
		}
		d, err := component.NewDescriptor(component.KindText, map[string]string{"content": html, "format": "html"})
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, d)
		return nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		c, ok := n.(*Node)
		if !ok {
			if err := md.Renderer().Render(&prose, src, n); err != nil {
				return nil, &page.DocumentError{Err: fmt.Errorf("render markdown: %w", err)}
			}
			continue
		}
		if err := flush(); err != nil {
			return nil, &page.DocumentError{Err: err}
		}
		d, err := p.descriptor(c)
		if err != nil {
			return nil, &page.DocumentError{Err: err}
		}
		doc.Components = append(doc.Components, d)
	}
	if err := flush(); err != nil {
		return nil, &page.DocumentError{Err: err}
	}
	return doc, nil
}

// descriptor turns one element into a component descriptor. A body is the
// inline source of a code component, and markdown content for the rest.
func (p *Parser) descriptor(n *Node) (component.Descriptor, error) {
	kind := component.Kind(strcase.LowerCamelCase(n.Tag))
	data := map[string]interface{}{}
	id := ""
	for _, a := range n.Attrs {
		var v interface{}
		switch a.Kind {
		case AttrString:
			v = a.Value
		case AttrBare:
			v = true
		case AttrExpr:
			ev, err := evalExpr(a.Value, p.timeout)
			if err != nil {
				return component.Descriptor{}, fmt.Errorf("<%s> %s: %w", n.Tag, a.Name, err)
			}
			v = ev
		}
		if a.Name == "id" {
			id = fmt.Sprint(v)
			continue
		}
		data[a.Name] = v
	}

	if body := dedent(string(n.Body)); body != "" {
		field := "content"
		if kind.Canonical() == component.KindCode {
			field = "code"
		}
		if _, ok := data[field]; !ok {
			if field == "content" {
				html, err := p.conv.Convert(body)
				if err != nil {
					return component.Descriptor{}, fmt.Errorf("<%s> body: %w", n.Tag, err)
				}
				body = strings.TrimSpace(html)
			}
			data[field] = body
		}
	}

	d, err := component.NewDescriptor(kind, data)
	if err != nil {
		return d, err
	}
	d.ID = id
	return d, nil
}
