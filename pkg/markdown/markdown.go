// Package markdown converts lesson prose to HTML.
package markdown

import (
	"bytes"
	"crypto/md5"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/zbysir/gomodul/pkg/mermaid"
)

const DefaultCacheSize = 256

type Converter struct {
	md goldmark.Markdown
	// md5(source) => html
	cache *lru.Cache[[16]byte, string]
}

type Option interface {
	apply(*options)
}

type OptionFunc func(*options)

func (o OptionFunc) apply(opts *options) {
	o(opts)
}

type options struct {
	cacheSize  int
	extensions []goldmark.Extender
}

// WithCacheSize sets how many rendered documents are kept. Zero disables the cache.
func WithCacheSize(n int) Option {
	return OptionFunc(func(o *options) {
		o.cacheSize = n
	})
}

func WithExtensions(ext ...goldmark.Extender) Option {
	return OptionFunc(func(o *options) {
		o.extensions = append(o.extensions, ext...)
	})
}

// New builds a converter with GFM, frontmatter, heading ids and mermaid.
// Raw HTML is passed through; callers sanitize the result.
func New(ops ...Option) *Converter {
	o := &options{cacheSize: DefaultCacheSize}
	for _, op := range ops {
		op.apply(o)
	}

	exts := append([]goldmark.Extender{
		extension.GFM,
		meta.Meta,
		&mermaid.Extender{},
	}, o.extensions...)

	c := &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	if o.cacheSize > 0 {
		cache, err := lru.New[[16]byte, string](o.cacheSize)
		if err == nil {
			c.cache = cache
		}
	}
	return c
}

// Markdown exposes the underlying goldmark instance.
func (c *Converter) Markdown() goldmark.Markdown {
	return c.md
}

// Convert renders src to HTML. Frontmatter is parsed and dropped.
func (c *Converter) Convert(src string) (string, error) {
	var key [16]byte
	if c.cache != nil {
		key = md5.Sum([]byte(src))
		if s, ok := c.cache.Get(key); ok {
			return s, nil
		}
	}

	s, _, err := c.ConvertWithMeta([]byte(src))
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		c.cache.Add(key, s)
	}
	return s, nil
}

// ConvertWithMeta renders src and returns its frontmatter.
func (c *Converter) ConvertWithMeta(src []byte) (string, map[string]interface{}, error) {
	var b bytes.Buffer
	pc := parser.NewContext()
	if err := c.md.Convert(src, &b, parser.WithContext(pc)); err != nil {
		return "", nil, fmt.Errorf("convert markdown: %w", err)
	}
	m, err := meta.TryGet(pc)
	if err != nil {
		return "", nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return b.String(), m, nil
}

// Len reports the number of cached documents.
func (c *Converter) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
