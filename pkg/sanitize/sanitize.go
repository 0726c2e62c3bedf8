// Package sanitize rewrites untrusted HTML fragments from component payloads
// into markup that cannot execute script.
package sanitize

import (
	"bytes"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	lex "github.com/tdewolff/parse/v2/html"
)

// Policy lists what survives sanitizing. Tags not listed are unwrapped:
// the tag goes, its text stays. Tags in Drop lose their content too.
type Policy struct {
	Tags  map[string]bool
	Drop  map[string]bool
	Attrs map[string]bool
	// TagAttrs allows extra attributes on specific tags.
	TagAttrs map[string]map[string]bool
}

func set(ss ...string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// DefaultPolicy keeps the formatting markup used in lesson content.
func DefaultPolicy() Policy {
	return Policy{
		Tags: set("a", "abbr", "b", "blockquote", "br", "caption", "code", "dd", "del", "details",
			"div", "dl", "dt", "em", "figcaption", "figure", "h1", "h2", "h3", "h4", "h5", "h6",
			"hr", "i", "img", "ins", "kbd", "li", "mark", "ol", "p", "pre", "q", "s", "samp",
			"small", "span", "strong", "sub", "summary", "sup", "table", "tbody", "td", "tfoot",
			"th", "thead", "tr", "u", "ul", "var"),
		Drop:  set("script", "style", "iframe", "object", "embed", "noscript", "template", "textarea", "title", "xmp", "plaintext", "frameset", "frame", "applet", "form", "select", "button", "input"),
		Attrs: set("class", "id", "title", "dir", "lang", "style", "aria-label", "aria-hidden", "role"),
		TagAttrs: map[string]map[string]bool{
			"a":       set("href", "target", "rel"),
			"img":     set("src", "alt", "width", "height", "loading"),
			"td":      set("colspan", "rowspan", "align"),
			"th":      set("colspan", "rowspan", "align", "scope"),
			"ol":      set("start", "type", "reversed"),
			"li":      set("value"),
			"pre":     set("data-language"),
			"details": set("open"),
		},
	}
}

var voidTags = set("br", "hr", "img", "wbr")

type Sanitizer struct {
	policy Policy
}

func New(p Policy) *Sanitizer {
	return &Sanitizer{policy: p}
}

var std = New(DefaultPolicy())

// HTML sanitizes s with the default policy.
func HTML(s string) string {
	return std.HTML(s)
}

func (z *Sanitizer) HTML(s string) string {
	var b bytes.Buffer
	_ = z.Sanitize(strings.NewReader(s), &b)
	return b.String()
}

type state struct {
	p       *Policy
	w       io.Writer
	open    []string
	tag     string
	keep    bool
	dropped string
	rel     bool
	blank   bool
}

// Sanitize streams src to w, closing any tags left open at the end.
func (z *Sanitizer) Sanitize(src io.Reader, w io.Writer) error {
	l := lex.NewLexer(parse.NewInput(src))
	st := &state{p: &z.policy, w: w}

	for {
		tt, data := l.Next()
		if tt == lex.ErrorToken {
			break
		}
		st.token(tt, data, l)
	}
	for i := len(st.open) - 1; i >= 0; i-- {
		st.write("</" + st.open[i] + ">")
	}
	if err := l.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (s *state) write(str string) {
	_, _ = io.WriteString(s.w, str)
}

func (s *state) token(tt lex.TokenType, data []byte, l *lex.Lexer) {
	if s.dropped != "" {
		// raw text elements come back as a single text token
		if tt == lex.EndTagToken && strings.ToLower(string(l.Text())) == s.dropped {
			s.dropped = ""
		}
		return
	}

	switch tt {
	case lex.StartTagToken:
		s.tag = string(l.Text())
		s.keep = s.p.Tags[s.tag]
		s.rel, s.blank = false, false
		if s.p.Drop[s.tag] {
			s.keep = false
			s.dropped = s.tag
			return
		}
		if s.keep {
			s.write("<" + s.tag)
		}
	case lex.AttributeToken:
		if !s.keep {
			return
		}
		s.attr(string(l.AttrKey()), l.AttrVal())
	case lex.StartTagCloseToken, lex.StartTagVoidToken:
		if !s.keep {
			return
		}
		if s.tag == "a" && s.blank && !s.rel {
			s.write(` rel="noopener noreferrer"`)
		}
		s.write(">")
		if !voidTags[s.tag] {
			s.open = append(s.open, s.tag)
		}
		s.keep = false
	case lex.EndTagToken:
		s.closeTag(strings.ToLower(string(l.Text())))
	case lex.TextToken:
		s.write(escapeText(data))
	}
	// comments, doctype, svg, math, xml and templates are dropped
}

func (s *state) closeTag(tag string) {
	if !s.p.Tags[tag] {
		return
	}
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i] != tag {
			continue
		}
		for j := len(s.open) - 1; j >= i; j-- {
			s.write("</" + s.open[j] + ">")
		}
		s.open = s.open[:i]
		return
	}
}

func (s *state) attr(key string, raw []byte) {
	if strings.HasPrefix(key, "on") {
		return
	}
	if !s.p.Attrs[key] && !s.p.TagAttrs[s.tag][key] && !strings.HasPrefix(key, "data-") {
		return
	}
	val := html.UnescapeString(string(unquote(raw)))

	switch key {
	case "href", "src":
		if !safeURL(val, s.tag == "img") {
			return
		}
	case "style":
		lower := strings.ToLower(val)
		if strings.Contains(lower, "expression(") || strings.Contains(lower, "javascript:") || strings.Contains(lower, "url(") {
			return
		}
	case "target":
		s.blank = val == "_blank"
	case "rel":
		s.rel = true
	}

	if raw == nil {
		s.write(" " + key)
		return
	}
	s.write(" " + key + `="` + html.EscapeString(val) + `"`)
}

func unquote(v []byte) []byte {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// safeURL rejects script-capable schemes; data URLs are allowed for images only.
func safeURL(u string, image bool) bool {
	clean := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, strings.ToLower(u))

	i := strings.IndexByte(clean, ':')
	if i < 0 {
		return true
	}
	if j := strings.IndexAny(clean, "/?#"); j >= 0 && j < i {
		return true
	}
	switch clean[:i] {
	case "http", "https", "mailto", "tel":
		return true
	case "data":
		return image && strings.HasPrefix(clean, "data:image/") && !strings.HasPrefix(clean, "data:image/svg")
	}
	return false
}

func escapeText(b []byte) string {
	s := string(b)
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// URL returns u, or "#" when u uses a script-capable scheme.
func URL(u string) string {
	if !safeURL(u, false) {
		return "#"
	}
	return u
}

// ImageURL is URL for image sources; raster data URLs are kept.
func ImageURL(u string) string {
	if !safeURL(u, true) {
		return ""
	}
	return u
}
