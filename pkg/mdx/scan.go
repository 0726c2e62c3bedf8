package mdx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

type AttrKind int

const (
	AttrString AttrKind = iota
	AttrExpr
	// AttrBare is an attribute written without a value, meaning true.
	AttrBare
)

type Attr struct {
	Name  string
	Value string
	Kind  AttrKind
}

type element struct {
	tag   string
	attrs []Attr
	// body is nil for self-closing elements.
	body []byte
	end  int
}

var (
	errNotElement = errors.New("not an element")
	errUnclosed   = errors.New("unclosed element")
)

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}

func isAttrNameByte(c byte) bool {
	return isNameByte(c) || c == '-' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(src []byte, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

// scanElement reads one element starting at src, attributes and body
// included. Nested elements of the same tag are matched.
func scanElement(src []byte) (*element, error) {
	i := 0
	for i < len(src) && src[i] == ' ' {
		i++
	}
	if i >= len(src) || src[i] != '<' {
		return nil, errNotElement
	}
	i++
	start := i
	for i < len(src) && isNameByte(src[i]) {
		i++
	}
	if i == start {
		return nil, errNotElement
	}
	el := &element{tag: string(src[start:i])}

	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return nil, fmt.Errorf("<%s>: %w", el.tag, errUnclosed)
		}
		switch src[i] {
		case '/':
			if i+1 < len(src) && src[i+1] == '>' {
				el.end = i + 2
				return el, nil
			}
			return nil, fmt.Errorf("<%s>: unexpected '/'", el.tag)
		case '>':
			return scanBody(src, i+1, el)
		}
		a, next, err := scanAttr(src, i)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", el.tag, err)
		}
		el.attrs = append(el.attrs, a)
		i = next
	}
}

func scanAttr(src []byte, i int) (Attr, int, error) {
	start := i
	for i < len(src) && isAttrNameByte(src[i]) {
		i++
	}
	if i == start {
		return Attr{}, i, fmt.Errorf("unexpected %q", src[i])
	}
	a := Attr{Name: string(src[start:i]), Kind: AttrBare}

	j := skipSpace(src, i)
	if j >= len(src) || src[j] != '=' {
		return a, i, nil
	}
	j = skipSpace(src, j+1)
	if j >= len(src) {
		return a, j, errUnclosed
	}
	switch q := src[j]; q {
	case '"', '\'':
		k := bytes.IndexByte(src[j+1:], q)
		if k < 0 {
			return a, j, fmt.Errorf("attribute %s: %w", a.Name, errUnclosed)
		}
		a.Kind = AttrString
		a.Value = string(src[j+1 : j+1+k])
		return a, j + k + 2, nil
	case '{':
		end, err := matchBrace(src, j)
		if err != nil {
			return a, j, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		a.Kind = AttrExpr
		a.Value = string(src[j+1 : end])
		return a, end + 1, nil
	}
	return a, j, fmt.Errorf("attribute %s: expected a quoted value or {expression}", a.Name)
}

// matchBrace returns the index of the brace closing src[i], skipping string literals.
func matchBrace(src []byte, i int) (int, error) {
	depth := 0
	for ; i < len(src); i++ {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		case '"', '\'', '`':
			for i++; i < len(src) && src[i] != c; i++ {
				if src[i] == '\\' {
					i++
				}
			}
		}
	}
	return 0, errUnclosed
}

func scanBody(src []byte, i int, el *element) (*element, error) {
	open := []byte("<" + el.tag)
	closing := []byte("</" + el.tag + ">")
	bodyStart := i
	for i < len(src) {
		c := bytes.Index(src[i:], closing)
		if c < 0 {
			break
		}
		o := bytes.Index(src[i:], open)
		if o >= 0 && o < c && delimited(src, i+o+len(open)) {
			nested, err := scanElement(src[i+o:])
			if err != nil {
				return nil, err
			}
			i += o + nested.end
			continue
		}
		el.body = src[bodyStart : i+c]
		el.end = i + c + len(closing)
		return el, nil
	}
	return nil, fmt.Errorf("<%s>: %w", el.tag, errUnclosed)
}

func delimited(src []byte, k int) bool {
	return k >= len(src) || isSpace(src[k]) || src[k] == '>' || src[k] == '/'
}

// dedent strips blank edge lines and the indentation common to all lines.
func dedent(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, l := range lines {
			if len(l) >= indent {
				lines[i] = l[indent:]
			} else {
				lines[i] = strings.TrimLeft(l, " \t")
			}
		}
	}
	return strings.Join(lines, "\n")
}
