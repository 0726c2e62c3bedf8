// Package page composes a document of component descriptors into one page
// and holds the per-view interactive state of that page.
package page

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zbysir/gomodul/pkg/component"
	"github.com/zbysir/gomodul/pkg/fetch"
)

// ErrNoComponents is reported when a document has no components array.
var ErrNoComponents = errors.New("Invalid JSON structure: components array is required")

// Document is an ordered list of component descriptors plus page metadata.
type Document struct {
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Components  []component.Descriptor `json:"components"`
	// Meta holds frontmatter of MDX sources.
	Meta map[string]interface{} `json:"-"`
}

// DocumentError means the page as a whole could not be produced.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load document: %v", e.Err)
	}
	return fmt.Sprintf("load document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Parse decodes a JSON document. Only the document structure is checked
// here; descriptors are validated when they render.
func Parse(data []byte) (*Document, error) {
	var raw struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Components  json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Err: err}
	}
	list := bytes.TrimSpace(raw.Components)
	if len(list) == 0 || list[0] != '[' {
		return nil, &DocumentError{Err: ErrNoComponents}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, &DocumentError{Err: err}
	}

	doc := &Document{
		Title:       raw.Title,
		Description: raw.Description,
		Components:  make([]component.Descriptor, len(items)),
	}
	for i, it := range items {
		// A malformed entry keeps its slot and renders as an unknown kind.
		_ = json.Unmarshal(it, &doc.Components[i])
	}
	return doc, nil
}

// Load fetches and parses the document at p. Unlike code assets a failed
// fetch is an error.
func Load(ctx context.Context, l fetch.Loader, p string) (*Document, error) {
	r := l.Load(ctx, p)
	if r.Placeholder {
		err := r.Err
		if err == nil {
			err = errors.New("could not load document")
		}
		return nil, &DocumentError{Path: p, Err: err}
	}
	doc, err := Parse([]byte(r.Content))
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = p
		}
		return nil, err
	}
	return doc, nil
}
