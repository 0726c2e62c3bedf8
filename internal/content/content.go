// Package content finds learning modules and blog posts on disk.
//
// A module lives at modul/<id>/index.mdx under the content root, or as
// modul-<id>.json under the data root. Posts live at blog/<slug>/index.mdx.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zbysir/gomodul/pkg/mdx"
	"github.com/zbysir/gomodul/pkg/page"
)

var ErrNotFound = errors.New("not found")

const (
	modulesDir = "modul"
	postsDir   = "blog"
	indexFile  = "index.mdx"
)

// Entry is one listed module or post.
type Entry struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Meta        map[string]interface{}
}

type Store struct {
	content fs.FS
	data    fs.FS
	parser  *mdx.Parser
	// path => parsed document
	cache *lru.Cache[string, *page.Document]
}

// New creates a store. Either fs may be nil.
func New(content, data fs.FS, cacheSize int) *Store {
	s := &Store{content: content, data: data, parser: mdx.New()}
	if cacheSize > 0 {
		s.cache, _ = lru.New[string, *page.Document](cacheSize)
	}
	return s
}

// Invalidate drops every parsed document.
func (s *Store) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Store) Module(id string) (*page.Document, error) {
	if !validName(id) {
		return nil, fmt.Errorf("modul %q: %w", id, ErrNotFound)
	}
	if s.content != nil {
		doc, err := s.read(s.content, path.Join(modulesDir, id, indexFile))
		if !errors.Is(err, ErrNotFound) {
			return doc, err
		}
	}
	if s.data != nil {
		doc, err := s.read(s.data, "modul-"+id+".json")
		if !errors.Is(err, ErrNotFound) {
			return doc, err
		}
	}
	return nil, fmt.Errorf("modul %q: %w", id, ErrNotFound)
}

func (s *Store) Post(slug string) (*page.Document, error) {
	if s.content == nil || !validName(slug) {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	doc, err := s.read(s.content, path.Join(postsDir, slug, indexFile))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	return doc, err
}

// Modules lists modules by numeric id, or lexically when an id is not a number.
func (s *Store) Modules() ([]Entry, error) {
	seen := map[string]Entry{}
	if s.content != nil {
		dirs, err := subdirs(s.content, modulesDir)
		if err != nil {
			return nil, err
		}
		for _, id := range dirs {
			if doc, err := s.read(s.content, path.Join(modulesDir, id, indexFile)); err == nil {
				seen[id] = entry(id, doc)
			}
		}
	}
	if s.data != nil {
		names, err := fs.Glob(s.data, "modul-*.json")
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			id := strings.TrimSuffix(strings.TrimPrefix(n, "modul-"), ".json")
			if _, ok := seen[id]; ok {
				continue
			}
			if doc, err := s.read(s.data, n); err == nil {
				seen[id] = entry(id, doc)
			}
		}
	}

	out := make([]Entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	SortModules(out)
	return out, nil
}

// Posts lists posts newest first.
func (s *Store) Posts() ([]Entry, error) {
	if s.content == nil {
		return nil, nil
	}
	dirs, err := subdirs(s.content, postsDir)
	if err != nil {
		return nil, err
	}
	out := []Entry{}
	for _, slug := range dirs {
		doc, err := s.read(s.content, path.Join(postsDir, slug, indexFile))
		if err != nil {
			continue
		}
		out = append(out, entry(slug, doc))
	}
	SortPosts(out)
	return out, nil
}

func SortModules(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		a, errA := strconv.Atoi(es[i].ID)
		b, errB := strconv.Atoi(es[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return es[i].ID < es[j].ID
	})
}

// SortPosts orders by date descending. Undated posts sort last.
func SortPosts(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Date.After(es[j].Date)
	})
}

func (s *Store) read(fsys fs.FS, name string) (*page.Document, error) {
	key := fmt.Sprintf("%p:%s", fsys, name)
	if s.cache != nil {
		if doc, ok := s.cache.Get(key); ok {
			return doc, nil
		}
	}
	bs, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &page.DocumentError{Path: name, Err: err}
	}

	var doc *page.Document
	if path.Ext(name) == ".json" {
		doc, err = page.Parse(bs)
	} else {
		doc, err = s.parser.Parse(bs)
	}
	if err != nil {
		var de *page.DocumentError
		if errors.As(err, &de) && de.Path == "" {
			de.Path = name
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, doc)
	}
	return doc, nil
}

func subdirs(fsys fs.FS, dir string) ([]string, error) {
	es, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range es {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func entry(id string, doc *page.Document) Entry {
	e := Entry{ID: id, Title: doc.Title, Description: doc.Description, Meta: doc.Meta}
	if e.Title == "" {
		e.Title = id
	}
	e.Date = parseDate(doc.Meta["date"])
	return e
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(v interface{}) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d
	case string:
		for _, l := range dateLayouts {
			if t, err := time.Parse(l, d); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func validName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
