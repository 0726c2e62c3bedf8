// Package fetch loads raw text assets (source files shown in code blocks).
//
// Loaders never fail: a failed load resolves to a Result whose Content is a
// comment-style placeholder naming the file and the reason.
package fetch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// DefaultFileName is used when a path has no usable last segment.
const DefaultFileName = "code.txt"

type Result struct {
	Path        string
	Content     string
	Placeholder bool
	// Err is the load failure behind a placeholder, nil on success.
	Err error
}

type Loader interface {
	Load(ctx context.Context, path string) Result
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) Result

func (f LoaderFunc) Load(ctx context.Context, path string) Result {
	return f(ctx, path)
}

// LoadError describes why an asset could not be loaded.
type LoadError struct {
	Path   string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsURL reports whether p is a fully qualified http(s) URL.
func IsURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// NormalizePath strips a leading "./" and roots relative paths at "/".
// Absolute paths and full URLs pass through unchanged.
func NormalizePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	if strings.HasPrefix(p, "/") || IsURL(p) {
		return p
	}
	return "/" + p
}

// FileName returns the last path segment of p.
func FileName(p string) string {
	if u, err := url.Parse(p); err == nil && IsURL(p) {
		p = u.Path
	}
	name := path.Base(strings.TrimRight(p, "/"))
	if name == "" || name == "." || name == "/" {
		return DefaultFileName
	}
	return name
}

// Placeholder is the text shown in place of an asset that failed to load.
func Placeholder(p string, err error) string {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return fmt.Sprintf("// Error: Could not load file %s\n// %s", FileName(p), reason)
}

func failed(p string, err error) Result {
	return Result{Path: p, Content: Placeholder(p, err), Placeholder: true, Err: err}
}

// FSLoader resolves site-root paths inside FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(ctx context.Context, p string) Result {
	p = NormalizePath(p)
	if err := ctx.Err(); err != nil {
		return failed(p, &LoadError{Path: p, Err: err})
	}
	if l.FS == nil {
		return failed(p, &LoadError{Path: p, Err: fs.ErrNotExist})
	}
	name := strings.TrimPrefix(path.Clean(p), "/")
	if !fs.ValidPath(name) {
		return failed(p, &LoadError{Path: p, Err: fs.ErrInvalid})
	}
	bs, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return failed(p, &LoadError{Path: p, Err: err})
	}
	return Result{Path: p, Content: string(bs)}
}

// HTTPLoader fetches full URLs, or BaseURL-relative paths.
type HTTPLoader struct {
	Client  *http.Client
	BaseURL string
}

func (l HTTPLoader) resolve(p string) string {
	if IsURL(p) || l.BaseURL == "" {
		return p
	}
	return strings.TrimRight(l.BaseURL, "/") + p
}

func (l HTTPLoader) Load(ctx context.Context, p string) Result {
	p = NormalizePath(p)
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.resolve(p), nil)
	if err != nil {
		return failed(p, &LoadError{Path: p, Err: err})
	}
	rsp, err := client.Do(req)
	if err != nil {
		return failed(p, &LoadError{Path: p, Err: err})
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return failed(p, &LoadError{Path: p, Status: rsp.StatusCode})
	}
	bs, err := io.ReadAll(rsp.Body)
	if err != nil {
		return failed(p, &LoadError{Path: p, Err: err})
	}
	return Result{Path: p, Content: string(bs)}
}

// Fetcher sends full URLs to HTTP and everything else to FS.
// Without an FS every path goes to HTTP. Nothing is cached.
type Fetcher struct {
	FS   Loader
	HTTP Loader
}

func NewFetcher(fsys fs.FS, client *http.Client, baseURL string) *Fetcher {
	f := &Fetcher{HTTP: HTTPLoader{Client: client, BaseURL: baseURL}}
	if fsys != nil {
		f.FS = FSLoader{FS: fsys}
	}
	return f
}

func (f *Fetcher) Load(ctx context.Context, p string) Result {
	p = NormalizePath(p)
	if IsURL(p) || f.FS == nil {
		if f.HTTP == nil {
			return failed(p, &LoadError{Path: p, Err: fmt.Errorf("no loader for %s", p)})
		}
		return f.HTTP.Load(ctx, p)
	}
	return f.FS.Load(ctx, p)
}
