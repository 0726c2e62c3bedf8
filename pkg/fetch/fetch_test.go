package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		Name string
		In   string
		Out  string
	}{
		{Name: "DotSlash", In: "./code/Main.java", Out: "/code/Main.java"},
		{Name: "Relative", In: "code/Main.java", Out: "/code/Main.java"},
		{Name: "Absolute", In: "/code/Main.java", Out: "/code/Main.java"},
		{Name: "HTTP", In: "http://example.com/a.js", Out: "http://example.com/a.js"},
		{Name: "HTTPS", In: "https://example.com/a.js", Out: "https://example.com/a.js"},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Out, NormalizePath(c.In))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Main.java", FileName("/code/Main.java"))
	assert.Equal(t, "a.js", FileName("https://example.com/x/a.js?v=1"))
	assert.Equal(t, DefaultFileName, FileName(""))
	assert.Equal(t, DefaultFileName, FileName("/"))
}

func TestFSLoader(t *testing.T) {
	mfs := fstest.MapFS{
		"code/Main.java": &fstest.MapFile{Data: []byte("class Main {}")},
	}
	l := FSLoader{FS: mfs}

	r := l.Load(context.Background(), "./code/Main.java")
	assert.False(t, r.Placeholder)
	assert.Equal(t, "class Main {}", r.Content)
	assert.Equal(t, "/code/Main.java", r.Path)

	r = l.Load(context.Background(), "./code/Missing.java")
	assert.True(t, r.Placeholder)
	assert.Contains(t, r.Content, "Missing.java")
	assert.Contains(t, r.Content, "// Error: Could not load file Missing.java\n// ")
	assert.True(t, errors.Is(r.Err, fs.ErrNotExist))
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/code/ok.py" {
			_, _ = w.Write([]byte("print('ok')"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := HTTPLoader{Client: srv.Client(), BaseURL: srv.URL}

	r := l.Load(context.Background(), "code/ok.py")
	assert.False(t, r.Placeholder)
	assert.Equal(t, "print('ok')", r.Content)

	r = l.Load(context.Background(), srv.URL+"/code/gone.py")
	assert.True(t, r.Placeholder)
	assert.Equal(t, "// Error: Could not load file gone.py\n// HTTP 404: Not Found", r.Content)

	var le *LoadError
	require.True(t, errors.As(r.Err, &le))
	assert.Equal(t, http.StatusNotFound, le.Status)
}

func TestHTTPLoaderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	l := HTTPLoader{BaseURL: base}
	r := l.Load(context.Background(), "/code/x.go")
	assert.True(t, r.Placeholder)
	assert.Contains(t, r.Content, "x.go")
	assert.Error(t, r.Err)
}

func TestFetcherRouting(t *testing.T) {
	var hits []string
	f := &Fetcher{
		FS: LoaderFunc(func(ctx context.Context, p string) Result {
			hits = append(hits, "fs:"+p)
			return Result{Path: p, Content: "fs"}
		}),
		HTTP: LoaderFunc(func(ctx context.Context, p string) Result {
			hits = append(hits, "http:"+p)
			return Result{Path: p, Content: "http"}
		}),
	}

	assert.Equal(t, "fs", f.Load(context.Background(), "./a.txt").Content)
	assert.Equal(t, "http", f.Load(context.Background(), "https://x.dev/a.txt").Content)
	// no cache: a second load hits the loader again
	f.Load(context.Background(), "./a.txt")
	assert.Equal(t, []string{"fs:/a.txt", "http:https://x.dev/a.txt", "fs:/a.txt"}, hits)

	noFS := &Fetcher{HTTP: f.HTTP}
	assert.Equal(t, "http", noFS.Load(context.Background(), "a.txt").Content)

	empty := &Fetcher{}
	r := empty.Load(context.Background(), "a.txt")
	assert.True(t, r.Placeholder)
	assert.Contains(t, r.Content, "a.txt")
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := FSLoader{FS: fstest.MapFS{}}.Load(ctx, "a.txt")
	assert.True(t, r.Placeholder)
	assert.True(t, errors.Is(r.Err, context.Canceled))
}
