// Package assets serves the client runtime script and stylesheet.
package assets

import (
	"embed"
	"fmt"
	"sync"

	"github.com/zbysir/gomodul/internal/jsbuild"
)

//go:embed static
var files embed.FS

type Asset struct {
	Name        string
	ContentType string
	Body        []byte
}

var (
	once     sync.Once
	built    map[string]Asset
	errBuild error
)

var contentTypes = map[string]string{
	"runtime.js": "application/javascript; charset=utf-8",
	"style.css":  "text/css; charset=utf-8",
}

// Get returns the minified asset called name.
func Get(name string) (Asset, error) {
	once.Do(func() {
		built, errBuild = build()
	})
	if errBuild != nil {
		return Asset{}, errBuild
	}
	a, ok := built[name]
	if !ok {
		return Asset{}, fmt.Errorf("asset %s not found", name)
	}
	return a, nil
}

// Names lists the served assets.
func Names() []string {
	return []string{"runtime.js", "style.css"}
}

func build() (map[string]Asset, error) {
	out := map[string]Asset{}
	for _, name := range Names() {
		src, err := files.ReadFile("static/" + name)
		if err != nil {
			return nil, err
		}
		bs, err := jsbuild.Minify(name, src)
		if err != nil {
			return nil, err
		}
		out[name] = Asset{Name: name, ContentType: contentTypes[name], Body: bs}
	}
	return out, nil
}
