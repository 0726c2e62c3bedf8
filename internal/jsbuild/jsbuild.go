// Package jsbuild wraps esbuild for the scripts and stylesheets the site ships.
package jsbuild

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

type Format uint8

const (
	FormatIIFE Format = iota
	FormatCommonJS
	FormatESM
)

func (f Format) api() api.Format {
	switch f {
	case FormatCommonJS:
		return api.FormatCommonJS
	case FormatESM:
		return api.FormatESModule
	}
	return api.FormatIIFE
}

type Transformer interface {
	Transform(filePath string, code []byte, format Format) (out []byte, err error)
}

type EsBuildTransform struct {
	minify     bool
	globalName string
}

// NewEsBuildTransform returns a transformer targeting ES2015, which goja runs.
// globalName names the variable that receives the exports of an IIFE build.
func NewEsBuildTransform(minify bool, globalName string) *EsBuildTransform {
	return &EsBuildTransform{minify: minify, globalName: globalName}
}

var defaultExtensionToLoaderMap = map[string]api.Loader{
	"":      api.LoaderJS, // default
	".js":   api.LoaderJS,
	".mjs":  api.LoaderJS,
	".cjs":  api.LoaderJS,
	".ts":   api.LoaderTS,
	".css":  api.LoaderCSS,
	".json": api.LoaderJSON,
}

func (e *EsBuildTransform) Transform(filePath string, code []byte, format Format) (out []byte, err error) {
	_, file := filepath.Split(filePath)
	ext := filepath.Ext(filePath)

	loader, ok := defaultExtensionToLoaderMap[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension(%s) for transform", ext)
	}

	opts := api.TransformOptions{
		Loader:            loader,
		Target:            api.ES2015,
		Sourcefile:        file,
		MinifyIdentifiers: e.minify,
		MinifySyntax:      e.minify,
		MinifyWhitespace:  e.minify,
	}
	if loader != api.LoaderCSS {
		opts.Format = format.api()
		if format == FormatIIFE {
			opts.GlobalName = e.globalName
		}
	}

	result := api.Transform(string(code), opts)
	if len(result.Errors) != 0 {
		return nil, buildError(filePath, result.Errors[0])
	}
	return result.Code, nil
}

// Minify shrinks a js or css asset without changing its module format.
func Minify(filePath string, code []byte) ([]byte, error) {
	loader := api.LoaderJS
	if filepath.Ext(filePath) == ".css" {
		loader = api.LoaderCSS
	}
	result := api.Transform(string(code), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        filepath.Base(filePath),
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		MinifyWhitespace:  true,
	})
	if len(result.Errors) != 0 {
		return nil, buildError(filePath, result.Errors[0])
	}
	return result.Code, nil
}

func buildError(filePath string, m api.Message) error {
	if m.Location == nil {
		return fmt.Errorf("%v: %v", filePath, m.Text)
	}
	l := m.Location
	return fmt.Errorf("%v: (%v:%v) \n%v\n%v^ %v", filePath, l.Line, l.Column, l.LineText, strings.Repeat(" ", l.Column), m.Text)
}
