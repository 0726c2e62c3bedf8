package gomodul

import (
	"path"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatMDX  Format = "mdx"
)

// DocumentFormat picks the parser for a document by its extension.
// .md and .mdx files are MDX; .json files are component documents.
func DocumentFormat(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".mdx", ".md":
		return FormatMDX
	case ".json":
		return FormatJSON
	}
	return ""
}

// IsDocument reports whether name looks like a page document.
func IsDocument(name string) bool {
	return DocumentFormat(name) != ""
}
