package controller

import (
	"strings"

	"github.com/zbysir/gomodul/pkg/fetch"
)

type Download struct {
	// Native downloads Href directly; otherwise Content is offered as a blob.
	Native   bool   `json:"native"`
	Href     string `json:"href,omitempty"`
	FileName string `json:"fileName"`
	Content  string `json:"content,omitempty"`
	MIME     string `json:"mime,omitempty"`
}

var extensions = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"python":     "py",
	"kotlin":     "kt",
	"csharp":     "cs",
	"ruby":       "rb",
	"rust":       "rs",
	"bash":       "sh",
	"shell":      "sh",
	"markdown":   "md",
	"yaml":       "yml",
	"text":       "txt",
	"plaintext":  "txt",
}

// Extension maps a language tag to a file extension.
func Extension(language string) string {
	language = strings.ToLower(language)
	if ext, ok := extensions[language]; ok {
		return ext
	}
	if language == "" {
		return "txt"
	}
	return language
}

// PlanDownload picks a native download of filePath, or a blob of code.
func PlanDownload(filePath, code, language string) Download {
	if filePath != "" {
		return Download{
			Native:   true,
			Href:     fetch.NormalizePath(filePath),
			FileName: fetch.FileName(filePath),
		}
	}
	return Download{
		FileName: "code." + Extension(language),
		Content:  code,
		MIME:     "text/plain",
	}
}
