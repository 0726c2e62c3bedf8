package vdom

import (
	"strings"

	"github.com/stoewer/go-strcase"
)

// ToKebabCase hyphenates a camel case style name. Custom properties such as
// "--mainColor" are case sensitive and pass through unchanged.
func ToKebabCase(s string) string {
	if strings.HasPrefix(s, "--") {
		return s
	}
	return strcase.KebabCase(s)
}
