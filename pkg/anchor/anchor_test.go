package anchor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSectionID(t *testing.T) {
	cases := []struct {
		Name   string
		Label  string
		Prefix string
		Out    string
	}{
		{Name: "Base", Label: "Hello World", Prefix: "code", Out: "code-hello-world"},
		{Name: "NoPrefix", Label: "Hello World", Prefix: "", Out: "hello-world"},
		{Name: "Symbols", Label: "MainActivity.java", Prefix: "code", Out: "code-mainactivityjava"},
		{Name: "Spaces", Label: "  Setup   Flutter  SDK ", Prefix: "material", Out: "material-setup-flutter-sdk"},
		{Name: "Hyphens", Label: "a -- b---c", Prefix: "", Out: "a-b-c"},
		{Name: "Trim", Label: "-edge-", Prefix: "table", Out: "table-edge"},
		{Name: "Unicode", Label: "Café déjà vu", Prefix: "", Out: "caf-dj-vu"},
		{Name: "CollapsesToEmpty", Label: "!!!", Prefix: "video", Out: "video-"},
		{Name: "CollapsesToEmptyNoPrefix", Label: "???", Prefix: "", Out: ""},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Out, GenerateSectionID(c.Label, c.Prefix))
		})
	}
}

func TestGenerateSectionIDProperties(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	labels := []string{
		"Pengenalan Android Studio",
		"Step #1: Install the SDK!",
		"  __weird__ -- label  ",
		"UPPER lower 123",
		"tab\tseparated\nlines",
	}
	for _, l := range labels {
		a := GenerateSectionID(l, "accordion")
		b := GenerateSectionID(l, "accordion")
		assert.Equal(t, a, b, "must be deterministic for %q", l)
		assert.Regexp(t, valid, a)
	}
}

func TestRandomID(t *testing.T) {
	a := GenerateSectionID("", "code")
	b := GenerateSectionID("", "code")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^id-[a-z0-9]+-[a-f0-9]{9}$`, a)
}

func TestRegistryClaim(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "code-main", r.Claim("code-main"))
	assert.Equal(t, "code-main-2", r.Claim("code-main"))
	assert.Equal(t, "code-main-3", r.Claim("code-main"))
	assert.Equal(t, "table-a", r.Claim("table-a"))

	// an explicit id that looks like a generated suffix is respected
	r2 := NewRegistry()
	assert.Equal(t, "x-2", r2.Claim("x-2"))
	assert.Equal(t, "x", r2.Claim("x"))
	assert.Equal(t, "x-3", r2.Claim("x"))
	assert.True(t, r2.Has("x-3"))
	assert.Len(t, r2.IDs(), 3)
}
