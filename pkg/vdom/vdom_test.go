package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKebabCase(t *testing.T) {
	cases := map[string]string{
		"fontWidth":       "font-width",
		"paddingBottom":   "padding-bottom",
		"color":           "color",
		"--color":         "--color",
		"--mainColor":     "--mainColor",
		"max-height":      "max-height",
		"WebkitBoxShadow": "webkit-box-shadow",
	}

	for in, out := range cases {
		assert.Equal(t, out, ToKebabCase(in))
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		Name string
		In   *Node
		Out  string
	}{
		{
			Name: "Text",
			In:   El("p", Text("a < b & c")),
			Out:  `<p>a &lt; b &amp; c</p>`,
		},
		{
			Name: "Attributes",
			In: El("div").Class("a", "b a").ID("x").Data("componentType", "code").
				Style("paddingBottom", "56.25%").Set("title", `say "hi"`),
			Out: `<div id="x" class="a b" style="padding-bottom: 56.25%;" data-component-type="code" title="say &#34;hi&#34;"></div>`,
		},
		{
			Name: "Void",
			In:   El("img").Set("src", "/a.png").Set("alt", ""),
			Out:  `<img src="/a.png" alt="">`,
		},
		{
			Name: "Bool",
			In:   El("input").Set("type", "radio").Flag("checked", true).Flag("disabled", false),
			Out:  `<input type="radio" checked>`,
		},
		{
			Name: "Raw",
			In:   El("div", Raw("<b>bold</b>")),
			Out:  `<div><b>bold</b></div>`,
		},
		{
			Name: "FragmentAndNil",
			In:   Fragment(El("i"), nil, Text("t")),
			Out:  `<i></i>t`,
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Out, c.In.HTML())
		})
	}
}

func TestDynamic(t *testing.T) {
	state := "loading"
	n := El("pre", Dynamic(func() *Node {
		if state == "loading" {
			return El("span", Text("Loading...")).Class("spinner")
		}
		return El("code", Text(state))
	}))

	assert.Equal(t, `<pre><span class="spinner">Loading...</span></pre>`, n.HTML())
	state = "fmt.Println()"
	assert.Equal(t, `<pre><code>fmt.Println()</code></pre>`, n.HTML())
}

func TestFind(t *testing.T) {
	root := El("div",
		El("section", El("button").Class("share-btn")).ID("a"),
		El("section", El("button").Class("share-btn"), Text("hello")).ID("b"),
	)

	assert.NotNil(t, root.Find("b"))
	assert.Nil(t, root.Find("c"))
	assert.Len(t, root.FindAll("share-btn"), 2)
	assert.Equal(t, "hello", root.Find("b").TextContent())

	root.Find("a").Class("ring").RemoveClass("ring")
	assert.False(t, root.Find("a").HasClass("ring"))
}
