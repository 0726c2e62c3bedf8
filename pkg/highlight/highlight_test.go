package highlight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrapScript = `
export function highlight(req) {
  return '<span class="hl-' + req.language + '">' + req.code.replace(/</g, '&lt;') + '</span>'
}
`

func TestNop(t *testing.T) {
	s, err := Nop{}.Highlight(context.Background(), "a < b", "go")
	require.NoError(t, err)
	assert.Equal(t, "a &lt; b", s)
}

func TestScript(t *testing.T) {
	h, err := NewScript("hl.js", []byte(wrapScript), WithPoolSize(2))
	require.NoError(t, err)
	defer h.Close()

	s, err := h.Highlight(context.Background(), "List<String> xs", "java")
	require.NoError(t, err)
	assert.Equal(t, `<span class="hl-java">List&lt;String> xs</span>`, s)
}

func TestScriptTypeScript(t *testing.T) {
	src := `
interface Req { code: string; language: string }
export function highlight(req: Req): string {
  return req.code.toUpperCase()
}
`
	h, err := NewScript("hl.ts", []byte(src))
	require.NoError(t, err)
	defer h.Close()

	s, err := h.Highlight(context.Background(), "print", "python")
	require.NoError(t, err)
	assert.Equal(t, "PRINT", s)
}

func TestScriptConcurrent(t *testing.T) {
	h, err := NewScript("hl.js", []byte(wrapScript), WithPoolSize(2))
	require.NoError(t, err)
	defer h.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := h.Highlight(context.Background(), "x", "go")
			assert.NoError(t, err)
			assert.Equal(t, `<span class="hl-go">x</span>`, s)
		}()
	}
	wg.Wait()
}

func TestScriptErrors(t *testing.T) {
	_, err := NewScript("hl.js", []byte(`export const other = 1`))
	assert.Error(t, err)

	h, err := NewScript("hl.js", []byte(`export function highlight(req) { throw new Error("boom " + req.language) }`))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Highlight(context.Background(), "x", "rust")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom rust")
	var se *ScriptError
	assert.True(t, errors.As(err, &se))
}

func TestScriptTimeout(t *testing.T) {
	h, err := NewScript("hl.js", []byte(`export function highlight(req) { for (;;) {} }`), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Highlight(context.Background(), "x", "go")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout"))
}

func TestScriptErrorFrames(t *testing.T) {
	h, err := NewScript("hl.js", []byte(`
function fail(lang) {
  throw new Error("unsupported " + lang)
}

export function highlight(req) {
  return fail(req.language)
}
`))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Highlight(context.Background(), "x", "cobol")
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "hl.js", se.Script)
	assert.Equal(t, "Error: unsupported cobol", se.Message)
	require.NotEmpty(t, se.Frames)
	assert.Equal(t, "fail", se.Frames[0].Func)

	var funcs []string
	for _, f := range se.Frames {
		assert.Equal(t, "hl.js", f.File)
		assert.Positive(t, f.Line)
		funcs = append(funcs, f.Func)
	}
	assert.Contains(t, funcs, "highlight")
	assert.True(t, strings.HasPrefix(se.Error(), "hl.js: Error: unsupported cobol\n\tat fail (hl.js:"))
	assert.NotContains(t, se.Error(), "native")
}

func TestFrameString(t *testing.T) {
	cases := []struct {
		In  Frame
		Out string
	}{
		{In: Frame{Func: "highlight", File: "hl.js", Line: 14, Column: 23}, Out: "at highlight (hl.js:14:23)"},
		{In: Frame{File: "hl.js", Line: 1, Column: 1}, Out: "at hl.js:1:1"},
	}

	for _, c := range cases {
		assert.Equal(t, c.Out, c.In.String())
	}
}

func TestScriptConsole(t *testing.T) {
	var lines []string
	p := PrinterFunc(func(s string) { lines = append(lines, s) })

	h, err := NewScript("hl.js", []byte(`
export function highlight(req) {
  console.log("highlight", req.language, 2)
  return req.code
}
`), WithPoolSize(1), WithPrinter(p))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Highlight(context.Background(), "x", "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"highlight go 2"}, lines)
}

func TestScriptConsoleDiscarded(t *testing.T) {
	h, err := NewScript("hl.js", []byte(`
export function highlight(req) {
  console.log("dropped", req.language)
  console.error("dropped too")
  return req.code
}
`), WithPoolSize(1))
	require.NoError(t, err)
	defer h.Close()

	s, err := h.Highlight(context.Background(), "x", "go")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	assert.Equal(t, discard{}, enabledPrinter(nil))
}
