package highlight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// Frame is one script position in a highlighter stack trace.
type Frame struct {
	Func   string
	File   string
	Line   int
	Column int
}

func (f Frame) String() string {
	pos := fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
	if f.Func == "" {
		return "at " + pos
	}
	return "at " + f.Func + " (" + pos + ")"
}

// ScriptError is an exception thrown by a highlighter script. Frames only
// hold positions inside the script; Go and builtin frames are dropped.
type ScriptError struct {
	Script  string
	Message string
	Frames  []Frame
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Script)
	b.WriteString(": ")
	b.WriteString(e.Message)
	for _, f := range e.Frames {
		b.WriteString("\n\t")
		b.WriteString(f.String())
	}
	return b.String()
}

// scriptError converts goja exceptions into a ScriptError for script.
// Other errors pass through.
func scriptError(script string, err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}

	se := &ScriptError{Script: script, Message: exceptionMessage(ex)}
	stack := ex.Stack()
	for i := range stack {
		f := &stack[i]
		if f.SrcName() != script {
			continue
		}
		name := f.FuncName()
		if name == "<anonymous>" {
			name = ""
		}
		pos := f.Position()
		se.Frames = append(se.Frames, Frame{Func: name, File: script, Line: pos.Line, Column: pos.Column})
	}
	return se
}

func exceptionMessage(ex *goja.Exception) string {
	if v := ex.Value(); v != nil && !goja.IsUndefined(v) {
		return v.String()
	}
	return strings.SplitN(ex.Error(), "\n", 2)[0]
}
