package highlight

import (
	"strings"

	"github.com/dop251/goja"
)

// Printer receives console output of a highlighter script.
type Printer interface {
	Log(string)
	Warn(string)
	Error(string)
}

type PrinterFunc func(s string)

func (p PrinterFunc) Log(s string) { p(s) }

func (p PrinterFunc) Warn(s string) { p(s) }

func (p PrinterFunc) Error(s string) { p(s) }

// Logger is the subset of a structured logger a console can print to.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type logPrinter struct {
	l    Logger
	name string
}

func (p logPrinter) Log(s string)   { p.l.Debug("console", "script", p.name, "message", s) }
func (p logPrinter) Warn(s string)  { p.l.Warn("console", "script", p.name, "message", s) }
func (p logPrinter) Error(s string) { p.l.Error("console", "script", p.name, "message", s) }

// discard drops console output of scripts built without WithPrinter or WithLogger.
type discard struct{}

func (discard) Log(string)   {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}

func format(call goja.FunctionCall) string {
	parts := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func logx(p func(string)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		p(format(call))
		return goja.Undefined()
	}
}

func enabledPrinter(p Printer) Printer {
	if p == nil {
		return discard{}
	}
	return p
}

// enableConsole installs console.log/warn/error on runtime.
func enableConsole(runtime *goja.Runtime, printer Printer) {
	printer = enabledPrinter(printer)
	runtime.Set("console", map[string]interface{}{
		"log":   logx(printer.Log),
		"error": logx(printer.Error),
		"warn":  logx(printer.Warn),
	})
}

// WithPrinter sends script console output to p.
func WithPrinter(p Printer) Option {
	return OptionFunc(func(s *Script, _ *int) {
		s.printer = p
	})
}

// WithLogger sends script console output to l.
func WithLogger(l Logger) Option {
	return OptionFunc(func(s *Script, _ *int) {
		s.printer = logPrinter{l: l, name: s.name}
	})
}
