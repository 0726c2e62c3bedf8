// Package highlight provides best-effort syntax highlighting for code blocks.
//
// A Script highlighter runs a user supplied JavaScript module in a pool of
// goja runtimes. The module must export
//
//	export function highlight(req) // req: {code, language}, returns html
//
// and may be written in TypeScript. Each returned line must be balanced
// markup, because callers split the result on newlines.
package highlight

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"time"

	"github.com/dop251/goja"

	"github.com/zbysir/gomodul/internal/jsbuild"
)

const globalName = "__highlighter"

type Highlighter interface {
	Highlight(ctx context.Context, code, language string) (string, error)
}

// Nop escapes code without adding markup.
type Nop struct{}

func (Nop) Highlight(_ context.Context, code, _ string) (string, error) {
	return html.EscapeString(code), nil
}

// Request is what the script receives.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type runtime struct {
	vm *goja.Runtime
	fn goja.Callable
}

type Script struct {
	name    string
	prg     *goja.Program
	pool    *tPool[*runtime]
	timeout time.Duration
	printer Printer
}

type Option interface {
	apply(*Script, *int)
}

type OptionFunc func(s *Script, poolSize *int)

func (o OptionFunc) apply(s *Script, poolSize *int) {
	o(s, poolSize)
}

// WithPoolSize bounds the number of live runtimes.
func WithPoolSize(n int) Option {
	return OptionFunc(func(_ *Script, poolSize *int) {
		if n > 0 {
			*poolSize = n
		}
	})
}

// WithTimeout interrupts a script call that runs longer than d.
func WithTimeout(d time.Duration) Option {
	return OptionFunc(func(s *Script, _ *int) {
		s.timeout = d
	})
}

// LoadFile reads and compiles the highlighter at path.
func LoadFile(path string, ops ...Option) (*Script, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read highlighter: %w", err)
	}
	return NewScript(filepath.Base(path), bs, ops...)
}

// NewScript compiles src once; every pooled runtime runs the same program.
func NewScript(name string, src []byte, ops ...Option) (*Script, error) {
	code, err := jsbuild.NewEsBuildTransform(false, globalName).Transform(name, src, jsbuild.FormatIIFE)
	if err != nil {
		return nil, err
	}
	prg, err := goja.Compile(name, string(code), false)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	s := &Script{name: name, prg: prg, timeout: 2 * time.Second}
	size := 4
	for _, o := range ops {
		o.apply(s, &size)
	}
	s.pool = newTPool[*runtime](size, s.newRuntime)

	// surface a missing export now rather than on first use
	rt, err := s.pool.Get(context.Background())
	if err != nil {
		return nil, err
	}
	_ = s.pool.Put(context.Background(), rt)
	return s, nil
}

func (s *Script) newRuntime() (*runtime, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	enableConsole(vm, s.printer)

	if _, err := vm.RunProgram(s.prg); err != nil {
		return nil, scriptError(s.name, err)
	}

	exports := vm.Get(globalName)
	if exports == nil || goja.IsUndefined(exports) || goja.IsNull(exports) {
		return nil, fmt.Errorf("%s: no exports", s.name)
	}
	fn, ok := goja.AssertFunction(exports.ToObject(vm).Get("highlight"))
	if !ok {
		return nil, fmt.Errorf("%s: highlight is not an exported function", s.name)
	}
	return &runtime{vm: vm, fn: fn}, nil
}

var errTimeout = errors.New("highlight timeout")

func (s *Script) Highlight(ctx context.Context, code, language string) (string, error) {
	rt, err := s.pool.Get(ctx)
	if err != nil {
		return "", err
	}

	timeout := s.timeout
	if d, ok := ctx.Deadline(); ok && (timeout <= 0 || time.Until(d) < timeout) {
		timeout = time.Until(d)
	}
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() {
			rt.vm.Interrupt(errTimeout)
		})
	}

	v, err := rt.fn(goja.Undefined(), rt.vm.ToValue(Request{Code: code, Language: language}))

	if timer != nil && !timer.Stop() {
		// interrupted or about to be; the runtime is not reusable
		_ = s.pool.Drop(ctx, rt)
		if err == nil {
			err = errTimeout
		}
		return "", fmt.Errorf("%s: %w", s.name, err)
	}
	_ = s.pool.Put(ctx, rt)

	if err != nil {
		return "", scriptError(s.name, err)
	}
	return v.String(), nil
}

func (s *Script) Close() {
	s.pool.Close(context.Background())
}
