package mdx

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

const DefaultEvalTimeout = time.Second

// evalExpr evaluates the {expression} of an attribute. JSON is decoded
// directly; anything else runs as a JavaScript expression. The result must
// be JSON-representable.
func evalExpr(expr string, timeout time.Duration) (interface{}, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, nil
	}

	vm := goja.New()
	if timeout > 0 {
		t := time.AfterFunc(timeout, func() {
			vm.Interrupt("timeout")
		})
		defer t.Stop()
	}
	val, err := vm.RunString("(" + s + "\n)")
	if err != nil {
		return nil, fmt.Errorf("eval {%s}: %w", abbrev(s), err)
	}
	bs, err := json.Marshal(val.Export())
	if err != nil {
		return nil, fmt.Errorf("eval {%s}: %w", abbrev(s), err)
	}
	if err := json.Unmarshal(bs, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func abbrev(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
