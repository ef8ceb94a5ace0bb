package parser

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evaluate computes a $( ... ) expression with starlark. Defines are
// visible as predeclared integers.
func evaluate(expr string, defines map[string]int64) (value int64, err error) {
	thread := starlark.Thread{Name: "asm6510"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, v := range defines {
		pred[key] = starlark.MakeInt64(v)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = &ErrEval{Expr: expr, Err: err}
		return
	}

	var ok bool
	switch rc := dict["rc"].(type) {
	case starlark.Int:
		value, ok = rc.Int64()
	case starlark.Bool:
		if rc {
			value = 1
		}
		ok = true
	}
	if !ok {
		err = &ErrEval{Expr: expr, Err: ErrNotInteger}
		return
	}

	return
}
