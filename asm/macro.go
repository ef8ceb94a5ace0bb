// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"strings"
)

const (
	HYGIENE_PREFIX = "__" // Prefix of names private to a macro expansion.
)

// Macro is a hygienic macro definition.
type Macro struct {
	Name     string   // Macro name.
	Location Location // Location of the definition.
	Params   []string // Parameter names, already made private.
	Body     []Action // Body with private names rewritten.

	private  map[string]bool
	jumps    []int
	counters []int
	labels   []string
}

// private marks a global name as belonging to a macro body. Local names are
// kept; both are qualified by the expansion label when instantiated.
func private(name string) string {
	if isLocal(name) {
		return name
	}
	return HYGIENE_PREFIX + name
}

// rename copies a sequence, rewriting names in the defined set. Nested
// expressions are rewritten as well.
func rename(seq []Action, defined map[string]bool) (out []Action) {
	out = make([]Action, len(seq))
	for n, act := range seq {
		switch act.Op {
		case OP_SET, OP_GET, OP_SET_LABEL:
			if defined[act.Name] {
				act.Name = private(act.Name)
			}
		}
		if len(act.Args) != 0 {
			args := make([][]Action, len(act.Args))
			for i, arg := range act.Args {
				args[i] = rename(arg, defined)
			}
			act.Args = args
		}
		out[n] = act
	}

	return
}

// NewMacro runs the hygiene pass over a macro body: every name the body
// assigns or labels, and every parameter, becomes private to each expansion.
func NewMacro(loc Location, name string, params []string, body []Action) (m *Macro) {
	defined := map[string]bool{}
	for _, param := range params {
		defined[param] = true
	}

	var walk func(seq []Action)
	walk = func(seq []Action) {
		for n := range seq {
			act := &seq[n]
			switch act.Op {
			case OP_SET:
				if act.Name != PC_NAME {
					defined[act.Name] = true
				}
			case OP_SET_LABEL:
				defined[act.Name] = true
			}
			walk(act.Nested())
		}
	}
	walk(body)

	m = &Macro{
		Name:     name,
		Location: loc,
		Body:     rename(body, defined),
		private:  map[string]bool{},
	}

	for name := range defined {
		m.private[private(name)] = true
	}

	for _, param := range params {
		m.Params = append(m.Params, private(param))
	}

	for _, act := range m.Body {
		switch act.Op {
		case OP_JUMP_TARGET:
			m.jumps = append(m.jumps, act.Jump)
		case OP_COUNTER_SET:
			m.counters = append(m.counters, act.Counter)
		case OP_META_LABEL:
			m.labels = append(m.labels, act.Name)
		}
	}

	return
}

// Instantiate expands a call. The expansion opens with a synthetic label
// `NAME$seq`, assigns each argument to its private parameter, then copies
// the body with fresh jump and counter ids. Private names are qualified by
// the synthetic label, so every expansion has its own symbols.
func (m *Macro) Instantiate(call *Action, seq int, ids *IDs) (out []Action, err error) {
	if len(call.Args) != len(m.Params) {
		err = located(call.Location, &ErrMacroArgs{
			Macro:    m.Name,
			Expected: len(m.Params),
			Got:      len(call.Args),
		})
		return
	}

	exp := &Expansion{Macro: m.Name, Call: call.Location, Seq: seq}
	anchor := fmt.Sprintf("%v$%d", m.Name, seq)

	out = append(out, Action{
		Op:        OP_SET_LABEL,
		Location:  call.Location,
		Name:      anchor,
		Synthetic: true,
		Expansion: exp,
	})

	var bind func(acts []Action) []Action
	bind = func(acts []Action) (bound []Action) {
		bound = make([]Action, len(acts))
		for n, act := range acts {
			switch act.Op {
			case OP_SET, OP_GET, OP_SET_LABEL:
				if m.private[act.Name] {
					act.Name = anchor + LOCAL_SEP + act.Name
				}
			}
			if len(act.Args) != 0 {
				args := make([][]Action, len(act.Args))
				for i, arg := range act.Args {
					args[i] = bind(arg)
				}
				act.Args = args
			}
			bound[n] = act
		}
		return
	}

	for n, arg := range call.Args {
		out = append(out, arg...)
		out = append(out, Set(call.Location, anchor+LOCAL_SEP+m.Params[n]))
	}

	jumps := map[int]int{}
	for _, id := range m.jumps {
		jumps[id] = ids.Jump()
	}
	counters := map[int]int{}
	for _, id := range m.counters {
		counters[id] = ids.Counter()
	}
	labels := map[string]string{}
	for _, name := range m.labels {
		labels[name] = fmt.Sprintf("%v$%d", name, seq)
	}

	remap := func(act *Action) (err error) {
		var ok bool
		switch act.Op {
		case OP_JUMP_TARGET, OP_JUMP, OP_JUMP_IF_FALSE:
			act.Jump, ok = jumps[act.Jump]
		case OP_COUNTER_SET:
			act.Counter, ok = counters[act.Counter]
		case OP_COUNTER_COMPARE, OP_COUNTER_DECREMENT:
			act.Counter, ok = counters[act.Counter]
			if ok {
				act.Jump, ok = jumps[act.Jump]
			}
		case OP_META_LABEL, OP_META_GOTO:
			var name string
			name, ok = labels[act.Name]
			if ok {
				act.Name = name
			} else {
				ok = act.Op == OP_META_GOTO
			}
		default:
			ok = true
		}
		if !ok {
			err = ErrJumpUnknown(act.Jump)
		}
		return
	}

	for _, act := range bind(m.Body) {
		err = remap(&act)
		if err != nil {
			err = located(act.Location, err)
			return
		}
		act.Expansion = exp
		out = append(out, act)
	}

	return
}

// String summarizes the macro signature.
func (m *Macro) String() string {
	var params []string
	for _, param := range m.Params {
		params = append(params, strings.TrimPrefix(param, HYGIENE_PREFIX))
	}
	return fmt.Sprintf(".MACRO %v %v", m.Name, strings.Join(params, ", "))
}
