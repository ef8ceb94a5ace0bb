package asm

import (
	"errors"
)

// compile strips jump targets from a sequence, recording the position each
// target id refers to. Counter ids are sized to the largest one seen.
func compile(seq []Action) (code []Action, table []int, counters int, err error) {
	code = make([]Action, 0, len(seq))

	for n := range seq {
		act := &seq[n]
		switch act.Op {
		case OP_JUMP_TARGET:
			for len(table) <= act.Jump {
				table = append(table, NO_JUMP)
			}
			table[act.Jump] = len(code)
			continue
		case OP_COUNTER_SET, OP_COUNTER_COMPARE, OP_COUNTER_DECREMENT:
			counters = max(counters, act.Counter+1)
		}

		if act.Op.Meta() {
			err = located(act.Location, ErrMetaAction)
			return
		}

		code = append(code, *act)
	}

	return
}

// execute runs compiled code. An action requests a jump by id; the
// redirect happens before the next action is fetched.
func (e *Engine) execute(code []Action, table []int) (err error) {
	for ip := 0; ; {
		if e.jump != NO_JUMP {
			id := e.jump
			e.jump = NO_JUMP
			if id < 0 || id >= len(table) || table[id] == NO_JUMP {
				err = ErrJumpUnknown(id)
				if ip > 0 {
					err = e.annotate(&code[ip-1], err)
				}
				return
			}
			e.jumps++
			if e.jumps > JUMP_LIMIT {
				err = e.annotate(&code[ip-1], ErrLoopLimit)
				return
			}
			ip = table[id]
		}

		if ip >= len(code) {
			return
		}

		act := &code[ip]
		ip++

		e.loc = act.Location
		err = act.Run(e)
		if err != nil {
			err = e.annotate(act, err)
			return
		}
	}
}

// annotate attaches the action location, and the macro call site for
// actions instantiated from a macro.
func (e *Engine) annotate(act *Action, err error) error {
	err = located(act.Location, err)

	if act.Expansion != nil {
		var em *ErrMacro
		if !errors.As(err, &em) {
			err = &ErrMacro{
				Macro: act.Expansion.Macro,
				Call:  act.Expansion.Call,
				Err:   err,
			}
		}
	}

	return err
}
