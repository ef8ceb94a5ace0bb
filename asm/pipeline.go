// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"log"
	"maps"
	"slices"

	"github.com/ezrec/asm6510/internal"
)

const (
	INCLUDE_DEPTH = 32 // Maximum nesting of .INCLUDE files.
)

// Includer resolves included files.
type Includer interface {
	// Include returns the actions of a source file, built with ids.
	Include(name string, from Location, ids *IDs) ([]Action, error)
	// Binary returns the contents of a binary file.
	Binary(name string, from Location) ([]byte, error)
}

// Assembler drives a program through its passes.
type Assembler struct {
	Verbose  bool        // If set, log each pass.
	Log      *log.Logger // Destination of messages and verbose output.
	Includer Includer    // Resolves .INCLUDE and .INCBIN, may be nil.

	ids    IDs
	macros map[string]*Macro
	engine *Engine
}

// NewAssembler creates an assembler without an includer.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// NewBuilder creates a builder sharing this assembler's ids.
func (a *Assembler) NewBuilder() *Builder {
	return NewBuilder(&a.ids)
}

// IDs returns the id allocator shared with builders.
func (a *Assembler) IDs() *IDs {
	return &a.ids
}

// Reset forgets all ids, macros and symbols.
func (a *Assembler) Reset() {
	a.ids.Reset()
	a.macros = nil
	a.engine = nil
}

func (a *Assembler) logger() *log.Logger {
	if a.Log == nil {
		return log.Default()
	}
	return a.Log
}

func (a *Assembler) logf(format string, args ...any) {
	if a.Verbose {
		a.logger().Printf(format, args...)
	}
}

// include replaces .INCLUDE and .INCBIN with the file contents.
func (a *Assembler) include(seq []Action, depth int) (out []Action, err error) {
	for n := range seq {
		act := &seq[n]
		switch act.Op {
		case OP_INCLUDE:
			if a.Includer == nil {
				err = located(act.Location, ErrNoIncluder)
				return
			}
			if depth >= INCLUDE_DEPTH {
				err = located(act.Location, ErrIncludeDepth)
				return
			}
			var acts []Action
			acts, err = a.Includer.Include(act.Name, act.Location, &a.ids)
			if err != nil {
				err = located(act.Location, err)
				return
			}
			a.logf("%v: include %v: %d actions", act.Location, act.Name, len(acts))
			acts, err = a.include(acts, depth+1)
			if err != nil {
				return
			}
			out = append(out, acts...)
		case OP_INCLUDE_BINARY:
			if a.Includer == nil {
				err = located(act.Location, ErrNoIncluder)
				return
			}
			var data []byte
			data, err = a.Includer.Binary(act.Name, act.Location)
			if err != nil {
				err = located(act.Location, err)
				return
			}
			a.logf("%v: incbin %v: %d bytes", act.Location, act.Name, len(data))
			for _, arg := range act.Args {
				out = append(out, arg...)
			}
			out = append(out, Action{Op: OP_WRITE_BYTES, Location: act.Location, Name: act.Name, Bytes: data})
		default:
			out = append(out, *act)
		}
	}

	return
}

// expand extracts macro definitions and instantiates every call.
func (a *Assembler) expand(seq []Action) (out []Action, err error) {
	a.macros = map[string]*Macro{}

	for n := range seq {
		act := &seq[n]
		if act.Op != OP_DEFINE_MACRO {
			continue
		}
		_, ok := a.macros[act.Name]
		if ok {
			err = located(act.Location, ErrMacroDuplicate(act.Name))
			return
		}
		a.macros[act.Name] = NewMacro(act.Location, act.Name, act.Params, act.Body)
	}

	for n := range seq {
		act := &seq[n]
		switch act.Op {
		case OP_DEFINE_MACRO:
		case OP_CALL_MACRO:
			m, ok := a.macros[act.Name]
			if !ok {
				err = located(act.Location, ErrMacroUnknown(act.Name))
				return
			}
			var acts []Action
			acts, err = m.Instantiate(act, a.ids.Expansion(), &a.ids)
			if err != nil {
				return
			}
			a.logf("%v: expand %v: %d actions", act.Location, m, len(acts))
			out = append(out, acts...)
		default:
			out = append(out, *act)
		}
	}

	return
}

// gather turns meta labels into jump targets, and declares every symbol.
func (a *Assembler) gather(seq []Action) (out []Action, err error) {
	targets := map[string]int{}
	for n := range seq {
		act := &seq[n]
		if act.Op != OP_META_LABEL {
			continue
		}
		_, ok := targets[act.Name]
		if ok {
			err = located(act.Location, ErrDuplicateMetaLabel(act.Name))
			return
		}
		targets[act.Name] = a.ids.Jump()
	}

	e := a.engine
	parent := ""
	out = make([]Action, 0, len(seq))
	for _, act := range seq {
		switch act.Op {
		case OP_META_LABEL:
			act = Action{Op: OP_JUMP_TARGET, Location: act.Location, Jump: targets[act.Name]}
		case OP_META_GOTO:
			id, ok := targets[act.Name]
			if !ok {
				err = located(act.Location, ErrUnknownMetaLabel(act.Name))
				return
			}
			act = Action{Op: OP_JUMP, Location: act.Location, Jump: id, Expansion: act.Expansion}
		case OP_SET:
			err = e.declareVariable(act.Name, parent)
		case OP_SET_LABEL:
			parent, err = e.declareLabel(act.Name, act.Synthetic, parent)
		}
		if err != nil {
			err = e.annotate(&act, err)
			return
		}
		out = append(out, act)
	}

	a.logf("gather: %d variables, %d labels, %d meta labels", len(e.variables)-1, len(e.labels), len(targets))

	return
}

// run executes one compile pass.
func (a *Assembler) run(pass Pass, code []Action, table []int, counters int) (err error) {
	e := a.engine
	e.begin(pass)
	e.counters = make([]int64, counters)

	err = e.execute(code, table)
	if err != nil {
		return
	}

	var size int
	for _, region := range e.regions {
		size += len(region.Bytes)
	}
	a.logf("%v: %d regions, %d bytes, %d jumps", pass, len(e.regions), size, e.jumps)

	return
}

// layout is the state two passes must agree on: every label and variable
// value at the end of the pass, and the placement of every region.
type layout struct {
	symbols map[string]int64
	spans   []span
}

type span struct {
	start uint16
	kind  Kind
	size  int
}

func (a *Assembler) layout() (l layout) {
	e := a.engine
	l.symbols = map[string]int64{}
	for name, v := range internal.IterSeq2Concat(maps.All(e.labels), maps.All(e.variables)) {
		l.symbols[name] = v.Value
	}
	for _, region := range e.regions {
		l.spans = append(l.spans, span{start: region.Start, kind: region.Kind, size: len(region.Bytes)})
	}
	return
}

func (l layout) equal(o layout) bool {
	return maps.Equal(l.symbols, o.symbols) && slices.Equal(l.spans, o.spans)
}

// Assemble runs the pipeline over a program built with this assembler's
// ids: includes, macro expansion, symbol gathering, then the warm-up, first
// and final compile passes.
func (a *Assembler) Assemble(actions []Action) (prog *Program, err error) {
	a.engine = NewEngine()
	a.engine.Verbose = a.Verbose
	a.engine.Log = a.Log

	a.logf("%v: %d actions", PASS_INCLUDE, len(actions))
	seq, err := a.include(actions, 0)
	if err != nil {
		return
	}

	a.logf("%v: %d actions", PASS_MACRO, len(seq))
	seq, err = a.expand(seq)
	if err != nil {
		return
	}

	a.logf("%v: %d actions", PASS_GATHER, len(seq))
	seq, err = a.gather(seq)
	if err != nil {
		return
	}

	code, table, counters, err := compile(seq)
	if err != nil {
		return
	}

	err = a.run(PASS_WARMUP, code, table, counters)
	if err != nil {
		return
	}

	err = a.run(PASS_FIRST, code, table, counters)
	if err != nil {
		return
	}
	first := a.layout()

	err = a.run(PASS_FINAL, code, table, counters)
	if err != nil {
		return
	}

	if !first.equal(a.layout()) {
		err = ErrNotConverged
		return
	}

	prog = newProgram(a.engine)

	return
}
