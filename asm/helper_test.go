package asm

import (
	"io/fs"
)

func at(line int) Location {
	return Location{File: "test.s", Line: line}
}

func expr(acts ...Action) []Action {
	return acts
}

func direct(expr []Action) Operand {
	return Operand{Syntax: SYNTAX_DIRECT, Expr: expr}
}

func immediate(expr []Action) Operand {
	return Operand{Syntax: SYNTAX_IMMEDIATE, Expr: expr}
}

// assembleWith builds a program with a fresh builder, then assembles it.
func assembleWith(a *Assembler, build func(b *Builder) error) (prog *Program, err error) {
	b := a.NewBuilder()
	err = build(b)
	if err != nil {
		return
	}

	acts, err := b.Actions()
	if err != nil {
		return
	}

	prog, err = a.Assemble(acts)

	return
}

// testIncluder serves include files built on demand, and binary blobs.
type testIncluder struct {
	files map[string]func(b *Builder) error
	blobs map[string][]byte
}

func (ti *testIncluder) Include(name string, from Location, ids *IDs) (acts []Action, err error) {
	build, ok := ti.files[name]
	if !ok {
		err = fs.ErrNotExist
		return
	}

	b := NewBuilder(ids)
	err = build(b)
	if err != nil {
		return
	}

	acts, err = b.Actions()

	return
}

func (ti *testIncluder) Binary(name string, from Location) (data []byte, err error) {
	data, ok := ti.blobs[name]
	if !ok {
		err = fs.ErrNotExist
	}
	return
}
