package asm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacro_Hygiene(t *testing.T) {
	assert := assert.New(t)

	loc := at(1)
	m := NewMacro(loc, "INC", []string{"ADDR"}, []Action{
		Get(loc, "ADDR"), Load(loc, 1), Binary(loc, BINARY_ADD), Set(loc, "X"),
		Get(loc, "X"), Set(loc, PC_NAME),
		Label(loc, "DONE"),
		Label(loc, "_local"),
		Get(loc, "GLOBAL"), {Op: OP_STORE_DATA, Location: loc},
	})

	assert.Equal([]string{"__ADDR"}, m.Params)
	assert.Equal("__ADDR", m.Body[0].Name)
	assert.Equal("__X", m.Body[3].Name)
	assert.Equal("__X", m.Body[4].Name)
	assert.Equal(PC_NAME, m.Body[5].Name)
	assert.Equal("__DONE", m.Body[6].Name)
	assert.Equal("_local", m.Body[7].Name)
	assert.Equal("GLOBAL", m.Body[8].Name)
	assert.Equal(".MACRO INC ADDR", m.String())
}

func TestMacro_Instantiate(t *testing.T) {
	assert := assert.New(t)

	ids := &IDs{}
	b := NewBuilder(ids)
	loc := at(1)

	assert.NoError(errors.Join(
		b.Macro(loc, "M", []string{"N"}),
		b.Repeat(at(2), expr(Get(loc, "N"))),
		b.Data(at(3), false, expr(Get(loc, "N"))),
		b.EndRepeat(at(4)),
		b.EndMacro(at(5)),
	))
	acts, err := b.Actions()
	assert.NoError(err)
	if !assert.Equal(1, len(acts)) {
		return
	}

	def := acts[0]
	m := NewMacro(def.Location, def.Name, def.Params, def.Body)

	call := Action{Op: OP_CALL_MACRO, Location: at(10), Name: "M", Args: [][]Action{expr(Load(at(10), 3))}}
	first, err := m.Instantiate(&call, 1, ids)
	assert.NoError(err)
	second, err := m.Instantiate(&call, 2, ids)
	assert.NoError(err)

	assert.Equal("M$1", first[0].Name)
	assert.True(first[0].Synthetic)
	assert.Equal("M$1$$__N", first[2].Name)
	assert.Equal("M$2$$__N", second[2].Name)

	jumps := map[int]bool{}
	for _, act := range first {
		if act.Op == OP_JUMP_TARGET {
			jumps[act.Jump] = true
		}
		if act.Expansion != nil {
			assert.Equal("M", act.Expansion.Macro)
			assert.Equal(at(10), act.Expansion.Call)
		}
	}
	assert.Equal(2, len(jumps))
	for _, act := range second {
		if act.Op == OP_JUMP_TARGET {
			assert.False(jumps[act.Jump])
		}
	}

	call.Args = nil
	_, err = m.Instantiate(&call, 3, ids)
	var em *ErrMacroArgs
	if assert.ErrorAs(err, &em) {
		assert.Equal(1, em.Expected)
		assert.Equal(0, em.Got)
	}
}

func TestMacro_Assemble(t *testing.T) {
	assert := assert.New(t)

	a := NewAssembler()
	prog, err := assembleWith(a, func(b *Builder) error {
		return errors.Join(
			b.Macro(at(1), "PUT", []string{"V"}),
			b.Assign(at(2), "X", expr(Get(at(2), "V"), Load(at(2), 1), Binary(at(2), BINARY_ADD))),
			b.Data(at(3), false, expr(Get(at(3), "X"))),
			b.EndMacro(at(4)),
			b.Assign(at(5), PC_NAME, expr(Load(at(5), 0x1000))),
			b.Call(at(6), "PUT", [][]Action{expr(Load(at(6), 5))}),
			b.Call(at(7), "PUT", [][]Action{expr(Load(at(7), 9))}),
		)
	})
	if !assert.NoError(err) {
		return
	}

	if assert.Equal(1, len(prog.Regions)) {
		assert.Equal([]byte{6, 10}, prog.Regions[0].Bytes)
	}
	assert.Equal(int64(6), prog.Variables["PUT$1$$__X"])
	assert.Equal(int64(10), prog.Variables["PUT$2$$__X"])
	assert.Equal(int64(0x1000), prog.Labels["PUT$1"])
	assert.Equal(int64(0x1001), prog.Labels["PUT$2"])
}

func TestMacro_CallerLocals(t *testing.T) {
	assert := assert.New(t)

	a := NewAssembler()
	prog, err := assembleWith(a, func(b *Builder) error {
		err := errors.Join(
			b.Macro(at(1), "TWICE", []string{"V"}),
			b.Data(at(2), false, expr(Get(at(2), "V"), Load(at(2), 2), Binary(at(2), BINARY_MUL))),
			b.EndMacro(at(3)),
			b.Assign(at(4), PC_NAME, expr(Load(at(4), 0x2000))),
		)
		b.Label(at(5), "MAIN")
		return errors.Join(err,
			b.Assign(at(6), "_x", expr(Load(at(6), 4))),
			b.Call(at(7), "TWICE", [][]Action{expr(Get(at(7), "_x"))}),
			b.Data(at(8), false, expr(Get(at(8), "_x"))),
		)
	})
	if !assert.NoError(err) {
		return
	}

	if assert.Equal(1, len(prog.Regions)) {
		assert.Equal([]byte{8, 4}, prog.Regions[0].Bytes)
	}
	assert.Equal(int64(4), prog.Variables["MAIN$$_x"])
}

func TestMacro_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := assembleWith(NewAssembler(), func(b *Builder) error {
		return b.Call(at(1), "NOPE", nil)
	})
	assert.ErrorIs(err, ErrMacroUnknown("NOPE"))

	_, err = assembleWith(NewAssembler(), func(b *Builder) error {
		return errors.Join(
			b.Macro(at(1), "M", nil),
			b.EndMacro(at(2)),
			b.Macro(at(3), "M", nil),
			b.EndMacro(at(4)),
		)
	})
	assert.ErrorIs(err, ErrMacroDuplicate("M"))

	_, err = assembleWith(NewAssembler(), func(b *Builder) error {
		return errors.Join(
			b.Macro(at(1), "M", nil),
			b.Instruction(at(2), "LDA", immediate(expr(Get(at(2), "Q")))),
			b.EndMacro(at(3)),
			b.Assign(at(4), PC_NAME, expr(Load(at(4), 0x1000))),
			b.Call(at(5), "M", nil),
		)
	})
	assert.ErrorIs(err, ErrUndefined("Q"))
	var em *ErrMacro
	if assert.ErrorAs(err, &em) {
		assert.Equal("M", em.Macro)
		assert.Equal(at(5), em.Call)
		var el *ErrLocation
		if assert.ErrorAs(em.Err, &el) {
			assert.Equal(at(2), el.Location)
		}
	}
}

func TestMacro_LocalNames(t *testing.T) {
	assert := assert.New(t)

	prog, err := assembleWith(NewAssembler(), func(b *Builder) error {
		err := errors.Join(
			b.Macro(at(1), "WAIT", []string{"N"}),
			b.Assign(at(2), "_t", expr(Get(at(2), "N"))),
		)
		b.Label(at(3), "_loop")
		err = errors.Join(err,
			b.Data(at(4), false, expr(Get(at(4), "_t"))),
			b.Instruction(at(5), "DEX", Operand{Syntax: SYNTAX_IMPLIED}),
			b.Instruction(at(6), "BNE", direct(expr(Get(at(6), "_loop")))),
			b.EndMacro(at(7)),
			b.Assign(at(8), PC_NAME, expr(Load(at(8), 0x1000))),
			b.Call(at(9), "WAIT", [][]Action{expr(Load(at(9), 1))}),
		)
		b.Label(at(10), "MAIN")
		return errors.Join(err,
			b.Call(at(11), "WAIT", [][]Action{expr(Load(at(11), 2))}),
			b.Call(at(12), "WAIT", [][]Action{expr(Load(at(12), 3))}),
		)
	})
	if !assert.NoError(err) {
		return
	}

	var data []byte
	for _, region := range prog.Regions {
		data = append(data, region.Bytes...)
	}
	assert.Equal([]byte{
		0x01, 0xca, 0xd0, 0xfc,
		0x02, 0xca, 0xd0, 0xfc,
		0x03, 0xca, 0xd0, 0xfc,
	}, data)

	for n, addr := range []int64{0x1000, 0x1004, 0x1008} {
		anchor := fmt.Sprintf("WAIT$%d", n+1)
		assert.Equal(addr, prog.Labels[anchor+LOCAL_SEP+"_loop"], anchor)
		assert.Equal(int64(n+1), prog.Variables[anchor+LOCAL_SEP+"_t"], anchor)
	}
	assert.NotContains(prog.Labels, "MAIN$$_loop")
	assert.NotContains(prog.Variables, "MAIN$$_t")
}
