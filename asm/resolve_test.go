package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func constant(value int64) []Action {
	return []Action{Load(Location{Line: 1}, value)}
}

func symbol(name string) []Action {
	return []Action{Get(Location{Line: 1}, name)}
}

func TestTryFold(t *testing.T) {
	assert := assert.New(t)

	loc := Location{Line: 1}

	value, ok, err := TryFold([]Action{Load(loc, 6), Load(loc, 7), Binary(loc, BINARY_MUL), Unary(loc, UNARY_MINUS)})
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(int64(-42), value)

	_, ok, err = TryFold([]Action{Load(loc, 6), Get(loc, "X"), Binary(loc, BINARY_MUL)})
	assert.NoError(err)
	assert.False(ok)

	_, ok, err = TryFold(nil)
	assert.NoError(err)
	assert.False(ok)

	_, ok, err = TryFold([]Action{Load(loc, 6), Load(loc, 0), Binary(loc, BINARY_DIV)})
	assert.ErrorIs(err, ErrDivideByZero)
	assert.False(ok)

	folded, err := Fold([]Action{Load(loc, 1), Load(loc, 2), Binary(loc, BINARY_ADD)})
	assert.NoError(err)
	assert.Equal([]Action{Load(loc, 3)}, folded)
}

func TestResolve(t *testing.T) {
	assert := assert.New(t)

	loc := Location{Line: 1}

	table := []struct {
		mnemonic string
		operand  Operand
		code     byte
	}{
		{"NOP", Operand{}, 0xea},
		{"lda", Operand{Syntax: SYNTAX_IMMEDIATE, Expr: constant(5)}, 0xa9},
		{"LDA", Operand{Syntax: SYNTAX_DIRECT, Expr: constant(0x10)}, 0xa5},
		{"LDA", Operand{Syntax: SYNTAX_DIRECT, Expr: constant(0x1234)}, 0xad},
		{"LDA", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_X, Expr: constant(0x10)}, 0xb5},
		{"LDA", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_Y, Expr: constant(0x10)}, 0xb9},
		{"LDX", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_Y, Expr: constant(0x10)}, 0xb6},
		{"LDA", Operand{Syntax: SYNTAX_INDIRECT_X, Expr: constant(0x10)}, 0xa1},
		{"LDA", Operand{Syntax: SYNTAX_INDIRECT_Y, Expr: constant(0x10)}, 0xb1},
		{"JMP", Operand{Syntax: SYNTAX_INDIRECT, Expr: constant(0x1234)}, 0x6c},
		{"JMP", Operand{Syntax: SYNTAX_DIRECT, Expr: constant(0x10)}, 0x4c},
		{"JMP", Operand{Syntax: SYNTAX_DIRECT, Expr: symbol("START")}, 0x4c},
		{"BNE", Operand{Syntax: SYNTAX_DIRECT, Expr: symbol("LOOP")}, 0xd0},
		{"LDA", Operand{Syntax: SYNTAX_DIRECT, Expr: constant(0x10010)}, 0xa5},
	}

	for _, entry := range table {
		acts, err := Resolve(loc, entry.mnemonic, entry.operand)
		if !assert.NoError(err, entry.mnemonic) {
			continue
		}
		last := acts[len(acts)-1]
		assert.Equal(OP_INSTRUCTION, last.Op, entry.mnemonic)
		assert.Equal(entry.code, last.Opcode.Code, "%v %v", entry.mnemonic, entry.operand.Syntax)
		assert.Equal(len(entry.operand.Expr), len(acts)-1, entry.mnemonic)
	}
}

func TestResolve_Width(t *testing.T) {
	assert := assert.New(t)

	loc := Location{Line: 1}

	acts, err := Resolve(loc, "sta", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_X, Expr: symbol("SCREEN")})
	assert.NoError(err)
	if assert.Equal(2, len(acts)) {
		assert.Equal(OP_GET, acts[0].Op)
		assert.Equal(OP_INSTRUCTION_WIDTH, acts[1].Op)
		assert.Equal("STA", acts[1].Mnemonic)
		assert.Equal(INDEX_X, acts[1].Index)
	}

	// Only a zero page encoding exists for STX zp,Y.
	acts, err = Resolve(loc, "STX", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_Y, Expr: symbol("PTR")})
	assert.NoError(err)
	if assert.Equal(2, len(acts)) {
		assert.Equal(OP_INSTRUCTION, acts[1].Op)
		assert.Equal(byte(0x96), acts[1].Opcode.Code)
	}
}

func TestResolve_Errors(t *testing.T) {
	assert := assert.New(t)

	loc := Location{Line: 1}

	_, err := Resolve(loc, "FOO", Operand{})
	assert.ErrorIs(err, ErrMnemonic("FOO"))

	_, err = Resolve(loc, "LDA", Operand{Syntax: SYNTAX_INDIRECT, Expr: constant(0x10)})
	assert.ErrorIs(err, ErrIllegalMode)

	_, err = Resolve(loc, "BNE", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_X, Expr: constant(0x10)})
	assert.ErrorIs(err, ErrIllegalMode)

	_, err = Resolve(loc, "STX", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_Y, Expr: constant(0x1234)})
	assert.ErrorIs(err, ErrIllegalMode)

	_, err = Resolve(loc, "STA", Operand{Syntax: SYNTAX_IMMEDIATE, Expr: constant(1)})
	assert.ErrorIs(err, ErrIllegalMode)

	_, err = Resolve(loc, "JMP", Operand{Syntax: SYNTAX_DIRECT, Index: INDEX_Y, Expr: constant(1)})
	assert.ErrorIs(err, ErrIllegalMode)

	_, err = Resolve(loc, "LDA", Operand{Syntax: SYNTAX_IMMEDIATE, Expr: []Action{
		Load(loc, 1), Load(loc, 0), Binary(loc, BINARY_DIV),
	}})
	assert.ErrorIs(err, ErrDivideByZero)
}
