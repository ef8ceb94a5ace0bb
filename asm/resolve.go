package asm

import (
	"strings"

	"github.com/ezrec/asm6510/opcode"
)

// Syntax is the written form of an instruction operand.
type Syntax int

//go:generate go tool stringer -linecomment -type=Syntax
const (
	SYNTAX_IMPLIED    = Syntax(0) // implied
	SYNTAX_IMMEDIATE  = Syntax(1) // #expr
	SYNTAX_DIRECT     = Syntax(2) // expr
	SYNTAX_INDIRECT   = Syntax(3) // (expr)
	SYNTAX_INDIRECT_X = Syntax(4) // (expr,X)
	SYNTAX_INDIRECT_Y = Syntax(5) // (expr),Y
)

// Operand of an instruction as written.
type Operand struct {
	Syntax Syntax
	Index  Index    // Index register of SYNTAX_DIRECT.
	Expr   []Action // Operand expression, empty for SYNTAX_IMPLIED.
}

// TryFold evaluates an expression that reads no symbols. When the
// expression reads a symbol, ok is false and err is nil; evaluation
// failures of a constant expression are returned as errors.
func TryFold(expr []Action) (value int64, ok bool, err error) {
	if len(expr) == 0 {
		return
	}

	for _, act := range expr {
		switch act.Op {
		case OP_LOAD, OP_UNARY, OP_BINARY:
		default:
			return
		}
	}

	e := NewEngine()
	value, err = e.Eval(expr)
	if err != nil {
		return
	}

	if e.stack.Depth() != 0 {
		err = located(expr[0].Location, ErrStackFull)
		return
	}

	ok = true

	return
}

// Fold replaces a constant expression by a single load.
func Fold(expr []Action) (folded []Action, err error) {
	value, ok, err := TryFold(expr)
	if err != nil {
		return
	}

	if !ok {
		folded = expr
		return
	}

	folded = []Action{Load(expr[0].Location, value)}

	return
}

var fixedSyntax = map[Syntax]opcode.Mode{
	SYNTAX_IMPLIED:    opcode.MODE_IMPLIED,
	SYNTAX_IMMEDIATE:  opcode.MODE_IMMEDIATE,
	SYNTAX_INDIRECT:   opcode.MODE_INDIRECT,
	SYNTAX_INDIRECT_X: opcode.MODE_INDIRECT_X,
	SYNTAX_INDIRECT_Y: opcode.MODE_INDIRECT_Y,
}

var indexModes = map[Index][2]opcode.Mode{
	INDEX_NONE: {opcode.MODE_ZEROPAGE, opcode.MODE_ABSOLUTE},
	INDEX_X:    {opcode.MODE_ZEROPAGE_X, opcode.MODE_ABSOLUTE_X},
	INDEX_Y:    {opcode.MODE_ZEROPAGE_Y, opcode.MODE_ABSOLUTE_Y},
}

// Resolve selects the addressing mode of an instruction. When the operand
// width cannot be known yet and both a zero page and an absolute encoding
// exist, the choice is deferred to each pass.
func Resolve(loc Location, mnemonic string, operand Operand) (acts []Action, err error) {
	if !opcode.IsMnemonic(mnemonic) {
		err = ErrMnemonic(mnemonic)
		return
	}

	expr, err := Fold(operand.Expr)
	if err != nil {
		return
	}

	fixed := func(mode opcode.Mode) {
		op, ok := opcode.Lookup(mnemonic, mode)
		if !ok {
			err = ErrIllegalMode
			return
		}
		acts = append(acts, expr...)
		acts = append(acts, Action{Op: OP_INSTRUCTION, Location: loc, Opcode: op})
	}

	if operand.Syntax == SYNTAX_DIRECT && opcode.IsBranch(mnemonic) {
		if operand.Index != INDEX_NONE {
			err = ErrIllegalMode
			return
		}
		fixed(opcode.MODE_RELATIVE)
		return
	}

	mode, ok := fixedSyntax[operand.Syntax]
	if ok {
		fixed(mode)
		return
	}

	modes := indexModes[operand.Index]
	zp := opcode.Has(mnemonic, modes[0])
	abs := opcode.Has(mnemonic, modes[1])

	if !zp && !abs {
		err = ErrIllegalMode
		return
	}

	value, known, err := TryFold(expr)
	if err != nil {
		return
	}

	switch {
	case known && (value&0xffff) < 256 && zp:
		fixed(modes[0])
	case known:
		fixed(modes[1])
	case zp && abs:
		acts = append(acts, expr...)
		acts = append(acts, Action{
			Op:       OP_INSTRUCTION_WIDTH,
			Location: loc,
			Mnemonic: strings.ToUpper(mnemonic),
			Index:    operand.Index,
		})
	case zp:
		fixed(modes[0])
	default:
		fixed(modes[1])
	}

	return
}
