// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"

	"github.com/ezrec/asm6510/opcode"
)

// Location of an action in the source.
type Location struct {
	File string // Source file name, if any.
	Line int    // 1-based line number.
}

func (loc Location) String() string {
	if len(loc.File) == 0 {
		return fmt.Sprintf("line %d", loc.Line)
	}
	return fmt.Sprintf("%v:%d", loc.File, loc.Line)
}

// Op selects the behavior of an Action.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD              = Op(0)  // load
	OP_GET               = Op(1)  // get
	OP_SET               = Op(2)  // set
	OP_UNARY             = Op(3)  // unary
	OP_BINARY            = Op(4)  // binary
	OP_INSTRUCTION       = Op(5)  // instruction
	OP_INSTRUCTION_WIDTH = Op(6)  // instruction.width
	OP_STORE_DATA        = Op(7)  // data
	OP_WRITE_STRING      = Op(8)  // string.write
	OP_WRITE_BYTES       = Op(9)  // bytes.write
	OP_SET_LABEL         = Op(10) // label
	OP_JUMP_TARGET       = Op(11) // jump.target
	OP_JUMP              = Op(12) // jump
	OP_JUMP_IF_FALSE     = Op(13) // jump.false
	OP_COUNTER_SET       = Op(14) // counter.set
	OP_COUNTER_COMPARE   = Op(15) // counter.compare
	OP_COUNTER_DECREMENT = Op(16) // counter.decrement
	OP_MESSAGE           = Op(17) // message
	OP_STRING            = Op(18) // string
	OP_DEFINE_MACRO      = Op(19) // .macro
	OP_CALL_MACRO        = Op(20) // .call
	OP_META_LABEL        = Op(21) // .label
	OP_META_GOTO         = Op(22) // .goto
	OP_INCLUDE           = Op(23) // .include
	OP_INCLUDE_BINARY    = Op(24) // .incbin
)

// Meta is true for ops that are removed before execution.
func (op Op) Meta() bool {
	switch op {
	case OP_JUMP_TARGET, OP_STRING, OP_DEFINE_MACRO, OP_CALL_MACRO,
		OP_META_LABEL, OP_META_GOTO, OP_INCLUDE, OP_INCLUDE_BINARY:
		return true
	}
	return false
}

// Index is the index register of an indexed addressing mode.
type Index int

//go:generate go tool stringer -linecomment -type=Index
const (
	INDEX_NONE = Index(0) // none
	INDEX_X    = Index(1) // x
	INDEX_Y    = Index(2) // y
)

// Level of a user message.
type Level int

//go:generate go tool stringer -linecomment -type=Level
const (
	LEVEL_INFO  = Level(0) // info
	LEVEL_WARN  = Level(1) // warning
	LEVEL_ERROR = Level(2) // error
)

// Expansion identifies the macro call an action was instantiated from.
type Expansion struct {
	Macro string   // Macro name.
	Call  Location // Location of the .CALL.
	Seq   int      // Expansion sequence number.
}

// Action is a single step of a compiled program.
//
// Which fields are meaningful depends on Op. Actions are templates: running
// one never modifies it, all state lives in the Engine.
type Action struct {
	Op       Op
	Location Location

	Value     int64         // OP_LOAD
	Name      string        // Symbol, label, macro, or file name.
	Unary     UnaryOp       // OP_UNARY
	Binary    BinaryOp      // OP_BINARY
	Opcode    opcode.Opcode // OP_INSTRUCTION
	Mnemonic  string        // OP_INSTRUCTION_WIDTH
	Index     Index         // OP_INSTRUCTION_WIDTH
	Word      bool          // OP_STORE_DATA, OP_WRITE_STRING
	Bytes     []byte        // OP_WRITE_STRING, OP_WRITE_BYTES
	Jump      int           // Jump id.
	Counter   int           // Counter id.
	Level     Level         // OP_MESSAGE
	Format    bool          // OP_MESSAGE, first argument is a format.
	Params    []string      // OP_DEFINE_MACRO
	Body      []Action      // OP_DEFINE_MACRO
	Args      [][]Action    // OP_CALL_MACRO, OP_MESSAGE, OP_INCLUDE_BINARY
	Synthetic bool          // OP_SET_LABEL created by a macro expansion.
	Expansion *Expansion    // Set on actions instantiated from a macro.
}

// Load pushes a constant.
func Load(loc Location, value int64) Action {
	return Action{Op: OP_LOAD, Location: loc, Value: value}
}

// Get pushes the value of a variable or label.
func Get(loc Location, name string) Action {
	return Action{Op: OP_GET, Location: loc, Name: name}
}

// Set pops a value into a variable.
func Set(loc Location, name string) Action {
	return Action{Op: OP_SET, Location: loc, Name: name}
}

// Unary applies a prefix operator to the top of stack.
func Unary(loc Location, op UnaryOp) Action {
	return Action{Op: OP_UNARY, Location: loc, Unary: op}
}

// Binary applies an infix operator to the top two stack entries.
func Binary(loc Location, op BinaryOp) Action {
	return Action{Op: OP_BINARY, Location: loc, Binary: op}
}

// Label sets a label to the current PC.
func Label(loc Location, name string) Action {
	return Action{Op: OP_SET_LABEL, Location: loc, Name: name}
}

// Nested returns the expressions embedded in an action, flattened.
func (act *Action) Nested() (nested []Action) {
	for _, arg := range act.Args {
		nested = append(nested, arg...)
	}
	return
}

func (act *Action) String() string {
	switch act.Op {
	case OP_LOAD:
		return fmt.Sprintf("%v %d", act.Op, act.Value)
	case OP_UNARY:
		return fmt.Sprintf("%v %v", act.Op, act.Unary)
	case OP_BINARY:
		return fmt.Sprintf("%v %v", act.Op, act.Binary)
	case OP_INSTRUCTION:
		return fmt.Sprintf("%v %v", act.Op, act.Opcode)
	case OP_INSTRUCTION_WIDTH:
		return fmt.Sprintf("%v %v,%v", act.Op, act.Mnemonic, act.Index)
	case OP_JUMP_TARGET, OP_JUMP, OP_JUMP_IF_FALSE:
		return fmt.Sprintf("%v #%d", act.Op, act.Jump)
	case OP_COUNTER_SET:
		return fmt.Sprintf("%v c%d", act.Op, act.Counter)
	case OP_COUNTER_COMPARE, OP_COUNTER_DECREMENT:
		return fmt.Sprintf("%v c%d #%d", act.Op, act.Counter, act.Jump)
	}

	if len(act.Name) != 0 {
		return fmt.Sprintf("%v %v", act.Op, act.Name)
	}

	return act.Op.String()
}

// Run the action against the engine.
func (act *Action) Run(e *Engine) (err error) {
	switch act.Op {
	case OP_LOAD:
		e.operand()
		err = e.Push(act.Value)
	case OP_GET:
		e.operand()
		var value int64
		value, err = e.Get(act.Name)
		if err != nil {
			return
		}
		err = e.Push(value)
	case OP_SET:
		var value int64
		value, err = e.Pop()
		if err != nil {
			return
		}
		err = e.Set(act.Name, value)
	case OP_UNARY:
		var a int64
		a, err = e.Pop()
		if err != nil {
			return
		}
		err = e.Push(act.Unary.Apply(a))
	case OP_BINARY:
		var a, b, value int64
		a, b, err = e.stack.Pair()
		if err != nil {
			return
		}
		value, err = act.Binary.Apply(a, b)
		if err != nil {
			return
		}
		err = e.Push(value)
	case OP_INSTRUCTION:
		err = e.assemble(act.Opcode)
	case OP_INSTRUCTION_WIDTH:
		err = e.assembleWidth(act.Mnemonic, act.Index)
	case OP_STORE_DATA:
		var value int64
		value, err = e.Pop()
		if err != nil {
			return
		}
		if act.Word {
			err = e.EmitDataWord(value)
		} else {
			err = e.EmitDataByte(value)
		}
	case OP_WRITE_STRING:
		for _, b := range act.Bytes {
			if act.Word {
				err = e.EmitDataWord(int64(b))
			} else {
				err = e.EmitDataByte(int64(b))
			}
			if err != nil {
				return
			}
		}
	case OP_WRITE_BYTES:
		err = e.writeBytes(act.Bytes)
	case OP_SET_LABEL:
		err = e.SetLabel(act.Name, act.Synthetic)
	case OP_JUMP:
		e.Jump(act.Jump)
	case OP_JUMP_IF_FALSE:
		var value int64
		value, err = e.Pop()
		if err != nil {
			return
		}
		if value == 0 {
			e.Jump(act.Jump)
		}
	case OP_COUNTER_SET:
		var c *int64
		c, err = e.counter(act.Counter)
		if err != nil {
			return
		}
		*c, err = e.Pop()
	case OP_COUNTER_COMPARE:
		var c *int64
		c, err = e.counter(act.Counter)
		if err != nil {
			return
		}
		if *c <= 0 {
			e.Jump(act.Jump)
		}
	case OP_COUNTER_DECREMENT:
		var c *int64
		c, err = e.counter(act.Counter)
		if err != nil {
			return
		}
		*c--
		e.Jump(act.Jump)
	case OP_MESSAGE:
		err = e.message(act)
	default:
		err = fmt.Errorf("%w: %v", ErrMetaAction, act.Op)
	}

	return
}
