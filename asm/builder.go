// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"slices"
)

type blockKind int

//go:generate go tool stringer -linecomment -type=blockKind
const (
	BLOCK_IF     = blockKind(0) // .IF
	BLOCK_REPEAT = blockKind(1) // .REP
	BLOCK_WHILE  = blockKind(2) // .WHILE
	BLOCK_MACRO  = blockKind(3) // .MACRO
)

// block is an open structured directive.
type block struct {
	kind     blockKind
	location Location
	end      int  // Jump id after the block.
	next     int  // .IF: jump id of the next branch, or NO_JUMP.
	start    int  // Loops: jump id of the loop head.
	counter  int  // .REP: counter id.
	hasElse  bool // .IF: an .ELSE was seen.
	name     string
	params   []string
	outer    []Action // .MACRO: actions outside the definition.
}

// Builder lowers structured source constructs into a flat action sequence.
//
// Conditionals and loops become conditional jumps, counters and jump
// targets. Every method returns errors carrying the given location.
type Builder struct {
	ids     *IDs
	actions []Action
	blocks  []*block
}

// NewBuilder creates a builder allocating ids from ids.
func NewBuilder(ids *IDs) *Builder {
	return &Builder{ids: ids}
}

func (b *Builder) add(acts ...Action) {
	b.actions = append(b.actions, acts...)
}

func (b *Builder) target(loc Location, id int) {
	b.add(Action{Op: OP_JUMP_TARGET, Location: loc, Jump: id})
}

func (b *Builder) top() *block {
	if len(b.blocks) == 0 {
		return nil
	}
	return b.blocks[len(b.blocks)-1]
}

func (b *Builder) inMacro() bool {
	return slices.ContainsFunc(b.blocks, func(blk *block) bool { return blk.kind == BLOCK_MACRO })
}

// close pops the innermost block, which must be of the given kind.
func (b *Builder) close(kind blockKind, directive string) (blk *block, err error) {
	blk = b.top()
	if blk == nil {
		err = &ErrBlockMismatch{Close: directive}
		return
	}
	if blk.kind != kind {
		err = &ErrBlockMismatch{Open: blk.kind.String(), Close: directive}
		return
	}

	b.blocks = b.blocks[:len(b.blocks)-1]

	return
}

// Expression folds an expression if it is constant.
func (b *Builder) Expression(loc Location, expr []Action) (folded []Action, err error) {
	folded, err = Fold(expr)
	err = located(loc, err)
	return
}

// Assign a variable, or the PC when name is "@".
func (b *Builder) Assign(loc Location, name string, expr []Action) (err error) {
	expr, err = b.Expression(loc, expr)
	if err != nil {
		return
	}

	b.add(expr...)
	b.add(Set(loc, name))

	return
}

// Label defines a label at the PC.
func (b *Builder) Label(loc Location, name string) {
	b.add(Label(loc, name))
}

// Instruction adds an instruction, resolving its addressing mode.
func (b *Builder) Instruction(loc Location, mnemonic string, operand Operand) (err error) {
	acts, err := Resolve(loc, mnemonic, operand)
	if err != nil {
		err = located(loc, err)
		return
	}

	b.add(acts...)

	return
}

// Data stores an expression as a data byte, or word.
func (b *Builder) Data(loc Location, word bool, expr []Action) (err error) {
	expr, err = b.Expression(loc, expr)
	if err != nil {
		return
	}

	b.add(expr...)
	b.add(Action{Op: OP_STORE_DATA, Location: loc, Word: word})

	return
}

// Text stores raw bytes as data bytes, or words.
func (b *Builder) Text(loc Location, word bool, text []byte) {
	b.add(Action{Op: OP_WRITE_STRING, Location: loc, Word: word, Bytes: text})
}

// If opens a conditional block.
func (b *Builder) If(loc Location, cond []Action) (err error) {
	blk := &block{
		kind:     BLOCK_IF,
		location: loc,
		end:      b.ids.Jump(),
		next:     b.ids.Jump(),
	}

	cond, err = b.Expression(loc, cond)
	if err != nil {
		return
	}

	b.add(cond...)
	b.add(Action{Op: OP_JUMP_IF_FALSE, Location: loc, Jump: blk.next})
	b.blocks = append(b.blocks, blk)

	return
}

// ElseIf starts another conditional branch of the open .IF.
func (b *Builder) ElseIf(loc Location, cond []Action) (err error) {
	blk := b.top()
	if blk == nil || blk.kind != BLOCK_IF {
		err = located(loc, &ErrBlockMismatch{Close: ".ELIF"})
		return
	}
	if blk.hasElse {
		err = located(loc, ErrElifAfterElse)
		return
	}

	cond, err = b.Expression(loc, cond)
	if err != nil {
		return
	}

	b.add(Action{Op: OP_JUMP, Location: loc, Jump: blk.end})
	b.target(loc, blk.next)
	blk.next = b.ids.Jump()
	b.add(cond...)
	b.add(Action{Op: OP_JUMP_IF_FALSE, Location: loc, Jump: blk.next})

	return
}

// Else starts the fallback branch of the open .IF.
func (b *Builder) Else(loc Location) (err error) {
	blk := b.top()
	if blk == nil || blk.kind != BLOCK_IF {
		err = located(loc, &ErrBlockMismatch{Close: ".ELSE"})
		return
	}
	if blk.hasElse {
		err = located(loc, ErrElseDuplicate)
		return
	}

	b.add(Action{Op: OP_JUMP, Location: loc, Jump: blk.end})
	b.target(loc, blk.next)
	blk.next = NO_JUMP
	blk.hasElse = true

	return
}

// EndIf closes the open .IF.
func (b *Builder) EndIf(loc Location) (err error) {
	blk, err := b.close(BLOCK_IF, ".ENDIF")
	if err != nil {
		err = located(loc, err)
		return
	}

	if blk.next != NO_JUMP {
		b.target(loc, blk.next)
	}
	b.target(loc, blk.end)

	return
}

// Repeat opens a block executed count times.
func (b *Builder) Repeat(loc Location, count []Action) (err error) {
	blk := &block{
		kind:     BLOCK_REPEAT,
		location: loc,
		start:    b.ids.Jump(),
		end:      b.ids.Jump(),
		counter:  b.ids.Counter(),
	}

	count, err = b.Expression(loc, count)
	if err != nil {
		return
	}

	b.add(count...)
	b.add(Action{Op: OP_COUNTER_SET, Location: loc, Counter: blk.counter})
	b.target(loc, blk.start)
	b.add(Action{Op: OP_COUNTER_COMPARE, Location: loc, Counter: blk.counter, Jump: blk.end})
	b.blocks = append(b.blocks, blk)

	return
}

// EndRepeat closes the open .REP.
func (b *Builder) EndRepeat(loc Location) (err error) {
	blk, err := b.close(BLOCK_REPEAT, ".ENDREP")
	if err != nil {
		err = located(loc, err)
		return
	}

	b.add(Action{Op: OP_COUNTER_DECREMENT, Location: loc, Counter: blk.counter, Jump: blk.start})
	b.target(loc, blk.end)

	return
}

// While opens a block executed while cond is non-zero.
func (b *Builder) While(loc Location, cond []Action) (err error) {
	blk := &block{
		kind:     BLOCK_WHILE,
		location: loc,
		start:    b.ids.Jump(),
		end:      b.ids.Jump(),
	}

	cond, err = b.Expression(loc, cond)
	if err != nil {
		return
	}

	b.target(loc, blk.start)
	b.add(cond...)
	b.add(Action{Op: OP_JUMP_IF_FALSE, Location: loc, Jump: blk.end})
	b.blocks = append(b.blocks, blk)

	return
}

// EndWhile closes the open .WHILE.
func (b *Builder) EndWhile(loc Location) (err error) {
	blk, err := b.close(BLOCK_WHILE, ".ENDWHILE")
	if err != nil {
		err = located(loc, err)
		return
	}

	b.add(Action{Op: OP_JUMP, Location: loc, Jump: blk.start})
	b.target(loc, blk.end)

	return
}

// Macro opens a macro definition. Definitions are only allowed at the
// top level.
func (b *Builder) Macro(loc Location, name string, params []string) (err error) {
	if len(b.blocks) != 0 {
		err = located(loc, ErrMacroNesting)
		return
	}

	b.blocks = append(b.blocks, &block{
		kind:     BLOCK_MACRO,
		location: loc,
		name:     name,
		params:   params,
		outer:    b.actions,
	})
	b.actions = nil

	return
}

// EndMacro closes the open macro definition.
func (b *Builder) EndMacro(loc Location) (err error) {
	blk, err := b.close(BLOCK_MACRO, ".ENDMACRO")
	if err != nil {
		err = located(loc, err)
		return
	}

	body := b.actions
	b.actions = blk.outer
	b.add(Action{
		Op:       OP_DEFINE_MACRO,
		Location: blk.location,
		Name:     blk.name,
		Params:   blk.params,
		Body:     body,
	})

	return
}

// Call expands a macro. Calls inside a macro body are rejected.
func (b *Builder) Call(loc Location, name string, args [][]Action) (err error) {
	if b.inMacro() {
		err = located(loc, ErrMacroCallInMacro)
		return
	}

	folded := make([][]Action, len(args))
	for n, arg := range args {
		folded[n], err = b.Expression(loc, arg)
		if err != nil {
			return
		}
	}

	b.add(Action{Op: OP_CALL_MACRO, Location: loc, Name: name, Args: folded})

	return
}

// MetaLabel defines a .GOTO target.
func (b *Builder) MetaLabel(loc Location, name string) {
	b.add(Action{Op: OP_META_LABEL, Location: loc, Name: name})
}

// Goto jumps to a .LABEL.
func (b *Builder) Goto(loc Location, name string) {
	b.add(Action{Op: OP_META_GOTO, Location: loc, Name: name})
}

// MessageArg is a message argument: a string, or an expression.
type MessageArg struct {
	Text string
	Expr []Action
}

// Message reports a message on the final pass. An error level message
// aborts the assembly.
func (b *Builder) Message(loc Location, level Level, format bool, args []MessageArg) (err error) {
	act := Action{Op: OP_MESSAGE, Location: loc, Level: level, Format: format}
	for _, arg := range args {
		if arg.Expr == nil {
			act.Args = append(act.Args, []Action{{Op: OP_STRING, Location: loc, Name: arg.Text}})
			continue
		}
		var expr []Action
		expr, err = b.Expression(loc, arg.Expr)
		if err != nil {
			return
		}
		act.Args = append(act.Args, expr)
	}

	b.add(act)

	return
}

// Include splices in another source file.
func (b *Builder) Include(loc Location, name string) (err error) {
	if b.inMacro() {
		err = located(loc, ErrIncludeInMacro)
		return
	}

	b.add(Action{Op: OP_INCLUDE, Location: loc, Name: name})

	return
}

// IncludeBinary stores length bytes of a file after skipping skip bytes.
// A negative length stores the rest of the file.
func (b *Builder) IncludeBinary(loc Location, name string, skip []Action, length []Action) (err error) {
	if b.inMacro() {
		err = located(loc, ErrIncludeInMacro)
		return
	}

	skip, err = b.Expression(loc, skip)
	if err != nil {
		return
	}
	length, err = b.Expression(loc, length)
	if err != nil {
		return
	}

	b.add(Action{Op: OP_INCLUDE_BINARY, Location: loc, Name: name, Args: [][]Action{skip, length}})

	return
}

// Actions returns the lowered sequence. All blocks must be closed.
func (b *Builder) Actions() (acts []Action, err error) {
	blk := b.top()
	if blk != nil {
		err = located(blk.location, ErrBlockUnclosed(blk.kind.String()))
		return
	}

	acts = b.actions

	return
}
