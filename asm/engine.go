// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/asm6510/opcode"
)

// Pass of the assembly pipeline.
type Pass int

//go:generate go tool stringer -linecomment -type=Pass
const (
	PASS_INCLUDE = Pass(0) // include
	PASS_MACRO   = Pass(1) // macro
	PASS_GATHER  = Pass(2) // gather
	PASS_WARMUP  = Pass(3) // warm-up
	PASS_FIRST   = Pass(4) // first
	PASS_FINAL   = Pass(5) // final
)

const (
	PC_NAME    = "@"     // Name of the program counter variable.
	LOCAL_SEP  = "$$"    // Separates a parent label from a local name.
	JUMP_LIMIT = 1 << 24 // Maximum taken jumps in one pass.
	NO_JUMP    = -1      // No pending jump.
)

// Engine is the mutable state of one assembly run.
type Engine struct {
	Verbose bool        // If set, logs symbol and emission details.
	Log     *log.Logger // Destination of .INFO and .WARN messages.

	pass      Pass
	strict    bool
	variables map[string]*Variable
	labels    map[string]*Variable
	pc        *Variable
	stack     Stack
	regions   []Region
	parent    string

	jump     int
	jumps    int
	counters []int64

	unresolved bool
	loc        Location
	source     map[uint16]Location
}

// NewEngine creates an engine with empty symbol tables.
func NewEngine() (e *Engine) {
	e = &Engine{
		variables: map[string]*Variable{},
		labels:    map[string]*Variable{},
		pc:        &Variable{},
		source:    map[uint16]Location{},
		jump:      NO_JUMP,
	}

	e.variables[PC_NAME] = e.pc

	return
}

// Pass returns the pass in progress.
func (e *Engine) Pass() Pass {
	return e.pass
}

// Final is true during the authoritative last pass.
func (e *Engine) Final() bool {
	return e.pass == PASS_FINAL
}

// Strict is true when reads of uninitialized symbols are errors.
func (e *Engine) Strict() bool {
	return e.strict
}

// begin resets the per-pass state. Symbol tables survive.
func (e *Engine) begin(pass Pass) {
	e.pass = pass
	e.strict = pass >= PASS_FIRST
	e.pc.Reset()
	e.stack.Reset()
	e.regions = nil
	e.parent = ""
	e.jump = NO_JUMP
	e.jumps = 0
	e.unresolved = false
	if pass == PASS_FINAL {
		clear(e.source)
	}
}

func (e *Engine) logger() *log.Logger {
	if e.Log == nil {
		return log.Default()
	}
	return e.Log
}

// Push a value onto the arithmetic stack.
func (e *Engine) Push(value int64) (err error) {
	return e.stack.Push(value)
}

// Pop a value from the arithmetic stack.
func (e *Engine) Pop() (value int64, err error) {
	return e.stack.Pop()
}

// operand marks the start of a new expression when the stack is empty.
func (e *Engine) operand() {
	if e.stack.Depth() == 0 {
		e.unresolved = false
	}
}

// Eval runs an expression and pops its result.
func (e *Engine) Eval(expr []Action) (value int64, err error) {
	for n := range expr {
		err = expr[n].Run(e)
		if err != nil {
			err = located(expr[n].Location, err)
			return
		}
	}

	value, err = e.Pop()

	return
}

func isLocal(name string) bool {
	return strings.HasPrefix(name, "_")
}

// isParent is true for labels that scope the local names after them.
func isParent(name string, synthetic bool) bool {
	return !synthetic && !isLocal(name) && !strings.Contains(name, LOCAL_SEP)
}

// qualify resolves a local name against a parent label.
func qualify(name string, parent string) (full string, err error) {
	if !isLocal(name) {
		full = name
		return
	}

	if len(parent) == 0 {
		err = ErrLocalWithoutParent(name)
		return
	}

	full = parent + LOCAL_SEP + name

	return
}

// lookup finds a variable, then a label.
func (e *Engine) lookup(name string) (v *Variable, full string, err error) {
	full, err = qualify(name, e.parent)
	if err != nil {
		return
	}

	v, ok := e.variables[full]
	if !ok {
		v, ok = e.labels[full]
	}
	if !ok {
		err = ErrUndefined(full)
	}

	return
}

// Get reads a variable or label.
func (e *Engine) Get(name string) (value int64, err error) {
	v, full, err := e.lookup(name)
	if err != nil {
		return
	}

	if !v.Initialized {
		if e.strict {
			err = ErrUninitialized(full)
			return
		}
		e.unresolved = true
	}

	value = v.Get()

	return
}

// Set assigns a variable. Labels cannot be assigned.
func (e *Engine) Set(name string, value int64) (err error) {
	full, err := qualify(name, e.parent)
	if err != nil {
		return
	}

	v, ok := e.variables[full]
	if !ok {
		err = ErrUndefined(full)
		return
	}

	if full == PC_NAME {
		value &= 0xffff
	}

	v.Set(value)

	return
}

// SetLabel sets a label to the PC. A global label becomes the parent of
// the local names that follow it. A synthetic label is set to 0 when the
// PC is not yet set.
func (e *Engine) SetLabel(name string, synthetic bool) (err error) {
	full, err := qualify(name, e.parent)
	if err != nil {
		return
	}

	v, ok := e.labels[full]
	if !ok {
		err = ErrUndefined(full)
		return
	}

	var pc uint16
	if synthetic && !e.pc.Initialized {
		pc = 0
	} else {
		pc, err = e.PC()
		if err != nil {
			return
		}
	}

	v.Set(int64(pc))

	if isParent(name, synthetic) {
		e.parent = full
	}

	if e.Verbose && e.Final() {
		e.logger().Printf("%v: %v = $%04X", e.loc, full, pc)
	}

	return
}

// declareVariable registers a variable during symbol gathering.
func (e *Engine) declareVariable(name string, parent string) (err error) {
	if name == PC_NAME {
		return
	}

	full, err := qualify(name, parent)
	if err != nil {
		return
	}

	_, ok := e.labels[full]
	if ok {
		err = ErrConflict(full)
		return
	}

	_, ok = e.variables[full]
	if !ok {
		e.variables[full] = &Variable{}
	}

	return
}

// declareLabel registers a label during symbol gathering, returning the
// parent for the names that follow.
func (e *Engine) declareLabel(name string, synthetic bool, parent string) (next string, err error) {
	next = parent

	full, err := qualify(name, parent)
	if err != nil {
		return
	}

	_, ok := e.variables[full]
	if ok {
		err = ErrConflict(full)
		return
	}

	_, ok = e.labels[full]
	if ok {
		err = ErrDuplicateLabel(full)
		return
	}

	e.labels[full] = &Variable{}

	if isParent(name, synthetic) {
		next = full
	}

	return
}

// PC returns the program counter.
func (e *Engine) PC() (pc uint16, err error) {
	if !e.pc.Initialized {
		err = ErrPcUnset
		return
	}

	pc = uint16(e.pc.Value & 0xffff)

	return
}

func (e *Engine) incPC() (err error) {
	pc, err := e.PC()
	if err != nil {
		return
	}

	next := (int64(pc) + 1) & 0xffff
	e.pc.Set(next)
	if next == 0 {
		err = ErrPcWrap
	}

	return
}

// emit one byte into the region of the given kind at the PC.
func (e *Engine) emit(value int64, kind Kind) (err error) {
	pc, err := e.PC()
	if err != nil {
		return
	}

	var region *Region
	if len(e.regions) > 0 {
		region = &e.regions[len(e.regions)-1]
	}

	if region == nil || region.Kind != kind || region.End() != int(pc) {
		e.regions = append(e.regions, Region{Start: pc, Kind: kind})
		region = &e.regions[len(e.regions)-1]
	}

	err = region.append(byte(value))
	if err != nil {
		return
	}

	if e.Final() {
		e.source[pc] = e.loc
	}

	err = e.incPC()

	return
}

// EmitByte emits a code byte.
func (e *Engine) EmitByte(value int64) error {
	return e.emit(value, KIND_CODE)
}

// EmitWord emits a little-endian code word.
func (e *Engine) EmitWord(value int64) (err error) {
	err = e.emit(value, KIND_CODE)
	if err != nil {
		return
	}
	err = e.emit(value>>8, KIND_CODE)
	return
}

// EmitDataByte emits a data byte.
func (e *Engine) EmitDataByte(value int64) error {
	return e.emit(value, KIND_DATA)
}

// EmitDataWord emits a little-endian data word.
func (e *Engine) EmitDataWord(value int64) (err error) {
	err = e.emit(value, KIND_DATA)
	if err != nil {
		return
	}
	err = e.emit(value>>8, KIND_DATA)
	return
}

// Regions returns the regions emitted so far in this pass.
func (e *Engine) Regions() []Region {
	return e.regions
}

// counter returns a loop counter of the running pass.
func (e *Engine) counter(id int) (c *int64, err error) {
	if id < 0 || id >= len(e.counters) {
		err = ErrCounterUnknown(id)
		return
	}

	c = &e.counters[id]

	return
}

// Jump requests that execution continue at the target of a jump id.
func (e *Engine) Jump(id int) {
	e.jump = id
}

// writeBytes emits a slice of an included binary as data. The length and
// skip are on the stack; a negative length means to the end.
func (e *Engine) writeBytes(data []byte) (err error) {
	length, err := e.Pop()
	if err != nil {
		return
	}
	skip, err := e.Pop()
	if err != nil {
		return
	}

	skip = min(max(skip, 0), int64(len(data)))
	data = data[skip:]
	if length >= 0 && length < int64(len(data)) {
		data = data[:length]
	}

	for _, b := range data {
		err = e.EmitDataByte(int64(b))
		if err != nil {
			return
		}
	}

	return
}

// width picks the zero page or absolute encoding from the operand value.
func width(mnemonic string, index Index, addr int64) (op opcode.Opcode, err error) {
	small := addr < 256

	var mode opcode.Mode
	switch index {
	case INDEX_X:
		mode = opcode.MODE_ABSOLUTE_X
		if small {
			mode = opcode.MODE_ZEROPAGE_X
		}
	case INDEX_Y:
		mode = opcode.MODE_ABSOLUTE_Y
		if small {
			mode = opcode.MODE_ZEROPAGE_Y
		}
	default:
		mode = opcode.MODE_ABSOLUTE
		if small {
			mode = opcode.MODE_ZEROPAGE
		}
	}

	op, ok := opcode.Lookup(mnemonic, mode)
	if !ok {
		err = ErrIllegalMode
	}

	return
}

// assembleWidth encodes an instruction whose width depends on its operand.
func (e *Engine) assembleWidth(mnemonic string, index Index) (err error) {
	value, err := e.Peek()
	if err != nil {
		return
	}

	op, err := width(mnemonic, index, value&0xffff)
	if err != nil {
		return
	}

	err = e.assemble(op)

	return
}

// Peek returns the top of the arithmetic stack.
func (e *Engine) Peek() (value int64, err error) {
	return e.stack.Peek()
}

// assemble encodes an instruction with a fixed addressing mode.
func (e *Engine) assemble(op opcode.Opcode) (err error) {
	var operand int64
	if op.Mode != opcode.MODE_IMPLIED {
		operand, err = e.Pop()
		if err != nil {
			return
		}
	}

	err = e.EmitByte(int64(op.Code))
	if err != nil {
		return
	}

	switch op.Mode {
	case opcode.MODE_IMPLIED:
	case opcode.MODE_RELATIVE:
		var pc uint16
		pc, err = e.PC()
		if err != nil {
			return
		}
		var disp int64
		if e.pass > PASS_WARMUP || !e.unresolved {
			disp = (operand & 0xffff) - (int64(pc) + 1)
			if disp < -128 || disp > 127 {
				err = ErrBranchReach(disp)
				return
			}
		}
		err = e.EmitByte(disp)
	default:
		if op.Mode.Size() == 2 {
			err = e.EmitWord(operand)
		} else {
			err = e.EmitByte(operand)
		}
	}

	return
}

// message prints or raises a user message, on the final pass only.
func (e *Engine) message(act *Action) (err error) {
	if !e.Final() {
		return
	}

	var args []any
	for _, arg := range act.Args {
		if len(arg) == 1 && arg[0].Op == OP_STRING {
			args = append(args, arg[0].Name)
			continue
		}
		var value int64
		value, err = e.Eval(arg)
		if err != nil {
			return
		}
		args = append(args, value)
	}

	var text string
	if act.Format {
		if len(args) == 0 {
			err = ErrMessageFormat
			return
		}
		format, ok := args[0].(string)
		if !ok {
			err = ErrMessageFormat
			return
		}
		text = fmt.Sprintf(format, args[1:]...)
	} else {
		var sb strings.Builder
		for _, arg := range args {
			switch arg := arg.(type) {
			case string:
				sb.WriteString(arg)
			case int64:
				sb.WriteString(strconv.FormatInt(arg, 10))
			}
		}
		text = sb.String()
	}

	switch act.Level {
	case LEVEL_ERROR:
		err = ErrUser(text)
	default:
		e.logger().Printf("%v: %v: %v", act.Location, act.Level, text)
	}

	return
}
