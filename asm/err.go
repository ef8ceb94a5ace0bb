package asm

import (
	"errors"

	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

var (
	// Evaluation errors
	ErrStackEmpty   = errors.New(f("arithmetic stack underrun"))
	ErrStackFull    = errors.New(f("arithmetic stack overflow"))
	ErrDivideByZero = errors.New(f("division by zero"))
	ErrPcUnset      = errors.New(f("PC(@) not set"))

	// Encoding errors
	ErrIllegalMode    = errors.New(f("illegal addressing mode"))
	ErrPcWrap         = errors.New(f("@ wrapped from $FFFF->$0000"))
	ErrRegionOverflow = errors.New(f("region overflow past $FFFF"))

	// Structural errors
	ErrMacroNesting     = errors.New(f(".MACRO definitions only allowed at top level"))
	ErrMacroCallInMacro = errors.New(f(".CALL inside .MACRO is forbidden"))
	ErrIncludeInMacro   = errors.New(f(".INCLUDE inside .MACRO is forbidden"))
	ErrElseDuplicate    = errors.New(f("duplicate .ELSE in .IF"))
	ErrElifAfterElse    = errors.New(f(".ELIF after .ELSE"))
	ErrMetaAction       = errors.New(f("meta action executed"))
	ErrNoIncluder       = errors.New(f("no include resolver configured"))
	ErrIncludeDepth     = errors.New(f("includes nested too deep"))
	ErrLoopLimit        = errors.New(f("meta loop limit exceeded"))
	ErrNotConverged     = errors.New(f("output changed between the last two passes"))
	ErrMessageFormat    = errors.New(f("formatted message needs a format string"))
)

// ErrUndefined is a read or write of a name that is neither a variable nor a label.
type ErrUndefined string

func (err ErrUndefined) Error() string {
	return f("undefined variable or label '%v'", string(err))
}

// ErrUninitialized is a read of a symbol that was never assigned.
type ErrUninitialized string

func (err ErrUninitialized) Error() string {
	return f("read access to uninitialized variable '%v'", string(err))
}

// ErrDuplicateLabel is a label defined twice.
type ErrDuplicateLabel string

func (err ErrDuplicateLabel) Error() string {
	return f("duplicate label '%v'", string(err))
}

// ErrConflict is a name used both as a variable and as a label.
type ErrConflict string

func (err ErrConflict) Error() string {
	return f("'%v' is used as both a variable and a label", string(err))
}

// ErrLocalWithoutParent is a local name with no preceding global label.
type ErrLocalWithoutParent string

func (err ErrLocalWithoutParent) Error() string {
	return f("local name '%v' used without parent label", string(err))
}

// ErrUnknownMetaLabel is a .GOTO to an undefined .LABEL.
type ErrUnknownMetaLabel string

func (err ErrUnknownMetaLabel) Error() string {
	return f("unknown .LABEL '%v'", string(err))
}

// ErrDuplicateMetaLabel is a .LABEL defined twice.
type ErrDuplicateMetaLabel string

func (err ErrDuplicateMetaLabel) Error() string {
	return f("duplicate .LABEL '%v'", string(err))
}

// ErrMacroUnknown is a call of an undefined macro.
type ErrMacroUnknown string

func (err ErrMacroUnknown) Error() string {
	return f("unknown macro '%v'", string(err))
}

// ErrMacroDuplicate is a macro defined twice.
type ErrMacroDuplicate string

func (err ErrMacroDuplicate) Error() string {
	return f("duplicate macro definition for '%v'", string(err))
}

// ErrMnemonic is an unknown instruction mnemonic.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

// ErrJumpUnknown is a jump to an id without a target.
type ErrJumpUnknown int

func (err ErrJumpUnknown) Error() string {
	return f("jump target %d unknown", int(err))
}

// ErrCounterUnknown is a loop counter id outside the compiled program.
type ErrCounterUnknown int

func (err ErrCounterUnknown) Error() string {
	return f("loop counter %d unknown", int(err))
}

// ErrBranchReach is a relative branch displacement outside -128..127.
type ErrBranchReach int64

func (err ErrBranchReach) Error() string {
	return f("branch out of reach: %d", int64(err))
}

// ErrUser is raised by .ERROR and .ERRORF.
type ErrUser string

func (err ErrUser) Error() string {
	return string(err)
}

// ErrBlockMismatch is a block terminator that does not match the open block.
type ErrBlockMismatch struct {
	Open  string // Open block directive, or empty if none.
	Close string // Terminating directive.
}

func (err *ErrBlockMismatch) Error() string {
	if len(err.Open) == 0 {
		return f("%v without opening block", err.Close)
	}
	return f("%v inside %v block", err.Close, err.Open)
}

// ErrBlockUnclosed is a block still open at the end of input.
type ErrBlockUnclosed string

func (err ErrBlockUnclosed) Error() string {
	return f("%v block not terminated", string(err))
}

// ErrMacroArgs is a macro call with the wrong number of arguments.
type ErrMacroArgs struct {
	Macro    string
	Expected int
	Got      int
}

func (err *ErrMacroArgs) Error() string {
	return f("macro '%v' argument count mismatch, expected %d, got %d", err.Macro, err.Expected, err.Got)
}

// ErrLocation attaches a source location to an error.
type ErrLocation struct {
	Location
	Err error
}

func (err *ErrLocation) Error() string {
	return f("%v: %v", err.Location, err.Err)
}

func (err *ErrLocation) Unwrap() error {
	return err.Err
}

// ErrMacro attaches a macro call site to an error raised inside its expansion.
type ErrMacro struct {
	Macro string
	Call  Location
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("%v: in macro %v: %v", err.Call, err.Macro, err.Err)
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}

// located wraps an error with a location, unless it already carries one.
func located(loc Location, err error) error {
	if err == nil {
		return nil
	}

	var el *ErrLocation
	if errors.As(err, &el) {
		return err
	}

	return &ErrLocation{Location: loc, Err: err}
}
