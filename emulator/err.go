package emulator

import (
	"errors"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

var (
	ErrJam      = errors.New(f("CPU jammed by KIL opcode"))
	ErrTooLarge = errors.New(f("image does not fit below $FFFF"))
)

// ErrCycleLimit is a run that exceeded its cycle budget.
type ErrCycleLimit uint64

func (err ErrCycleLimit) Error() string {
	return f("exceeded %d cycles", uint64(err))
}

// ErrIllegalOpcode is an undocumented opcode the CPU cannot execute.
type ErrIllegalOpcode byte

func (err ErrIllegalOpcode) Error() string {
	return f("illegal opcode $%02X", byte(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address  uint16
	Location asm.Location
	Err      error
}

func (err *ErrRuntime) Error() string {
	if err.Location.Line == 0 {
		return f("$%04X: %v", err.Address, err.Err)
	}
	return f("$%04X (%v): %v", err.Address, err.Location, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
