// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"log"
	"time"

	"github.com/beevik/go6502/cpu"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/io"
	"github.com/ezrec/asm6510/link"
	"github.com/ezrec/asm6510/listing"
	"github.com/ezrec/asm6510/opcode"
)

const (
	PAL_HZ         = 985248 // C64 PAL clock, in Hz.
	KERNAL_CHROUT  = 0xffd2 // Write the accumulator to the current output.
	KERNAL_CHRIN   = 0xffcf // Read a character into the accumulator.
	RETURN_ADDRESS = 0x0000 // Where the final RTS of a program lands.
	STACK_TOP      = 0xff

	OPCODE_BRK = 0x00
	OPCODE_RTS = 0x60

	CONTEXT_POLL = 1024 // Steps between checks of the run context.
)

// Emulator runs an assembled program on an NMOS 6502 with a minimal
// KERNAL: CHROUT and CHRIN are routed to the Tape.
type Emulator struct {
	Verbose   bool         // If set, log every instruction.
	Log       *log.Logger  // Destination of verbose output, or the standard logger.
	MaxCycles uint64       // Cycle budget of a run, unlimited if zero.
	Tape      io.Tape      // Character device.
	Program   *asm.Program // Optional; source locations and labels for errors and tracing.

	CPU *cpu.CPU

	mem    *cpu.FlatMemory
	labels map[uint16]string
}

// NewEmulator creates an emulator with 64K of zeroed RAM.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		mem: cpu.NewFlatMemory(),
	}
	emu.CPU = cpu.NewCPU(cpu.NMOS, emu.mem)

	emu.mem.StoreByte(KERNAL_CHROUT, OPCODE_RTS)
	emu.mem.StoreByte(KERNAL_CHRIN, OPCODE_RTS)

	return
}

func (emu *Emulator) logger() *log.Logger {
	if emu.Log != nil {
		return emu.Log
	}
	return log.Default()
}

// Load copies a PRG file to its load address, returning that address.
func (emu *Emulator) Load(prg []byte) (start uint16, err error) {
	img, err := link.Load(prg)
	if err != nil {
		return
	}

	if int(img.Start)+len(img.Bytes) > 0x10000 {
		err = ErrTooLarge
		return
	}

	emu.mem.StoreBytes(img.Start, img.Bytes)
	start = img.Start

	return
}

// Call prepares a JSR to start from the return sentinel, and clears the
// cycle counter.
func (emu *Emulator) Call(start uint16) {
	// RTS adds one to the popped address.
	ret := uint16(RETURN_ADDRESS)
	ret--

	emu.CPU.Reg.SP = STACK_TOP
	emu.push(byte(ret >> 8))
	emu.push(byte(ret))
	emu.CPU.SetPC(start)
	emu.CPU.Cycles = 0
}

func (emu *Emulator) push(value byte) {
	emu.mem.StoreByte(0x100|uint16(emu.CPU.Reg.SP), value)
	emu.CPU.Reg.SP--
}

// Location returns the source location of an address, when known.
func (emu *Emulator) Location(addr uint16) (loc asm.Location) {
	if emu.Program != nil {
		loc = emu.Program.Source[addr]
	}
	return
}

func (emu *Emulator) trace(pc uint16) {
	if emu.labels == nil {
		emu.labels = map[uint16]string{}
		if emu.Program != nil {
			emu.labels = emu.Program.LabelMap()
		}
	}

	code := make([]byte, 3)
	for n := range code {
		code[n] = emu.mem.LoadByte(pc + uint16(n))
	}
	text, _ := listing.Disassemble(pc, code, emu.labels)

	reg := &emu.CPU.Reg
	emu.logger().Printf("%04X  A=%02X X=%02X Y=%02X SP=%02X  %v", pc, reg.A, reg.X, reg.Y, reg.SP, text)
}

// Step executes a single instruction. done is set when the program returns
// to the sentinel or executes BRK.
func (emu *Emulator) Step() (done bool, err error) {
	pc := emu.CPU.Reg.PC
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, Location: emu.Location(pc), Err: err}
		}
	}()

	switch pc {
	case RETURN_ADDRESS:
		done = true
		return
	case KERNAL_CHROUT:
		err = emu.Tape.Send(emu.CPU.Reg.A)
		if err != nil {
			return
		}
	case KERNAL_CHRIN:
		emu.CPU.Reg.A, _ = emu.Tape.Receive()
	}

	op := opcode.ByCode(emu.mem.LoadByte(pc))
	switch {
	case op.Code == OPCODE_BRK:
		done = true
		return
	case op.Mnemonic == "KIL":
		err = ErrJam
		return
	case op.Illegal:
		err = ErrIllegalOpcode(op.Code)
		return
	}

	if emu.Verbose {
		emu.trace(pc)
	}

	emu.CPU.Step()

	if emu.MaxCycles != 0 && emu.CPU.Cycles > emu.MaxCycles {
		err = ErrCycleLimit(emu.MaxCycles)
		return
	}

	return
}

// Run calls start and steps until the program finishes, fails, or the
// context is done.
func (emu *Emulator) Run(ctx context.Context, start uint16) (err error) {
	emu.Call(start)

	for n := 0; ; n++ {
		if n%CONTEXT_POLL == 0 {
			err = ctx.Err()
			if err != nil {
				return
			}
		}

		var done bool
		done, err = emu.Step()
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		emu.logger().Printf("emulation: %d cycles, %v", emu.Cycles(), emu.Elapsed())
	}

	return
}

// Cycles since the last Call.
func (emu *Emulator) Cycles() uint64 {
	return emu.CPU.Cycles
}

// Elapsed is the run time of the cycles on a PAL C64.
func (emu *Emulator) Elapsed() time.Duration {
	return time.Duration(emu.CPU.Cycles) * time.Second / PAL_HZ
}

// Peek reads a byte of emulated memory.
func (emu *Emulator) Peek(addr uint16) byte {
	return emu.mem.LoadByte(addr)
}
