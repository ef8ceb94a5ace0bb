package emulator

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/link"
	"github.com/ezrec/asm6510/parser"
)

// build assembles source and loads it into a fresh emulator.
func build(t *testing.T, src string) (emu *Emulator, start uint16) {
	t.Helper()

	a := asm.NewAssembler()
	p := &parser.Parser{}
	acts, err := p.Actions(a.IDs(), "emu.s", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	prog, err := a.Assemble(acts)
	if err != nil {
		t.Fatal(err)
	}

	prg, err := link.Prg(prog.Regions)
	if err != nil {
		t.Fatal(err)
	}

	emu = NewEmulator()
	emu.Program = prog
	start, err = emu.Load(prg)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestEmulator_Chrout(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, `
@ = $C000
START:
    ldx #0
_loop:
    lda TEXT,x
    beq _done
    jsr $FFD2
    inx
    bne _loop
_done:
    rts
TEXT:
    .db "HI", 13, 0
`)
	assert.Equal(uint16(0xc000), start)

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	err := emu.Run(context.Background(), start)
	assert.NoError(err)
	assert.Equal("HI\n", output.String())
	assert.NotZero(emu.Cycles())
	assert.Equal(uint16(RETURN_ADDRESS), emu.CPU.Reg.PC)
}

func TestEmulator_Chrin(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, `
@ = $1000
ECHO:
    jsr $FFCF
    cmp #13
    beq DONE
    jsr $FFD2
    jmp ECHO
DONE:
    rts
`)

	output := &bytes.Buffer{}
	emu.Tape.Input = strings.NewReader("ab\ncd")
	emu.Tape.Output = output

	assert.NoError(emu.Run(context.Background(), start))
	assert.Equal("ab", output.String())
}

func TestEmulator_Brk(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, "@ = $1000\n lda #7\n sta $20\n brk\n")

	assert.NoError(emu.Run(context.Background(), start))
	assert.Equal(byte(7), emu.CPU.Reg.A)
	assert.Equal(byte(7), emu.Peek(0x20))
	assert.Equal(uint16(0x1004), emu.CPU.Reg.PC)
}

func TestEmulator_Errors(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, "@ = $1000\nLOOP:\n jmp LOOP\n")
	emu.MaxCycles = 1000

	err := emu.Run(context.Background(), start)
	assert.ErrorIs(err, ErrCycleLimit(1000))
	var re *ErrRuntime
	if assert.ErrorAs(err, &re) {
		assert.Equal(uint16(0x1000), re.Address)
		assert.Equal(asm.Location{File: "emu.s", Line: 3}, re.Location)
	}

	emu, start = build(t, "@ = $1000\n nop\n .db $02\n")
	err = emu.Run(context.Background(), start)
	assert.ErrorIs(err, ErrJam)
	if assert.ErrorAs(err, &re) {
		assert.Equal(uint16(0x1001), re.Address)
	}

	emu, start = build(t, "@ = $1000\n .db $A7, $20\n")
	err = emu.Run(context.Background(), start)
	assert.ErrorIs(err, ErrIllegalOpcode(0xa7))

	_, err = NewEmulator().Load([]byte{0x01})
	assert.ErrorIs(err, link.ErrShortPrg)

	_, err = NewEmulator().Load([]byte{0xff, 0xff, 0x01, 0x02})
	assert.ErrorIs(err, ErrTooLarge)
}

func TestEmulator_Context(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, "@ = $1000\nLOOP:\n jmp LOOP\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.Run(ctx, start)
	assert.ErrorIs(err, context.Canceled)
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	emu, start := build(t, "@ = $1000\nSTART:\n ldx #2\n rts\n")

	logged := &bytes.Buffer{}
	emu.Verbose = true
	emu.Log = log.New(logged, "", 0)

	assert.NoError(emu.Run(context.Background(), start))
	assert.Contains(logged.String(), "1000  A=00 X=00 Y=00 SP=FD  LDX #$02")
	assert.Contains(logged.String(), "RTS")
	assert.Equal(time.Duration(emu.Cycles())*time.Second/PAL_HZ, emu.Elapsed())
	assert.Less(emu.Elapsed(), time.Millisecond)
}
