package io

import (
	"io"
)

const (
	PETSCII_RETURN = 0x0d // Carriage return, the C64 end of line.
)

// Tape is the character device of an emulated program: bytes written with
// CHROUT go to Output, CHRIN reads from Input. The C64 carriage return is
// exchanged with a newline in both directions.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

// Send writes a character to the output stream. Without an output, the
// character is dropped.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		return
	}

	if value == PETSCII_RETURN {
		value = '\n'
	}

	_, err = tc.Output.Write([]byte{value})

	return
}

// Receive reads a character from the input stream. At the end of the input
// ok is false and value is a carriage return.
func (tc *Tape) Receive() (value byte, ok bool) {
	value = PETSCII_RETURN
	if tc.Input == nil {
		return
	}

	var one [1]byte
	_, err := io.ReadFull(tc.Input, one[:])
	if err != nil {
		return
	}

	value = one[0]
	if value == '\n' {
		value = PETSCII_RETURN
	}
	ok = true

	return
}
