// Package asm implements the resolution engine of the 6510 cross assembler.
//
// Source is lowered by a Builder into a flat sequence of Actions. The
// Assembler resolves includes, expands hygienic macros, gathers symbols, and
// then executes the sequence three times against an Engine: a warm-up pass
// that tolerates forward references, then a first and a final pass that
// must agree. Meta level control flow (.IF, .REP, .WHILE, .GOTO) runs on a
// jump table interpreter, so loops may emit code and data as they go.
//
// Instruction widths are resolved when the operand is constant at build
// time, and otherwise chosen on every pass from the operand value.
package asm
