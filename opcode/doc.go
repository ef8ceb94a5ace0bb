// Package opcode is the MOS 6510 instruction table.
//
// Every one of the 256 opcode bytes is decoded, including the undocumented
// NMOS opcodes. Lookups by mnemonic prefer the documented encoding when an
// undocumented duplicate exists (for example NOP or SBC #imm).
package opcode
