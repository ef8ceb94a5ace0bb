// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package opcode

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Mode is a 6510 addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMPLIED    = Mode(0)  // imp
	MODE_RELATIVE   = Mode(1)  // rel
	MODE_IMMEDIATE  = Mode(2)  // imm
	MODE_ABSOLUTE   = Mode(3)  // abs
	MODE_ABSOLUTE_X = Mode(4)  // abx
	MODE_ABSOLUTE_Y = Mode(5)  // aby
	MODE_ZEROPAGE   = Mode(6)  // zp
	MODE_ZEROPAGE_X = Mode(7)  // zpx
	MODE_ZEROPAGE_Y = Mode(8)  // zpy
	MODE_INDIRECT   = Mode(9)  // ind
	MODE_INDIRECT_X = Mode(10) // izx
	MODE_INDIRECT_Y = Mode(11) // izy
)

// Size is the number of operand bytes following the opcode byte.
func (mode Mode) Size() int {
	switch mode {
	case MODE_IMPLIED:
		return 0
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y, MODE_INDIRECT:
		return 2
	default:
		return 1
	}
}

// Format an operand in the conventional assembler syntax for the mode.
func (mode Mode) Format(operand string) string {
	switch mode {
	case MODE_IMPLIED:
		return ""
	case MODE_IMMEDIATE:
		return "#" + operand
	case MODE_ABSOLUTE_X, MODE_ZEROPAGE_X:
		return operand + ",X"
	case MODE_ABSOLUTE_Y, MODE_ZEROPAGE_Y:
		return operand + ",Y"
	case MODE_INDIRECT:
		return "(" + operand + ")"
	case MODE_INDIRECT_X:
		return "(" + operand + ",X)"
	case MODE_INDIRECT_Y:
		return "(" + operand + "),Y"
	default:
		return operand
	}
}

// Opcode is a single encoding of an instruction.
type Opcode struct {
	Mnemonic string // Upper case mnemonic.
	Code     byte   // Opcode byte.
	Mode     Mode   // Addressing mode.
	Illegal  bool   // Set for undocumented NMOS opcodes.
}

// Length of the encoded instruction in bytes.
func (op Opcode) Length() int {
	return 1 + op.Mode.Size()
}

func (op Opcode) String() string {
	return fmt.Sprintf("$%02X:%v,%v", op.Code, op.Mnemonic, op.Mode)
}

// Every opcode byte, row major. A leading '*' marks an undocumented opcode.
var matrix = [256]string{
	"BRK", "ORA izx", "*KIL", "*SLO izx", "*NOP zp", "ORA zp", "ASL zp", "*SLO zp", "PHP", "ORA imm", "ASL", "*ANC imm", "*NOP abs", "ORA abs", "ASL abs", "*SLO abs",
	"BPL rel", "ORA izy", "*KIL", "*SLO izy", "*NOP zpx", "ORA zpx", "ASL zpx", "*SLO zpx", "CLC", "ORA aby", "*NOP", "*SLO aby", "*NOP abx", "ORA abx", "ASL abx", "*SLO abx",
	"JSR abs", "AND izx", "*KIL", "*RLA izx", "BIT zp", "AND zp", "ROL zp", "*RLA zp", "PLP", "AND imm", "ROL", "*ANC imm", "BIT abs", "AND abs", "ROL abs", "*RLA abs",
	"BMI rel", "AND izy", "*KIL", "*RLA izy", "*NOP zpx", "AND zpx", "ROL zpx", "*RLA zpx", "SEC", "AND aby", "*NOP", "*RLA aby", "*NOP abx", "AND abx", "ROL abx", "*RLA abx",
	"RTI", "EOR izx", "*KIL", "*SRE izx", "*NOP zp", "EOR zp", "LSR zp", "*SRE zp", "PHA", "EOR imm", "LSR", "*ALR imm", "JMP abs", "EOR abs", "LSR abs", "*SRE abs",
	"BVC rel", "EOR izy", "*KIL", "*SRE izy", "*NOP zpx", "EOR zpx", "LSR zpx", "*SRE zpx", "CLI", "EOR aby", "*NOP", "*SRE aby", "*NOP abx", "EOR abx", "LSR abx", "*SRE abx",
	"RTS", "ADC izx", "*KIL", "*RRA izx", "*NOP zp", "ADC zp", "ROR zp", "*RRA zp", "PLA", "ADC imm", "ROR", "*ARR imm", "JMP ind", "ADC abs", "ROR abs", "*RRA abs",
	"BVS rel", "ADC izy", "*KIL", "*RRA izy", "*NOP zpx", "ADC zpx", "ROR zpx", "*RRA zpx", "SEI", "ADC aby", "*NOP", "*RRA aby", "*NOP abx", "ADC abx", "ROR abx", "*RRA abx",
	"*NOP imm", "STA izx", "*NOP imm", "*SAX izx", "STY zp", "STA zp", "STX zp", "*SAX zp", "DEY", "*NOP imm", "TXA", "*XAA imm", "STY abs", "STA abs", "STX abs", "*SAX abs",
	"BCC rel", "STA izy", "*KIL", "*AHX izy", "STY zpx", "STA zpx", "STX zpy", "*SAX zpy", "TYA", "STA aby", "TXS", "*TAS aby", "*SHY abx", "STA abx", "*SHX aby", "*AHX aby",
	"LDY imm", "LDA izx", "LDX imm", "*LAX izx", "LDY zp", "LDA zp", "LDX zp", "*LAX zp", "TAY", "LDA imm", "TAX", "*LAX imm", "LDY abs", "LDA abs", "LDX abs", "*LAX abs",
	"BCS rel", "LDA izy", "*KIL", "*LAX izy", "LDY zpx", "LDA zpx", "LDX zpy", "*LAX zpy", "CLV", "LDA aby", "TSX", "*LAS aby", "LDY abx", "LDA abx", "LDX aby", "*LAX aby",
	"CPY imm", "CMP izx", "*NOP imm", "*DCP izx", "CPY zp", "CMP zp", "DEC zp", "*DCP zp", "INY", "CMP imm", "DEX", "*AXS imm", "CPY abs", "CMP abs", "DEC abs", "*DCP abs",
	"BNE rel", "CMP izy", "*KIL", "*DCP izy", "*NOP zpx", "CMP zpx", "DEC zpx", "*DCP zpx", "CLD", "CMP aby", "*NOP", "*DCP aby", "*NOP abx", "CMP abx", "DEC abx", "*DCP abx",
	"CPX imm", "SBC izx", "*NOP imm", "*ISC izx", "CPX zp", "SBC zp", "INC zp", "*ISC zp", "INX", "SBC imm", "NOP", "*SBC imm", "CPX abs", "SBC abs", "INC abs", "*ISC abs",
	"BEQ rel", "SBC izy", "*KIL", "*ISC izy", "*NOP zpx", "SBC zpx", "INC zpx", "*ISC zpx", "SED", "SBC aby", "*NOP", "*ISC aby", "*NOP abx", "SBC abx", "INC abx", "*ISC abx",
}

var (
	byCode [256]Opcode
	byName = map[string]map[Mode]Opcode{}
)

func init() {
	modes := map[string]Mode{}
	for mode := MODE_IMPLIED; mode <= MODE_INDIRECT_Y; mode++ {
		modes[mode.String()] = mode
	}

	for code, entry := range matrix {
		op := Opcode{Code: byte(code)}
		if strings.HasPrefix(entry, "*") {
			op.Illegal = true
			entry = entry[1:]
		}

		words := strings.Fields(entry)
		op.Mnemonic = words[0]
		if len(words) > 1 {
			mode, ok := modes[words[1]]
			if !ok {
				panic(fmt.Sprintf("opcode $%02X: corrupt mode %q", code, words[1]))
			}
			op.Mode = mode
		}

		byCode[code] = op

		variants, ok := byName[op.Mnemonic]
		if !ok {
			variants = map[Mode]Opcode{}
			byName[op.Mnemonic] = variants
		}

		// Documented encodings win, then the lowest opcode byte.
		prior, ok := variants[op.Mode]
		if !ok || (prior.Illegal && !op.Illegal) {
			variants[op.Mode] = op
		}
	}
}

// ByCode returns the opcode for a byte.
func ByCode(code byte) Opcode {
	return byCode[code]
}

// IsMnemonic is true if the name is a known mnemonic.
func IsMnemonic(name string) (ok bool) {
	_, ok = byName[strings.ToUpper(name)]
	return
}

// Lookup returns the encoding of a mnemonic in an addressing mode.
func Lookup(mnemonic string, mode Mode) (op Opcode, ok bool) {
	op, ok = byName[strings.ToUpper(mnemonic)][mode]
	return
}

// Has is true if the mnemonic has an encoding for the mode.
func Has(mnemonic string, mode Mode) (ok bool) {
	_, ok = Lookup(mnemonic, mode)
	return
}

// IsBranch is true for mnemonics that only have a relative encoding.
func IsBranch(mnemonic string) bool {
	variants := byName[strings.ToUpper(mnemonic)]
	_, ok := variants[MODE_RELATIVE]
	return ok && len(variants) == 1
}

// Modes returns the addressing modes of a mnemonic, in mode order.
func Modes(mnemonic string) []Mode {
	return slices.Sorted(maps.Keys(byName[strings.ToUpper(mnemonic)]))
}

// Mnemonics iterates over all mnemonics, in alphabetical order.
func Mnemonics() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(byName)))
}
