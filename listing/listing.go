// Package listing renders assembled regions as a disassembly and hex dump.
package listing

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/opcode"
)

// Disassemble decodes the instruction at the start of code, located at pc.
// Operand addresses with a label are shown by name. Size is zero when code
// is shorter than the instruction.
func Disassemble(pc uint16, code []byte, labels map[uint16]string) (text string, size int) {
	if len(code) == 0 {
		return
	}

	op := opcode.ByCode(code[0])
	if op.Length() > len(code) {
		return
	}
	size = op.Length()

	name := func(addr uint16, digits int) string {
		label, ok := labels[addr]
		if ok {
			return label
		}
		return fmt.Sprintf("$%0*X", digits, addr)
	}

	var operand string
	switch op.Mode {
	case opcode.MODE_IMPLIED:
	case opcode.MODE_IMMEDIATE:
		operand = fmt.Sprintf("$%02X", code[1])
	case opcode.MODE_RELATIVE:
		operand = name(uint16(int(pc)+2+int(int8(code[1]))), 4)
	case opcode.MODE_ZEROPAGE, opcode.MODE_ZEROPAGE_X, opcode.MODE_ZEROPAGE_Y,
		opcode.MODE_INDIRECT_X, opcode.MODE_INDIRECT_Y:
		operand = name(uint16(code[1]), 2)
	default:
		operand = name(binary.LittleEndian.Uint16(code[1:]), 4)
	}

	text = op.Mnemonic
	if op.Illegal {
		text = "*" + text
	}
	if op.Mode != opcode.MODE_IMPLIED {
		text += " " + op.Mode.Format(operand)
	}

	return
}

// Listing of a program.
type Listing struct {
	Regions []asm.Region
	Labels  map[uint16]string        // Label shown at each address.
	Source  map[uint16]asm.Location  // Optional source of each instruction.
	Symbols iter.Seq2[string, int64] // Optional symbol table.
}

// New creates the listing of an assembled program.
func New(prog *asm.Program) *Listing {
	return &Listing{
		Regions: prog.Regions,
		Labels:  prog.LabelMap(),
		Source:  prog.Source,
		Symbols: prog.Symbols(),
	}
}

func hexBytes(data []byte) string {
	var parts []string
	for _, b := range data {
		parts = append(parts, fmt.Sprintf("%02X", b))
	}
	return strings.Join(parts, " ")
}

func (l *Listing) label(sb *strings.Builder, addr int) {
	name, ok := l.Labels[uint16(addr)]
	if ok {
		fmt.Fprintf(sb, "%v:\n", name)
	}
}

func (l *Listing) code(sb *strings.Builder, region *asm.Region) {
	data := region.Bytes
	for pc := 0; pc < len(data); {
		addr := int(region.Start) + pc
		l.label(sb, addr)

		text, size := Disassemble(uint16(addr), data[pc:], l.Labels)
		if size == 0 {
			var items []string
			for _, b := range data[pc:] {
				items = append(items, fmt.Sprintf("$%02X", b))
			}
			text = ".DB " + strings.Join(items, ", ")
			size = len(data) - pc
		}

		line := fmt.Sprintf(" %04X  %-8s  %s", addr, hexBytes(data[pc:pc+size]), text)
		loc, ok := l.Source[uint16(addr)]
		if ok {
			line += "  ; " + loc.String()
		}
		sb.WriteString(line)
		sb.WriteByte('\n')

		pc += size
	}
}

func (l *Listing) data(sb *strings.Builder, region *asm.Region) {
	data := region.Bytes
	for pc := 0; pc < len(data); {
		addr := int(region.Start) + pc
		l.label(sb, addr)

		skip := addr & 15
		todo := min(len(data)-pc, 16-skip)
		for n := 1; n < todo; n++ {
			_, ok := l.Labels[uint16(addr+n)]
			if ok {
				todo = n
				break
			}
		}

		fmt.Fprintf(sb, " %04X ", addr&^15)
		sb.WriteString(strings.Repeat(".. ", skip))
		for _, b := range data[pc : pc+todo] {
			fmt.Fprintf(sb, "%02X ", b)
		}
		sb.WriteString(strings.Repeat(".. ", 16-todo-skip))
		sb.WriteString(" | ")
		sb.WriteString(strings.Repeat(" ", skip))
		for _, b := range data[pc : pc+todo] {
			if b < 32 || b > 127 {
				b = '.'
			}
			sb.WriteByte(b)
		}
		sb.WriteByte('\n')

		pc += todo
	}
}

func (l *Listing) String() string {
	var sb strings.Builder

	for n := range l.Regions {
		region := &l.Regions[n]
		fmt.Fprintf(&sb, "; %v\n", region)
		switch region.Kind {
		case asm.KIND_DATA:
			l.data(&sb, region)
		default:
			l.code(&sb, region)
		}
		sb.WriteByte('\n')
	}

	if l.Symbols != nil {
		sb.WriteString("; symbols\n")
		for name, value := range l.Symbols {
			if value >= 0 && value <= 0xffff {
				fmt.Fprintf(&sb, "%v = $%04X\n", name, value)
			} else {
				fmt.Fprintf(&sb, "%v = %d\n", name, value)
			}
		}
	}

	return sb.String()
}

// WriteTo writes the listing.
func (l *Listing) WriteTo(w io.Writer) (n int64, err error) {
	written, err := io.WriteString(w, l.String())
	n = int64(written)
	return
}
