package asm

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ezrec/asm6510/internal"
)

// Program is the output of a successful assembly.
type Program struct {
	Regions   []Region            // Emitted regions, sorted by start address.
	Labels    map[string]int64    // Final label values.
	Variables map[string]int64    // Final variable values, without the PC.
	Source    map[uint16]Location // Location that emitted each byte.

	unread []string
}

func newProgram(e *Engine) (prog *Program) {
	prog = &Program{
		Regions:   slices.Clone(e.regions),
		Labels:    map[string]int64{},
		Variables: map[string]int64{},
		Source:    map[uint16]Location{},
	}

	slices.SortStableFunc(prog.Regions, func(a, b Region) int {
		return cmp.Compare(a.Start, b.Start)
	})

	for name, v := range e.labels {
		prog.Labels[name] = v.Value
	}

	for name, v := range e.variables {
		if name == PC_NAME {
			continue
		}
		prog.Variables[name] = v.Value
		if !v.WasRead {
			prog.unread = append(prog.unread, name)
		}
	}
	slices.Sort(prog.unread)

	for addr, loc := range e.source {
		prog.Source[addr] = loc
	}

	return
}

// betterName orders candidate names for an address: global names first,
// then shorter names, then lexical order.
func betterName(a, b string) bool {
	ga := !strings.Contains(a, LOCAL_SEP)
	gb := !strings.Contains(b, LOCAL_SEP)
	if ga != gb {
		return ga
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// LabelMap maps each labelled address to its preferred label name.
func (prog *Program) LabelMap() (names map[uint16]string) {
	names = map[uint16]string{}

	for name, value := range prog.Labels {
		addr := uint16(value & 0xffff)
		prev, ok := names[addr]
		if !ok || betterName(name, prev) {
			names[addr] = name
		}
	}

	return
}

// Debug describes an address as label+offset, with its source location
// when known.
func (prog *Program) Debug(addr uint16) string {
	var best string
	var base uint16
	found := false
	for at, name := range prog.LabelMap() {
		if at > addr {
			continue
		}
		if !found || at > base || (at == base && betterName(name, best)) {
			best = name
			base = at
			found = true
		}
	}

	var desc string
	switch {
	case !found:
		desc = fmt.Sprintf("$%04X", addr)
	case base == addr:
		desc = fmt.Sprintf("$%04X <%v>", addr, best)
	default:
		desc = fmt.Sprintf("$%04X <%v+%d>", addr, best, addr-base)
	}

	loc, ok := prog.Source[addr]
	if ok {
		desc += fmt.Sprintf(" (%v)", loc)
	}

	return desc
}

// Symbols yields every label, then every variable, each in name order.
func (prog *Program) Symbols() iter.Seq2[string, int64] {
	return internal.IterSeq2Concat(
		internal.IterSorted(prog.Labels),
		internal.IterSorted(prog.Variables),
	)
}

// Unused returns the variables that were never read, in name order.
func (prog *Program) Unused() []string {
	return prog.unread
}

// Size is the number of emitted bytes.
func (prog *Program) Size() (size int) {
	for _, region := range prog.Regions {
		size += len(region.Bytes)
	}
	return
}

// Start is the lowest emitted address.
func (prog *Program) Start() (start uint16, ok bool) {
	if len(prog.Regions) == 0 {
		return
	}
	start = prog.Regions[0].Start
	ok = true
	return
}
