package asm

import (
	"fmt"
)

// Kind of bytes held by a region.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_CODE = Kind(0) // code
	KIND_DATA = Kind(1) // data
)

// Region is a contiguous run of emitted bytes of a single kind.
type Region struct {
	Start uint16
	Kind  Kind
	Bytes []byte
}

// End is the address one past the last byte, which may be $10000.
func (r *Region) End() int {
	return int(r.Start) + len(r.Bytes)
}

// Contains is true if the address is inside the region.
func (r *Region) Contains(addr uint16) bool {
	return int(addr) >= int(r.Start) && int(addr) < r.End()
}

func (r *Region) String() string {
	return fmt.Sprintf("%v $%04X-$%04X", r.Kind, r.Start, r.End()-1)
}

// append a byte, failing past the top of memory.
func (r *Region) append(value byte) (err error) {
	if r.End() >= 0x10000 {
		err = ErrRegionOverflow
		return
	}

	r.Bytes = append(r.Bytes, value)

	return
}
