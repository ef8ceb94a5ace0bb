// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package link joins assembled regions into a C64 PRG image.
package link

import (
	"cmp"
	"encoding/binary"
	"errors"
	"slices"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

var (
	ErrEmpty    = errors.New(f("no code generated"))
	ErrShortPrg = errors.New(f("PRG image has no load address"))
)

// ErrOverlap is a region starting below the end of the previous one.
type ErrOverlap uint16

func (err ErrOverlap) Error() string {
	return f("code blocks overlap, conflicting PC $%04X", uint16(err))
}

// PRG_BLOCK is the payload of a disk block.
const PRG_BLOCK = 254

// Stats describes a linked image.
type Stats struct {
	Code    int    // Bytes of code.
	Data    int    // Bytes of data.
	Padding int    // Zero bytes filling gaps between regions.
	Start   uint16 // Load address.
	End     uint16 // Last loaded address.
	Size    int    // PRG size, including the load address.
}

// Blocks is the number of disk blocks the PRG occupies.
func (st Stats) Blocks() int {
	return (st.Size + PRG_BLOCK - 1) / PRG_BLOCK
}

// Image is a contiguous memory image.
type Image struct {
	Start uint16
	Bytes []byte
	Stats Stats
}

// Link places every region at its address, filling gaps with zero.
func Link(regions []asm.Region) (img *Image, err error) {
	regions = slices.DeleteFunc(slices.Clone(regions), func(r asm.Region) bool {
		return len(r.Bytes) == 0
	})
	if len(regions) == 0 {
		err = ErrEmpty
		return
	}

	slices.SortStableFunc(regions, func(a, b asm.Region) int {
		return cmp.Compare(a.Start, b.Start)
	})

	img = &Image{Start: regions[0].Start}
	pc := int(img.Start)
	for _, region := range regions {
		if int(region.Start) < pc {
			img = nil
			err = ErrOverlap(region.Start)
			return
		}
		gap := int(region.Start) - pc
		img.Bytes = append(img.Bytes, make([]byte, gap)...)
		img.Bytes = append(img.Bytes, region.Bytes...)
		img.Stats.Padding += gap
		switch region.Kind {
		case asm.KIND_DATA:
			img.Stats.Data += len(region.Bytes)
		default:
			img.Stats.Code += len(region.Bytes)
		}
		pc = region.End()
	}

	img.Stats.Start = img.Start
	img.Stats.End = uint16(pc - 1)
	img.Stats.Size = len(img.Bytes) + 2

	return
}

// Prg is the image preceded by its little endian load address.
func (img *Image) Prg() (prg []byte) {
	prg = binary.LittleEndian.AppendUint16(nil, img.Start)
	prg = append(prg, img.Bytes...)
	return
}

// Prg links regions into a PRG file.
func Prg(regions []asm.Region) (prg []byte, err error) {
	img, err := Link(regions)
	if err != nil {
		return
	}

	prg = img.Prg()

	return
}

// Load splits a PRG file into its load address and contents.
func Load(prg []byte) (img *Image, err error) {
	if len(prg) < 2 {
		err = ErrShortPrg
		return
	}

	img = &Image{
		Start: binary.LittleEndian.Uint16(prg),
		Bytes: prg[2:],
	}
	img.Stats = Stats{
		Code:  len(img.Bytes),
		Start: img.Start,
		End:   uint16(int(img.Start) + len(img.Bytes) - 1),
		Size:  len(prg),
	}

	return
}
