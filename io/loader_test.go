package io

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/parser"
)

func assembleFS(ld *Loader, name string) (prog *asm.Program, err error) {
	a := asm.NewAssembler()
	a.Includer = ld

	acts, err := ld.Source(name, a.IDs())
	if err != nil {
		return
	}

	prog, err = a.Assemble(acts)

	return
}

func TestLoader(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{
		FS: fstest.MapFS{
			"main.s":     {Data: []byte("@ = $1000\n.include \"lib/defs.s\"\n lda #VALUE\n.incbin \"data.bin\", 1, 2\n")},
			"lib/defs.s": {Data: []byte(".include \"more.s\"\n")},
			"lib/more.s": {Data: []byte("VALUE = 7\n")},
			"data.bin":   {Data: []byte{1, 2, 3, 4}},
		},
	}

	prog, err := assembleFS(ld, "main.s")
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]asm.Region{
		{Start: 0x1000, Kind: asm.KIND_CODE, Bytes: []byte{0xa9, 0x07}},
		{Start: 0x1002, Kind: asm.KIND_DATA, Bytes: []byte{0x02, 0x03}},
	}, prog.Regions)
	assert.Equal(int64(7), prog.Variables["VALUE"])
	assert.Equal(asm.Location{File: "main.s", Line: 3}, prog.Source[0x1000])
}

func TestLoader_Paths(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{
		FS: fstest.MapFS{
			"src/main.s": {Data: []byte(".include \"x.s\"\n")},
			"inc/x.s":    {Data: []byte("X = $(BASE + 1)\n")},
		},
		Paths:  []string{"inc"},
		Parser: &parser.Parser{Defines: map[string]int64{"BASE": 41}},
	}

	prog, err := assembleFS(ld, "src/main.s")
	if assert.NoError(err) {
		assert.Equal(int64(42), prog.Variables["X"])
	}
}

func TestLoader_Errors(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{
		FS: fstest.MapFS{
			"a.s":    {Data: []byte(".include \"b.s\"\n")},
			"b.s":    {Data: []byte("\n.include \"a.s\"\n")},
			"bad.s":  {Data: []byte(".include \"none.s\"\n")},
			"blob.s": {Data: []byte(".incbin \"none.bin\"\n")},
		},
	}

	_, err := assembleFS(ld, "a.s")
	assert.ErrorIs(err, ErrIncludeCycle("a.s"))
	var el *asm.ErrLocation
	if assert.ErrorAs(err, &el) {
		assert.Equal(asm.Location{File: "b.s", Line: 2}, el.Location)
	}

	var nf *ErrNotFound
	_, err = assembleFS(ld, "bad.s")
	if assert.ErrorAs(err, &nf) {
		assert.Equal("none.s", nf.Name)
		assert.Equal([]string{"."}, nf.Paths)
	}

	_, err = assembleFS(ld, "blob.s")
	assert.ErrorAs(err, &nf)

	_, err = assembleFS(ld, "missing.s")
	assert.ErrorAs(err, &nf)
}
