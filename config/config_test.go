package config

import (
	"flag"
	"io"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`
output = "game.prg"
emulate = true
include_paths = ["lib", "/usr/share/asm"]
max_cycles = 5000

[defines]
BASE = 4096
DEBUG = 1
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("game.prg", cfg.Output)
	assert.True(cfg.Emulate)
	assert.False(cfg.Verbose)
	assert.Equal([]string{"lib", "/usr/share/asm"}, cfg.IncludePaths)
	assert.Equal(map[string]int64{"BASE": 4096, "DEBUG": 1}, cfg.Defines)
	assert.Equal(uint64(5000), cfg.MaxCycles)

	cfg, err = Parse("")
	if assert.NoError(err) {
		assert.Equal(Default(), cfg)
	}

	_, err = Parse("outptu = \"x\"\n")
	assert.ErrorIs(err, ErrUnknownKey("outptu"))

	_, err = Parse("output = 5\n")
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"proj/asm6510.toml": {Data: []byte("output = \"out/game.prg\"\ninclude_paths = [\"inc\", \"/abs\"]\n")},
		"bad.toml":          {Data: []byte("verbose = \"yes\"\n")},
	}

	cfg, err := Load(fsys, "proj/asm6510.toml")
	if assert.NoError(err) {
		assert.Equal("proj/out/game.prg", cfg.Output)
		assert.Equal("", cfg.Listing)
		assert.Equal([]string{"proj/inc", "/abs"}, cfg.IncludePaths)
	}

	_, err = Load(fsys, "bad.toml")
	assert.ErrorContains(err, "bad.toml")

	_, err = Load(fsys, "none.toml")
	assert.Error(err)
}

func TestParseDefine(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		text  string
		name  string
		value int64
	}{
		{"base=4096", "BASE", 4096},
		{"BASE=$C000", "BASE", 0xc000},
		{"X = 0x10", "X", 16},
		{"M=0b101", "M", 5},
		{"N=-3", "N", -3},
	}

	for _, entry := range table {
		name, value, err := ParseDefine(entry.text)
		if assert.NoError(err, entry.text) {
			assert.Equal(entry.name, name, entry.text)
			assert.Equal(entry.value, value, entry.text)
		}
	}

	_, _, err := ParseDefine("NOVALUE")
	assert.ErrorIs(err, ErrDefineSyntax)

	_, _, err = ParseDefine("=5")
	assert.ErrorIs(err, ErrDefineSyntax)

	_, _, err = ParseDefine("X=zz")
	assert.ErrorIs(err, strconv.ErrSyntax)
}

func TestMerge(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	cfg.Output = "file.prg"
	cfg.Listing = "file.lst"
	cfg.IncludePaths = []string{"lib"}
	cfg.Defines["BASE"] = 1

	cli := Default()
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	cli.Flags(fset)

	err := fset.Parse([]string{"-o", "cli.prg", "-I", "a", "-I", "b", "-D", "base=2", "-D", "X=$10", "-e", "-cycles", "7"})
	if !assert.NoError(err) {
		return
	}

	cfg.Merge(cli, fset)

	assert.Equal("cli.prg", cfg.Output)
	assert.Equal("file.lst", cfg.Listing)
	assert.True(cfg.Emulate)
	assert.Equal([]string{"lib", "a", "b"}, cfg.IncludePaths)
	assert.Equal(map[string]int64{"BASE": 2, "X": 16}, cfg.Defines)
	assert.Equal(uint64(7), cfg.MaxCycles)

	fset.SetOutput(io.Discard)
	err = fset.Parse([]string{"-D", "bad"})
	assert.ErrorContains(err, "NAME=VALUE")
}
