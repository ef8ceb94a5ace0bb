// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"io/fs"
	"log"
	"path"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/parser"
)

// Loader reads source and binary files for the assembler from a file
// system. Names are looked up relative to the including file first, then
// in each of the search paths.
type Loader struct {
	Verbose bool           // If set, log each file read.
	FS      fs.FS          // File system to read from.
	Paths   []string       // Search directories.
	Parser  *parser.Parser // Parser for source files, may be nil.

	parent map[string]string
}

var _ asm.Includer = &Loader{}

// resolve finds the file system path of name.
func (ld *Loader) resolve(name string, from asm.Location) (resolved string, err error) {
	dirs := []string{"."}
	if len(from.File) != 0 {
		dirs[0] = path.Dir(from.File)
	}
	dirs = append(dirs, ld.Paths...)

	for _, dir := range dirs {
		candidate := path.Join(dir, name)
		if !fs.ValidPath(candidate) {
			continue
		}
		_, err = fs.Stat(ld.FS, candidate)
		if err == nil {
			resolved = candidate
			return
		}
	}

	err = &ErrNotFound{Name: name, Paths: dirs}

	return
}

// Source parses the top level source file.
func (ld *Loader) Source(name string, ids *asm.IDs) (acts []asm.Action, err error) {
	return ld.Include(name, asm.Location{}, ids)
}

// Include parses a source file included from a location.
func (ld *Loader) Include(name string, from asm.Location, ids *asm.IDs) (acts []asm.Action, err error) {
	resolved, err := ld.resolve(name, from)
	if err != nil {
		return
	}

	for at := from.File; len(at) != 0; at = ld.parent[at] {
		if at == resolved {
			err = ErrIncludeCycle(resolved)
			return
		}
	}

	if ld.parent == nil {
		ld.parent = map[string]string{}
	}
	ld.parent[resolved] = from.File

	file, err := ld.FS.Open(resolved)
	if err != nil {
		return
	}
	defer file.Close()

	if ld.Verbose {
		log.Printf("%v: reading %v", from, resolved)
	}

	p := ld.Parser
	if p == nil {
		p = &parser.Parser{}
	}

	acts, err = p.Actions(ids, resolved, file)

	return
}

// Binary reads a whole binary file included from a location.
func (ld *Loader) Binary(name string, from asm.Location) (data []byte, err error) {
	resolved, err := ld.resolve(name, from)
	if err != nil {
		return
	}

	if ld.Verbose {
		log.Printf("%v: reading %v", from, resolved)
	}

	data, err = fs.ReadFile(ld.FS, resolved)

	return
}
