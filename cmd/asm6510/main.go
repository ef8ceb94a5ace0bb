// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/config"
	"github.com/ezrec/asm6510/emulator"
	"github.com/ezrec/asm6510/io"
	"github.com/ezrec/asm6510/link"
	"github.com/ezrec/asm6510/listing"
	"github.com/ezrec/asm6510/parser"
	"github.com/ezrec/asm6510/translate"
)

// hostRoot picks the directory the source file system is rooted at: the
// working directory when every name lies below it, else the file system root.
func hostRoot(names ...string) (root string, err error) {
	root, err = os.Getwd()
	if err != nil {
		return
	}

	for _, name := range names {
		abs, abs_err := filepath.Abs(name)
		if abs_err != nil {
			err = abs_err
			return
		}
		rel, rel_err := filepath.Rel(root, abs)
		if rel_err != nil || !filepath.IsLocal(rel) {
			root = string(filepath.Separator)
			return
		}
	}

	return
}

// fsName maps a host path to a slash separated name below root.
func fsName(root, name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// save writes a host file, creating its directory when missing.
func save(name string, data []byte) (err error) {
	root := "."
	if filepath.IsAbs(name) {
		root = filepath.VolumeName(name) + string(filepath.Separator)
		name, err = filepath.Rel(root, name)
		if err != nil {
			return
		}
	}

	err = io.Save(io.DirFS(root), filepath.ToSlash(name), data)

	return
}

// defines lowers -D options to assignments, in name order.
func defines(b *asm.Builder, values map[string]int64) (err error) {
	loc := asm.Location{File: "-D"}
	for _, name := range slices.Sorted(maps.Keys(values)) {
		err = b.Assign(loc, name, []asm.Action{asm.Load(loc, values[name])})
		if err != nil {
			return
		}
	}
	return
}

func main() {
	var cfg_file string

	cli := config.Default()
	cli.Flags(flag.CommandLine)
	flag.StringVar(&cfg_file, "c", "", "TOML project file")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one source file, got %v", os.Args[0], flag.Args())
	}
	source := flag.Arg(0)

	cfg := config.Default()
	if len(cfg_file) != 0 {
		var err error
		dir, base := filepath.Split(cfg_file)
		if len(dir) == 0 {
			dir = "."
		}
		cfg, err = config.Load(os.DirFS(dir), base)
		if err != nil {
			log.Fatalf("%v: %v", cfg_file, err)
		}
		// Relative names in the project file are relative to its directory.
		rebase := func(name string) string {
			if len(name) == 0 || filepath.IsAbs(name) {
				return name
			}
			return filepath.Join(dir, filepath.FromSlash(name))
		}
		cfg.Output = rebase(cfg.Output)
		cfg.Listing = rebase(cfg.Listing)
		for n, inc := range cfg.IncludePaths {
			cfg.IncludePaths[n] = rebase(inc)
		}
	}
	cfg.Merge(cli, flag.CommandLine)

	if len(cfg.Language) != 0 {
		err := translate.SetLanguage(cfg.Language)
		if err != nil {
			log.Fatalf("-lang %v: %v", cfg.Language, err)
		}
	}

	if len(cfg.Output) == 0 {
		cfg.Output = strings.TrimSuffix(source, filepath.Ext(source)) + ".prg"
	}

	root, err := hostRoot(append([]string{source}, cfg.IncludePaths...)...)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	ld := &io.Loader{
		Verbose: cfg.Verbose,
		FS:      os.DirFS(root),
		Parser:  &parser.Parser{Verbose: cfg.Verbose, Defines: cfg.Defines},
	}
	for _, inc := range cfg.IncludePaths {
		name, err := fsName(root, inc)
		if err != nil {
			log.Fatalf("-I %v: %v", inc, err)
		}
		ld.Paths = append(ld.Paths, name)
	}

	main_name, err := fsName(root, source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	assembler := asm.NewAssembler()
	assembler.Verbose = cfg.Verbose
	assembler.Includer = ld

	b := assembler.NewBuilder()
	err = defines(b, cfg.Defines)
	if err != nil {
		log.Fatalf("%v", err)
	}
	acts, err := b.Actions()
	if err != nil {
		log.Fatalf("%v", err)
	}

	src_acts, err := ld.Source(main_name, assembler.IDs())
	if err != nil {
		log.Fatalf("%v", err)
	}
	acts = append(acts, src_acts...)

	prog, err := assembler.Assemble(acts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Verbose {
		for _, name := range prog.Unused() {
			log.Printf("warning: variable '%v' is never read", name)
		}
	}

	img, err := link.Link(prog.Regions)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	prg := img.Prg()

	err = save(cfg.Output, prg)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Output, err)
	}

	if len(cfg.Listing) != 0 {
		text := listing.New(prog).String()
		err = save(cfg.Listing, []byte(text))
		if err != nil {
			log.Fatalf("%v: %v", cfg.Listing, err)
		}
	}

	st := img.Stats
	log.Printf("code: %d bytes, data: %d bytes, padding: %d bytes", st.Code, st.Data, st.Padding)
	log.Printf("%v: $%04X-$%04X, %d bytes, %d blocks", cfg.Output, st.Start, st.End, st.Size, st.Blocks())

	if !cfg.Emulate && !cfg.EmulateVerbose {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = cfg.EmulateVerbose
	emu.MaxCycles = cfg.MaxCycles
	emu.Program = prog
	emu.Tape.Input = os.Stdin
	emu.Tape.Output = os.Stdout

	start, err := emu.Load(prg)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Output, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx, start)
	fmt.Println()
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("emulation: %d cycles, %v", emu.Cycles(), emu.Elapsed())
}
