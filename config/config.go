// Package config holds the options of an assembly run, read from a TOML
// project file and the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

const (
	DEFAULT_MAX_CYCLES = 100_000_000 // About 100 seconds of PAL C64 time.
)

var (
	ErrDefineSyntax = errors.New(f("define must be NAME=VALUE"))
)

// ErrUnknownKey is a key of the project file that no option uses.
type ErrUnknownKey string

func (err ErrUnknownKey) Error() string {
	return f("unknown configuration key '%v'", string(err))
}

// ErrDefine is a malformed -D option.
type ErrDefine struct {
	Text string
	Err  error
}

func (err *ErrDefine) Error() string {
	return f("define '%v': %v", err.Text, err.Err)
}

func (err *ErrDefine) Unwrap() error {
	return err.Err
}

// Config of an assembly run.
type Config struct {
	Output         string           `toml:"output"`          // PRG file to write.
	Listing        string           `toml:"listing"`         // Listing file to write.
	Emulate        bool             `toml:"emulate"`         // Run the program after assembly.
	EmulateVerbose bool             `toml:"emulate_verbose"` // Trace every emulated instruction.
	IncludePaths   []string         `toml:"include_paths"`   // Extra include search directories.
	Defines        map[string]int64 `toml:"defines"`         // Predefined variables.
	Language       string           `toml:"language"`        // Message language, BCP 47.
	MaxCycles      uint64           `toml:"max_cycles"`      // Emulation cycle budget.
	Verbose        bool             `toml:"verbose"`         // Log assembly passes.
}

// Default returns the built in configuration.
func Default() *Config {
	return &Config{
		Defines:   map[string]int64{},
		MaxCycles: DEFAULT_MAX_CYCLES,
	}
}

// Parse decodes a TOML project file over the defaults.
func Parse(text string) (cfg *Config, err error) {
	cfg = Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		cfg = nil
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) != 0 {
		cfg = nil
		err = ErrUnknownKey(undecoded[0].String())
		return
	}

	if cfg.Defines == nil {
		cfg.Defines = map[string]int64{}
	}

	return
}

// Load reads a project file. Relative file names in it are relative to the
// directory of the project file.
func Load(fsys fs.FS, name string) (cfg *Config, err error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return
	}

	cfg, err = Parse(string(data))
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	dir := path.Dir(name)
	rebase := func(name string) string {
		if len(name) == 0 || path.IsAbs(name) {
			return name
		}
		return path.Join(dir, name)
	}

	cfg.Output = rebase(cfg.Output)
	cfg.Listing = rebase(cfg.Listing)
	for n, inc := range cfg.IncludePaths {
		cfg.IncludePaths[n] = rebase(inc)
	}

	return
}

// ParseDefine splits NAME=VALUE. Values are decimal, $hex, 0x, 0o or 0b.
func ParseDefine(text string) (name string, value int64, err error) {
	name, digits, ok := strings.Cut(text, "=")
	name = strings.ToUpper(strings.TrimSpace(name))
	digits = strings.TrimSpace(digits)
	if !ok || len(name) == 0 {
		err = &ErrDefine{Text: text, Err: ErrDefineSyntax}
		return
	}

	base := 0
	if rest, ok := strings.CutPrefix(digits, "$"); ok {
		digits = rest
		base = 16
	}

	value, err = strconv.ParseInt(digits, base, 64)
	if err != nil {
		err = &ErrDefine{Text: text, Err: err}
		return
	}

	return
}

// listValue is a repeatable string flag.
type listValue struct {
	list *[]string
}

func (lv listValue) String() string {
	if lv.list == nil {
		return ""
	}
	return strings.Join(*lv.list, ",")
}

func (lv listValue) Set(text string) error {
	*lv.list = append(*lv.list, text)
	return nil
}

// defineValue is a repeatable NAME=VALUE flag.
type defineValue struct {
	defines *map[string]int64
}

func (dv defineValue) String() string {
	if dv.defines == nil {
		return ""
	}
	var terms []string
	for _, name := range slices.Sorted(maps.Keys(*dv.defines)) {
		terms = append(terms, fmt.Sprintf("%v=%d", name, (*dv.defines)[name]))
	}
	return strings.Join(terms, ",")
}

func (dv defineValue) Set(text string) (err error) {
	name, value, err := ParseDefine(text)
	if err != nil {
		return
	}
	if *dv.defines == nil {
		*dv.defines = map[string]int64{}
	}
	(*dv.defines)[name] = value
	return
}

// Flags registers the command line options on fset, storing into cfg.
func (cfg *Config) Flags(fset *flag.FlagSet) {
	fset.StringVar(&cfg.Output, "o", cfg.Output, "PRG file to write")
	fset.StringVar(&cfg.Listing, "l", cfg.Listing, "Listing file to write")
	fset.BoolVar(&cfg.Emulate, "e", cfg.Emulate, "Emulate the program after assembly")
	fset.BoolVar(&cfg.EmulateVerbose, "ev", cfg.EmulateVerbose, "Trace every emulated instruction")
	fset.Var(listValue{&cfg.IncludePaths}, "I", "Include search directory (repeatable)")
	fset.Var(defineValue{&cfg.Defines}, "D", "Define NAME=VALUE (repeatable)")
	fset.StringVar(&cfg.Language, "lang", cfg.Language, "Message language")
	fset.Uint64Var(&cfg.MaxCycles, "cycles", cfg.MaxCycles, "Emulation cycle limit, 0 for none")
	fset.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose mode")
}

// Merge applies the options of other that were set on fset. Include paths
// are appended and defines are added; every other option replaces.
func (cfg *Config) Merge(other *Config, fset *flag.FlagSet) {
	fset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.Output = other.Output
		case "l":
			cfg.Listing = other.Listing
		case "e":
			cfg.Emulate = other.Emulate
		case "ev":
			cfg.EmulateVerbose = other.EmulateVerbose
		case "I":
			cfg.IncludePaths = append(cfg.IncludePaths, other.IncludePaths...)
		case "D":
			if cfg.Defines == nil {
				cfg.Defines = map[string]int64{}
			}
			maps.Copy(cfg.Defines, other.Defines)
		case "lang":
			cfg.Language = other.Language
		case "cycles":
			cfg.MaxCycles = other.MaxCycles
		case "v":
			cfg.Verbose = other.Verbose
		}
	})
}
