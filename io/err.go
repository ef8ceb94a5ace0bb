package io

import (
	"errors"
	"strings"

	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

var (
	ErrNotDir = errors.New(f("not a directory"))
)

// ErrIncludeCycle is a file that includes itself, directly or not.
type ErrIncludeCycle string

func (err ErrIncludeCycle) Error() string {
	return f("'%v' includes itself", string(err))
}

// ErrNotFound is a file missing from every search directory.
type ErrNotFound struct {
	Name  string
	Paths []string
}

func (err *ErrNotFound) Error() string {
	return f("'%v' not found in %v", err.Name, strings.Join(err.Paths, ", "))
}
