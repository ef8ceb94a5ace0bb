// Package io reads assembler sources from a file system and writes the
// output files. Tape is the character device of the emulator.
package io

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files and directories.
// Assembly outputs (PRG images, listings) are written through it.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// dirFS is a CreateFS rooted at a host directory.
type dirFS string

// DirFS returns a CreateFS for the host directory dir.
func DirFS(dir string) CreateFS {
	return dirFS(dir)
}

func (dir dirFS) join(name string) string {
	return filepath.Join(string(dir), filepath.FromSlash(name))
}

func (dir dirFS) Sub(name string) (sub CreateFS, err error) {
	full := dir.join(name)
	info, err := os.Stat(full)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = &fs.PathError{Op: "sub", Path: name, Err: ErrNotDir}
		return
	}

	sub = dirFS(full)

	return
}

func (dir dirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(dir.join(name))
}

func (dir dirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.MkdirAll(dir.join(name), filemode)
}

// Save writes data to the file name, creating its directory when missing.
func Save(filesys CreateFS, name string, data []byte) (err error) {
	dir, base := path.Split(name)
	if len(dir) != 0 {
		dir = path.Clean(dir)
		var sub CreateFS
		sub, err = filesys.Sub(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return
			}
			// Create the directory
			err = filesys.Mkdir(dir, 0755)
			if err != nil {
				return
			}
			sub, err = filesys.Sub(dir)
			if err != nil {
				return
			}
		}
		filesys = sub
	}

	file, err := filesys.Create(base)
	if err != nil {
		return
	}

	_, err = file.Write(data)
	close_err := file.Close()
	if err == nil {
		err = close_err
	}

	return
}
