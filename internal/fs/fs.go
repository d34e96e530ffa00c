// Package fs provides the filesystem abstraction used by the quest file
// gateway and the single-instance lock.
//
// The main types are:
//   - [FS]: interface for the filesystem operations questbar needs
//   - [Real]: production implementation using the [os] package
//   - [Faulty]: testing implementation that injects failures per operation
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile(path)
//	if err != nil {
//	    return err
//	}
package fs

import (
	"os"
)

// FS defines the filesystem operations questbar performs.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so a crash never leaves a half-written file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
