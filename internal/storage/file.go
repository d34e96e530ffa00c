// Package storage persists quest state as a single JSON document.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/questbar/internal/fs"
	"github.com/calvinalkan/questbar/internal/quest"
)

// FileName is the fixed name of the quest file inside the data directory.
const FileName = "questbar-quests.json"

const (
	filePerms = 0o644
	dirPerms  = 0o755
)

// Error variables for quest file operations.
var (
	ErrMalformed = errors.New("malformed quest file")
	ErrRead      = errors.New("cannot read quest file")
	ErrWrite     = errors.New("cannot write quest file")
)

// File is the quest file gateway. It implements [quest.Gateway].
type File struct {
	fs   fs.FS
	path string
}

// NewFile returns a gateway for the quest file at path. Panics if fsys is nil.
func NewFile(fsys fs.FS, path string) *File {
	if fsys == nil {
		panic("fs is nil")
	}

	return &File{fs: fsys, path: path}
}

// InDir returns a gateway for [FileName] inside dir.
func InDir(fsys fs.FS, dir string) *File {
	return NewFile(fsys, filepath.Join(dir, FileName))
}

// Path returns the quest file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the quest file.
//
// A missing file yields [quest.Default] and no error. An unreadable or
// malformed file also yields [quest.Default], together with an error
// wrapping [ErrRead] or [ErrMalformed]. Comments and trailing commas left
// by hand edits are accepted.
func (f *File) Load() (quest.State, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return quest.Default(), nil
		}

		return quest.Default(), fmt.Errorf("%w %s: %w", ErrRead, f.path, err)
	}

	st, err := Decode(data)
	if err != nil {
		return quest.Default(), fmt.Errorf("%w %s: %w", ErrMalformed, f.path, err)
	}

	return st, nil
}

// Save overwrites the quest file with st, atomically.
func (f *File) Save(st quest.State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, f.path, err)
	}

	err = f.fs.MkdirAll(filepath.Dir(f.path), dirPerms)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, f.path, err)
	}

	err = f.fs.WriteFileAtomic(f.path, data, filePerms)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, f.path, err)
	}

	return nil
}

// Encode renders st as JSON indented with two spaces and a trailing newline.
func Encode(st quest.State) ([]byte, error) {
	st = st.Clone()

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(st)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a quest file. Input may be JSONC.
func Decode(data []byte) (quest.State, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return quest.State{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var st quest.State

	err = json.Unmarshal(standardized, &st)
	if err != nil {
		return quest.State{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return st.Clone(), nil
}

// Compile-time interface check.
var _ quest.Gateway = (*File)(nil)
