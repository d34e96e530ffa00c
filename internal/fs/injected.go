package fs

import (
	"errors"
	"os"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  string
	Err error
}

// Error returns the operation and the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

// Op names an [FS] method for fault injection.
type Op string

// Operations that [Faulty] can fail.
const (
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpMkdirAll        Op = "mkdirall"
	OpExists          Op = "exists"
)

// Faulty wraps an [FS] and fails selected operations on demand.
//
// Failures are sticky until cleared with [Faulty.Heal]. Faulty is safe for
// concurrent use.
type Faulty struct {
	inner FS

	mu    sync.Mutex
	fail  map[Op]error
	calls map[Op]int
}

// NewFaulty wraps inner. Panics if inner is nil.
func NewFaulty(inner FS) *Faulty {
	if inner == nil {
		panic("fs is nil")
	}

	return &Faulty{
		inner: inner,
		fail:  make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// Fail makes every subsequent call to op return err wrapped in [InjectedError].
// A nil err uses [os.ErrPermission].
func (f *Faulty) Fail(op Op, err error) {
	if err == nil {
		err = os.ErrPermission
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail[op] = err
}

// Heal clears all injected failures.
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.fail)
}

// Calls returns how many times op was invoked, including failed calls.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

func (f *Faulty) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	err, ok := f.fail[op]
	if !ok {
		return nil
	}

	return &InjectedError{Op: string(op), Err: err}
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
