package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	// ErrWouldBlock is returned when a lock is held by another process.
	ErrWouldBlock = errors.New("lock would block")

	// errInodeMismatch is an internal sentinel indicating the lock file was
	// replaced between open and flock. Callers should retry.
	errInodeMismatch = errors.New("inode mismatch")
)

const (
	lockPerms = 0o644
	dirPerms  = 0o755

	lockMaxAttempts = 8
)

// Locker provides non-blocking exclusive file locks using flock(2).
//
// flock is advisory and applies to an inode (an open file), not a pathname.
// Lock a dedicated lock file that is stable on disk and never replace or
// unlink it while a lock may be held.
//
// Locker verifies that the descriptor it locked still refers to the file at
// path when the lock is acquired, protecting the open→lock window.
//
// This implementation is Unix-only.
type Locker struct {
	flock func(fd int, how int) error
}

// NewLocker creates a Locker.
func NewLocker() *Locker {
	return &Locker{flock: unix.Flock}
}

// Lock represents a held file lock. Call [Lock.Close] to release it.
type Lock struct {
	mu    sync.Mutex
	file  *os.File
	flock func(fd int, how int) error
}

// Close releases the lock and closes the underlying file descriptor.
//
// Close is idempotent - calling it multiple times is safe and subsequent calls
// return nil. If both unlocking and closing fail, the returned error wraps
// both (see [errors.Join]).
func (lk *Lock) Close() error {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lk.file == nil {
		return nil
	}

	fd := int(lk.file.Fd())

	unlockErr := flockRetryEINTR(lk.flock, fd, unix.LOCK_UN)
	closeErr := lk.file.Close()
	lk.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking lock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock fd: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

// TryLock attempts to acquire an exclusive lock on path without blocking.
//
// The lock file and its parent directories are created if missing. Returns
// an error satisfying errors.Is(err, [ErrWouldBlock]) when another process
// (or another descriptor in this process) holds the lock.
func (l *Locker) TryLock(path string) (*Lock, error) {
	for range lockMaxAttempts {
		file, err := openLockFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening lockfile: %w", err)
		}

		err = l.acquire(file, path)
		if err == nil {
			return &Lock{file: file, flock: l.flock}, nil
		}

		_ = file.Close()

		if errors.Is(err, errInodeMismatch) {
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w: %s kept changing", ErrWouldBlock, path)
}

func (l *Locker) acquire(file *os.File, path string) error {
	fd := int(file.Fd())

	err := flockRetryEINTR(l.flock, fd, unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("%w: %s", ErrWouldBlock, path)
		}

		return fmt.Errorf("flock %s: %w", path, err)
	}

	same, err := inodeMatchesPath(path, file)
	if err != nil || !same {
		_ = flockRetryEINTR(l.flock, fd, unix.LOCK_UN)

		if err != nil {
			return err
		}

		return errInodeMismatch
	}

	return nil
}

func openLockFile(path string) (*os.File, error) {
	err := os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return nil, err
	}

	return os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPerms)
}

func inodeMatchesPath(path string, f *os.File) (bool, error) {
	var fdStat unix.Stat_t

	err := unix.Fstat(int(f.Fd()), &fdStat)
	if err != nil {
		return false, fmt.Errorf("fstat lockfile: %w", err)
	}

	var pathStat unix.Stat_t

	err = unix.Stat(path, &pathStat)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return false, nil
		}

		return false, fmt.Errorf("stat lockfile: %w", err)
	}

	return fdStat.Dev == pathStat.Dev && fdStat.Ino == pathStat.Ino, nil
}

func flockRetryEINTR(flock func(fd int, how int) error, fd int, how int) error {
	for {
		err := flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
