package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by LockDatabase when another process holds the lock.
var ErrLocked = errors.New("database is in use by another dishhub server")

// LockDatabase takes an exclusive lock on path + ".lock" so that only one server
// imports seed fixtures into a database at a time. The returned function
// releases the lock. In-memory databases are not locked.
func LockDatabase(path string) (func(), error) {
	if path == "" || path == ":memory:" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	l := flock.New(path + ".lock")
	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock database: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, l.Path())
	}
	return func() { _ = l.Unlock() }, nil
}

// DatabaseSize returns the bytes used by the database at path together with its
// write-ahead log and shared-memory companions. Missing files count as zero.
func DatabaseSize(path string) (int64, error) {
	if path == "" || path == ":memory:" {
		return 0, nil
	}
	var total int64
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
		}
	}
	return total, nil
}
