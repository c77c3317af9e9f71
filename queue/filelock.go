package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const lockRetry = 200 * time.Millisecond

// FileLock serializes runs of a group across processes sharing a working tree.
type FileLock struct {
	path string
	file *os.File
}

func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock waits until the lock is free or ctx ends.
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock {%s}: %w", l.path, err)
	}

	for {
		locked, err := tryLock(file)
		if err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to lock {%s}: %w", l.path, err)
		}
		if locked {
			l.file = file
			return nil
		}

		select {
		case <-ctx.Done():
			_ = file.Close()
			return ctx.Err()
		case <-time.After(lockRetry):
		}
	}
}

func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := unlock(file); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}
