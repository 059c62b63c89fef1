package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "recap/internal/platform/errors"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPoll    = 25 * time.Millisecond
	staleAfter     = time.Minute
)

// FileLock serializes writers on a shared state file via an exclusive lock
// file. Acquisition is create-with-O_EXCL plus polling, so it works across
// processes without fcntl semantics; a lock older than staleAfter is treated
// as abandoned by a crashed process and broken.
type FileLock struct {
	path    string
	Timeout time.Duration
	Poll    time.Duration
}

func New(path string) *FileLock {
	return &FileLock{path: path, Timeout: defaultTimeout, Poll: defaultPoll}
}

// Acquire blocks until the lock is held, the context is canceled, or Timeout
// elapses. The returned release func is safe to call exactly once.
func (l *FileLock) Acquire(ctx context.Context) (func(), error) {
	deadline := time.Now().Add(l.Timeout)
	for {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(file, "%d\n", os.Getpid())
			file.Close()
			return func() { os.Remove(l.path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if info, statErr := os.Stat(l.path); statErr == nil && time.Since(info.ModTime()) > staleAfter {
			os.Remove(l.path)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLockTimeout, l.path)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Poll):
		}
	}
}
