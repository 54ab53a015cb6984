package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/tungetti/wizardnav/internal/errors"
)

// lockRetryInterval is how often a held session lock is retried.
const lockRetryInterval = 100 * time.Millisecond

// SessionLock is an exclusive file lock on one wizard target. Two processes
// driving the same installer page would fight over its forward button.
type SessionLock struct {
	target string
	lock   *flock.Flock
}

// LockPath returns the lock file used for target inside dir.
func LockPath(dir, target string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(target))
	return filepath.Join(dir, id.String()+".lock")
}

// AcquireLock takes the session lock for target, waiting up to timeout for
// another holder to release it. A timeout of zero tries once.
func AcquireLock(ctx context.Context, dir, target string, timeout time.Duration) (*SessionLock, error) {
	const op = "app.AcquireLock"

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.Configuration, "failed to create lock directory", err).WithOp(op)
	}

	path := LockPath(dir, target)
	lock := flock.New(path)

	var (
		locked bool
		err    error
	)
	if timeout <= 0 {
		locked, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		locked, err = lock.TryLockContext(lockCtx, lockRetryInterval)
		if ctxErr := ctx.Err(); ctxErr != nil && !locked {
			return nil, errors.Wrapf(errors.Timeout, ctxErr, "stopped waiting for %s", target).WithOp(op)
		}
		if lockCtx.Err() != nil {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.Wrapf(errors.Locked, err, "failed to lock %s", path).WithOp(op)
	}
	if !locked {
		return nil, errors.Newf(errors.Locked, "another session is driving %s", target).WithOp(op)
	}
	return &SessionLock{target: target, lock: lock}, nil
}

// Target returns the locked target.
func (l *SessionLock) Target() string {
	return l.target
}

// Path returns the lock file path.
func (l *SessionLock) Path() string {
	return l.lock.Path()
}

// Release unlocks the target. It is safe to call more than once.
func (l *SessionLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return errors.Wrap(errors.Locked, "failed to release session lock", err).WithOp("app.SessionLock.Release")
	}
	return nil
}
