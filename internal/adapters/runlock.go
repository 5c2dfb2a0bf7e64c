package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gofrs/flock"

	"depsync/internal/ports"
)

// FlockRunLock is a filesystem advisory lock colocated with the
// manifest. Acquire uses a non-blocking try: a held lock means another
// run is in progress and this run must abort with no side effects.
type FlockRunLock struct {
	lock *flock.Flock
}

func NewFlockRunLock(path string) *FlockRunLock {
	return &FlockRunLock{lock: flock.New(path)}
}

func (l *FlockRunLock) Acquire() error {
	acquired, err := l.lock.TryLock()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to acquire run lock").
			WithCause(err)
	}
	if !acquired {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg("another run holds the manifest lock")
	}
	return nil
}

func (l *FlockRunLock) Release() error {
	return l.lock.Unlock()
}

var _ ports.RunLockPort = (*FlockRunLock)(nil)
