//go:build unix

package storage

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/regginator/omniwordlist/errors"
)

// JobLock is an exclusive advisory lock on <dir>/<job id>.lock. It
// guards a job against a second concurrent run, including one in
// another process.
type JobLock struct {
	path string
	file *os.File
}

// Lock takes the job's lock without blocking. A lock held elsewhere is
// reported as ErrLocked.
func Lock(dir, jobID string) (*JobLock, error) {
	if err := validJobID(jobID); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "creating lock directory %s", dir)
	}
	path := filepath.Join(dir, jobID+".lock")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "opening lock %s", path)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, errors.WithHint(
				errors.Mark(errors.Newf("job %s is already running", jobID), errors.ErrLocked),
				"wait for the other run to finish",
			)
		}
		return nil, errors.WrapKindf(err, errors.ErrStorage, "locking %s", path)
	}
	return &JobLock{path: path, file: f}, nil
}

// Unlock releases the lock. The lock file is left in place so that the
// inode other waiters opened stays the one being locked.
func (l *JobLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return errors.WrapKind(err, errors.ErrStorage, "closing lock")
}
