//go:build !unix

package storage

import (
	"os"
	"path/filepath"

	"github.com/regginator/omniwordlist/errors"
)

// JobLock is an exclusive lock on <dir>/<job id>.lock, taken by creating
// the file exclusively where flock is unavailable.
type JobLock struct {
	path string
	file *os.File
}

// Lock takes the job's lock without blocking.
func Lock(dir, jobID string) (*JobLock, error) {
	if err := validJobID(jobID); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "creating lock directory %s", dir)
	}
	path := filepath.Join(dir, jobID+".lock")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Mark(errors.Newf("job %s is already running", jobID), errors.ErrLocked)
		}
		return nil, errors.WrapKindf(err, errors.ErrStorage, "opening lock %s", path)
	}
	return &JobLock{path: path, file: f}, nil
}

// Unlock releases the lock by removing the file.
func (l *JobLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.file.Close()
	l.file = nil
	return removeIfExists(l.path)
}
