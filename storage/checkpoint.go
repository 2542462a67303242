package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

// CheckpointState is a resumable snapshot of enumeration progress.
// StartIndex is the rank, within CurrentLength, of the next token to
// enumerate.
type CheckpointState struct {
	JobID           string        `json:"job_id"`
	Timestamp       time.Time     `json:"timestamp"`
	Config          config.Config `json:"config"`
	LastToken       *string       `json:"last_token"`
	TokensGenerated uint64        `json:"tokens_generated"`
	CurrentLength   int           `json:"current_length"`
	StartIndex      uint64        `json:"start_index"`
	// Output is where the sink stood when the checkpoint was taken.
	Output *SinkStats `json:"output,omitempty"`
}

// NewCheckpointState returns an empty snapshot for a job.
func NewCheckpointState(jobID string, cfg config.Config) CheckpointState {
	return CheckpointState{
		JobID:     jobID,
		Timestamp: time.Now().UTC(),
		Config:    cfg,
	}
}

// Update records progress up to last, the most recent token written.
func (s *CheckpointState) Update(last *string, length int, next uint64, generated uint64) {
	s.LastToken = last
	s.CurrentLength = length
	s.StartIndex = next
	s.TokensGenerated = generated
	s.Timestamp = time.Now().UTC()
}

// CheckpointStore keeps one checkpoint file per job id in a directory.
type CheckpointStore struct {
	dir string
}

// NewCheckpointStore creates dir if needed.
func NewCheckpointStore(dir string) (*CheckpointStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "creating checkpoint directory %s", dir)
	}
	return &CheckpointStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *CheckpointStore) Dir() string { return s.dir }

func validJobID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return errors.Storagef("invalid job id %q", id)
	}
	return nil
}

func (s *CheckpointStore) path(jobID string) string {
	return filepath.Join(s.dir, jobID+".json")
}

// Save atomically replaces the job's checkpoint.
func (s *CheckpointStore) Save(state CheckpointState) error {
	if err := validJobID(state.JobID); err != nil {
		return err
	}
	return writeJSONAtomic(s.path(state.JobID), state)
}

// Load returns the job's checkpoint, or nil when none exists. A
// checkpoint that exists but does not parse is a serialization error.
func (s *CheckpointStore) Load(jobID string) (*CheckpointState, error) {
	if err := validJobID(jobID); err != nil {
		return nil, err
	}
	var state CheckpointState
	found, err := readJSON(s.path(jobID), &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// List returns the job ids that have a checkpoint.
func (s *CheckpointStore) List() ([]string, error) {
	return listJSON(s.dir)
}

// Delete removes the job's checkpoint. Deleting a missing one is not an error.
func (s *CheckpointStore) Delete(jobID string) error {
	if err := validJobID(jobID); err != nil {
		return err
	}
	return removeIfExists(s.path(jobID))
}
