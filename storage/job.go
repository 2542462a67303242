package storage

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/logger"
)

// JobStatus is a state of the job lifecycle.
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
	JobPaused    JobStatus = "Paused"
)

// transitions lists the states each state may move to. Paused and
// Failed jobs can be resumed.
var transitions = map[JobStatus][]JobStatus{
	JobPending: {JobRunning, JobFailed},
	JobRunning: {JobCompleted, JobFailed, JobPaused},
	JobPaused:  {JobRunning, JobFailed},
	JobFailed:  {JobRunning},
}

// CanTransition reports whether a job may move from one state to another.
func CanTransition(from, to JobStatus) bool {
	return slices.Contains(transitions[from], to)
}

// Terminal reports whether no further run is expected.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted
}

// JobMetadata describes one generation job.
type JobMetadata struct {
	JobID                string        `json:"job_id"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	Config               config.Config `json:"config"`
	Status               JobStatus     `json:"status"`
	FailureReason        string        `json:"failure_reason,omitempty"`
	TokensCount          uint64        `json:"tokens_count"`
	OutputFile           *string       `json:"output_file"`
	EstimatedCardinality uint64        `json:"estimated_cardinality"`
}

// JobStore keeps job records as <dir>/<job id>.json.
type JobStore struct {
	dir string
}

// NewJobStore creates dir if needed.
func NewJobStore(dir string) (*JobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "creating job directory %s", dir)
	}
	return &JobStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *JobStore) Dir() string { return s.dir }

func (s *JobStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create registers a new pending job under a fresh id.
func (s *JobStore) Create(cfg config.Config, estimate uint64) (*JobMetadata, error) {
	now := time.Now().UTC()
	job := &JobMetadata{
		JobID:                uuid.NewString(),
		CreatedAt:            now,
		UpdatedAt:            now,
		Config:               cfg,
		Status:               JobPending,
		EstimatedCardinality: estimate,
	}
	if cfg.OutputFile != "" {
		out := cfg.OutputFile
		job.OutputFile = &out
	}
	if err := s.Save(job); err != nil {
		return nil, err
	}
	logger.Infow("Created job",
		logger.FieldJobID, job.JobID,
		logger.FieldTotalCount, estimate,
	)
	return job, nil
}

// Save writes a job record atomically.
func (s *JobStore) Save(job *JobMetadata) error {
	if err := validJobID(job.JobID); err != nil {
		return err
	}
	return writeJSONAtomic(s.path(job.JobID), job)
}

// Load reads a job record. A missing job is a storage error.
func (s *JobStore) Load(id string) (*JobMetadata, error) {
	if err := validJobID(id); err != nil {
		return nil, err
	}
	var job JobMetadata
	found, err := readJSON(s.path(id), &job)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Storagef("job %s not found", id)
	}
	return &job, nil
}

// List returns every job record, oldest first.
func (s *JobStore) List() ([]*JobMetadata, error) {
	ids, err := listJSON(s.dir)
	if err != nil {
		return nil, err
	}
	jobs := make([]*JobMetadata, 0, len(ids))
	for _, id := range ids {
		job, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	slices.SortFunc(jobs, func(a, b *JobMetadata) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return jobs, nil
}

// Transition moves a job to status, recording reason for failures, and
// saves it. Moves the lifecycle does not allow are rejected.
func (s *JobStore) Transition(job *JobMetadata, status JobStatus, reason string) error {
	if !CanTransition(job.Status, status) {
		return errors.Storagef("job %s cannot move from %s to %s", job.JobID, job.Status, status)
	}
	job.Status = status
	job.FailureReason = ""
	if status == JobFailed {
		job.FailureReason = reason
	}
	job.UpdatedAt = time.Now().UTC()
	logger.Debugw("Job status changed",
		logger.FieldJobID, job.JobID,
		logger.FieldStatus, string(status),
	)
	return s.Save(job)
}

// Delete removes a job record.
func (s *JobStore) Delete(id string) error {
	if err := validJobID(id); err != nil {
		return err
	}
	return removeIfExists(s.path(id))
}
