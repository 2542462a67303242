package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

func TestCheckpointStore(t *testing.T) {
	store, err := NewCheckpointStore(filepath.Join(t.TempDir(), "checkpoints"))
	require.NoError(t, err)

	missing, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cfg := config.Default()
	cfg.MinLength, cfg.MaxLength = 2, 4
	state := NewCheckpointState("job-1", cfg)
	last := "ab"
	state.Update(&last, 2, 28, 28)
	state.Output = &SinkStats{Lines: 28, Bytes: 84, Parts: 1, PartLines: 28, PartBytes: 84, FileBytes: 84}
	require.NoError(t, store.Save(state))

	got, err := store.Load("job-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "job-1", got.JobID)
	require.NotNil(t, got.LastToken)
	assert.Equal(t, "ab", *got.LastToken)
	assert.Equal(t, uint64(28), got.StartIndex)
	assert.Equal(t, uint64(28), got.TokensGenerated)
	assert.Equal(t, 2, got.CurrentLength)
	assert.Equal(t, 4, got.Config.MaxLength)
	require.NotNil(t, got.Output)
	assert.Equal(t, uint64(84), got.Output.FileBytes)

	ids, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"job-1"}, ids)

	require.NoError(t, store.Delete("job-1"))
	require.NoError(t, store.Delete("job-1"))
	ids, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCheckpointCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCheckpointStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	_, err = store.Load("bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSerialization))
}

func TestCheckpointEmptyLastToken(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(NewCheckpointState("fresh", config.Default())))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "fresh.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"last_token": null`)
}

func TestInvalidJobID(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := store.Load(id)
		assert.True(t, errors.Is(err, errors.ErrStorage), id)
	}
}

func TestJobLifecycle(t *testing.T) {
	store, err := NewJobStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.OutputFile = "out.txt"
	job, err := store.Create(cfg, 475254)
	require.NoError(t, err)
	assert.Equal(t, JobPending, job.Status)
	assert.NotEmpty(t, job.JobID)
	require.NotNil(t, job.OutputFile)

	assert.Error(t, store.Transition(job, JobCompleted, ""))
	require.NoError(t, store.Transition(job, JobRunning, ""))
	require.NoError(t, store.Transition(job, JobFailed, "disk full"))

	loaded, err := store.Load(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, JobFailed, loaded.Status)
	assert.Equal(t, "disk full", loaded.FailureReason)
	assert.Equal(t, uint64(475254), loaded.EstimatedCardinality)
	assert.Equal(t, "out.txt", *loaded.OutputFile)

	require.NoError(t, store.Transition(loaded, JobRunning, ""))
	assert.Empty(t, loaded.FailureReason)
	require.NoError(t, store.Transition(loaded, JobCompleted, ""))
	assert.True(t, loaded.Status.Terminal())
	assert.Error(t, store.Transition(loaded, JobRunning, ""))

	jobs, err := store.List()
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, store.Delete(job.JobID))
	_, err = store.Load(job.JobID)
	assert.True(t, errors.Is(err, errors.ErrStorage))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(JobPending, JobRunning))
	assert.True(t, CanTransition(JobRunning, JobPaused))
	assert.True(t, CanTransition(JobPaused, JobRunning))
	assert.False(t, CanTransition(JobCompleted, JobRunning))
	assert.False(t, CanTransition(JobPending, JobPaused))
}

func TestJobNullOutput(t *testing.T) {
	store, err := NewJobStore(t.TempDir())
	require.NoError(t, err)
	job, err := store.Create(config.Default(), 0)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Dir(), job.JobID+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output_file": null`)
}

func TestLock(t *testing.T) {
	dir := t.TempDir()

	first, err := Lock(dir, "job-1")
	require.NoError(t, err)

	_, err = Lock(dir, "job-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLocked))

	other, err := Lock(dir, "job-2")
	require.NoError(t, err)
	require.NoError(t, other.Unlock())

	require.NoError(t, first.Unlock())
	again, err := Lock(dir, "job-1")
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
	require.NoError(t, again.Unlock())
}
