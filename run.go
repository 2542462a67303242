package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/generator"
	"github.com/regginator/omniwordlist/logger"
	"github.com/regginator/omniwordlist/storage"
)

var runFlags genFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a wordlist as a resumable job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runFlags.resolve(cmd)
		if err != nil {
			return err
		}
		return startJob(cmd.Context(), cfg)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <job id>",
	Short: "Continue a paused or failed job from its last checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resumeJob(cmd.Context(), args[0])
	},
}

func init() {
	runFlags.register(runCmd.Flags(), true)
}

func jobStore() (*storage.JobStore, error) {
	return storage.NewJobStore(filepath.Join(stateDir, "jobs"))
}

func checkpointStore(cfg config.Config) (*storage.CheckpointStore, error) {
	dir := cfg.CheckpointDir
	if dir == "" {
		dir = filepath.Join(stateDir, "checkpoints")
	}
	return storage.NewCheckpointStore(dir)
}

// withDetectedCompression fills in the codec of a file output from its
// extension when none was asked for.
func withDetectedCompression(cfg config.Config) config.Config {
	out := cfg.OutputFile
	if cfg.Compression == "" && out != "" && out != "-" && !storage.IsRemote(out) {
		cfg.Compression = storage.DetectCompression(out).String()
	}
	return cfg
}

func startJob(ctx context.Context, cfg config.Config) error {
	cfg = withDetectedCompression(cfg)

	// Configuration and naming mistakes fail here, before a job exists
	probe, err := generator.New(cfg, generator.Options{})
	if err != nil {
		return err
	}
	estimate, err := probe.Source().Count()
	if err != nil {
		return err
	}

	jobs, err := jobStore()
	if err != nil {
		return err
	}
	job, err := jobs.Create(cfg, estimate)
	if err != nil {
		return err
	}
	pterm.Info.WithWriter(os.Stderr).Printf("Job %s (%s tokens)\n", job.JobID, humanize.Comma(int64(min(estimate, 1<<62))))
	return executeJob(ctx, jobs, job, nil)
}

func resumeJob(ctx context.Context, id string) error {
	jobs, err := jobStore()
	if err != nil {
		return err
	}
	job, err := jobs.Load(id)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return errors.WithHint(
			errors.Storagef("job %s is already %s", id, job.Status),
			"start a new job with `omni run`",
		)
	}

	checkpoints, err := checkpointStore(job.Config)
	if err != nil {
		return err
	}
	state, err := checkpoints.Load(id)
	if err != nil {
		return err
	}
	if state == nil {
		logger.Warnw("No checkpoint found, restarting job", logger.FieldJobID, id)
	} else {
		pterm.Info.WithWriter(os.Stderr).Printf("Resuming job %s at length %d, %s tokens done\n",
			id, state.CurrentLength, humanize.Comma(int64(min(state.TokensGenerated, 1<<62))))
	}
	return executeJob(ctx, jobs, job, state)
}

// executeJob runs a job under its lock and records how it ended: an
// interrupt pauses it, any other error fails it.
func executeJob(ctx context.Context, jobs *storage.JobStore, job *storage.JobMetadata, resume *storage.CheckpointState) error {
	lock, err := storage.Lock(jobs.Dir(), job.JobID)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// holding the lock, a Running record can only be left by a killed process
	if job.Status == storage.JobRunning {
		logger.Warnw("Job was not shut down cleanly, resuming from its last checkpoint",
			logger.FieldJobID, job.JobID,
		)
		if err := jobs.Transition(job, storage.JobPaused, ""); err != nil {
			return err
		}
	}

	fail := func(err error) error {
		if terr := jobs.Transition(job, storage.JobFailed, err.Error()); terr != nil {
			logger.Errorw("Failed to record job failure", logger.FieldJobID, job.JobID, logger.FieldError, terr.Error())
		}
		return err
	}

	cfg := job.Config
	checkpoints, err := checkpointStore(cfg)
	if err != nil {
		return fail(err)
	}

	var done uint64
	if resume != nil {
		done = resume.TokensGenerated
	}
	total := job.EstimatedCardinality
	if cfg.MaxLines > 0 {
		total = min(total, cfg.MaxLines)
	}
	bar := startProgress(total, done)
	defer bar.stop()

	gen, err := generator.New(cfg, generator.Options{
		JobID:       job.JobID,
		Checkpoints: checkpoints,
		Resume:      resume,
		Progress:    bar.update,
	})
	if err != nil {
		return fail(err)
	}
	if err := jobs.Transition(job, storage.JobRunning, ""); err != nil {
		return err
	}

	var output *storage.SinkStats
	if resume != nil {
		output = resume.Output
	}
	sink, err := storage.Open(ctx, cfg, resume != nil, output)
	if err != nil {
		return fail(err)
	}
	stats, runErr := gen.Run(ctx, sink)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	bar.update(stats)
	bar.stop()

	job.TokensCount = stats.Generated

	switch {
	case runErr == nil:
		if err := jobs.Transition(job, storage.JobCompleted, ""); err != nil {
			return err
		}
	case errors.Is(runErr, context.Canceled):
		if err := jobs.Transition(job, storage.JobPaused, ""); err != nil {
			return err
		}
		pterm.Warning.WithWriter(os.Stderr).Printf("Interrupted, resume with `omni resume %s`\n", job.JobID)
		return nil
	default:
		return fail(runErr)
	}

	summary := pterm.Success.WithWriter(os.Stderr)
	summary.Printf("Wrote %s tokens in %s (%s generated, %s duplicates, %s filtered)\n",
		humanize.Comma(int64(stats.Written)),
		stats.Duration.Round(time.Millisecond),
		humanize.Comma(int64(stats.Generated)),
		humanize.Comma(int64(stats.Duplicates)),
		humanize.Comma(int64(stats.Filtered)),
	)
	if stats.LimitReached {
		pterm.Info.WithWriter(os.Stderr).Println("Output limit reached")
	}
	return nil
}
