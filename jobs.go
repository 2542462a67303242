package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/logger"
	"github.com/regginator/omniwordlist/storage"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect generation jobs",
}

func statusStyle(s storage.JobStatus) string {
	switch s {
	case storage.JobCompleted:
		return pterm.Green(string(s))
	case storage.JobFailed:
		return pterm.Red(string(s))
	case storage.JobPaused:
		return pterm.Yellow(string(s))
	case storage.JobRunning:
		return pterm.LightCyan(string(s))
	default:
		return string(s)
	}
}

func outputName(job *storage.JobMetadata) string {
	if job.OutputFile == nil {
		return "stdout"
	}
	return *job.OutputFile
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := jobStore()
		if err != nil {
			return err
		}
		list, err := jobs.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			pterm.Info.Println("No jobs yet")
			return nil
		}
		rows := pterm.TableData{{"Job", "Status", "Tokens", "Output", "Created"}}
		for _, job := range list {
			rows = append(rows, []string{
				job.JobID,
				statusStyle(job.Status),
				humanize.Comma(int64(min(job.TokensCount, 1<<62))),
				outputName(job),
				humanize.Time(job.CreatedAt),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job id>",
	Short: "Print a job record and its checkpoint as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := jobStore()
		if err != nil {
			return err
		}
		job, err := jobs.Load(args[0])
		if err != nil {
			return err
		}
		checkpoints, err := checkpointStore(job.Config)
		if err != nil {
			return err
		}
		state, err := checkpoints.Load(job.JobID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Job        *storage.JobMetadata     `json:"job"`
			Checkpoint *storage.CheckpointState `json:"checkpoint"`
		}{job, state})
	},
}

var jobsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print job status changes as they happen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := jobStore()
		if err != nil {
			return err
		}
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.WrapKind(err, errors.ErrStorage, "failed to create fsnotify watcher")
		}
		defer watcher.Close()
		if err := watcher.Add(jobs.Dir()); err != nil {
			return errors.WrapKindf(err, errors.ErrStorage, "failed to watch %s", jobs.Dir())
		}

		seen := make(map[string]storage.JobStatus)
		if list, err := jobs.List(); err == nil {
			for _, job := range list {
				seen[job.JobID] = job.Status
			}
		}
		pterm.Info.Printf("Watching %s (ctrl+c to stop)\n", jobs.Dir())

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".json") || !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
					continue
				}
				job, err := jobs.Load(strings.TrimSuffix(name, ".json"))
				if err != nil {
					// removed since the event, or not a job record
					continue
				}
				if prev, ok := seen[job.JobID]; ok && prev == job.Status {
					continue
				}
				seen[job.JobID] = job.Status
				pterm.Printf("%s  %s  %s", time.Now().Format("15:04:05"), job.JobID, statusStyle(job.Status))
				if job.FailureReason != "" {
					pterm.Printf("  %s", job.FailureReason)
				}
				pterm.Println()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warnw("job watcher error", logger.FieldError, err)
			}
		}
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsWatchCmd)
}
