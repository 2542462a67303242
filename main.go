package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "embed"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/logger"
)

//go:embed VERSION
var omniVersion string

var (
	verbosity  int
	jsonLogs   bool
	stateDir   string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "omni",
	Short: "omniwordlist - charset, pattern and field-driven wordlist generator",
	Long: `omniwordlist enumerates candidate strings over a charset or marker pattern,
combines catalog fields, or refines an existing wordlist, then streams the
result through transforms and filters into a (optionally compressed) sink.

Examples:
  omni run -l 1-4 -c lower+digit -o out.txt.gz
  omni run --pattern 'pass@@%%' --transform upper
  omni run --preset pentest_default -o pentest.txt
  omni preview -c abc -l 2 -n 10
  omni status -c alnum -l 8
  omni resume <job id>`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(verbosity, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func defaultStateDir() string {
	if dir := os.Getenv("OMNI_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".omniwordlist"
	}
	return filepath.Join(home, ".omniwordlist")
}

func init() {
	rootCmd.Version = strings.TrimSpace(omniVersion)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "Directory holding jobs, checkpoints and user presets")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Don't draw the progress bar")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(infoCmd)
}

// printError reports err with its kind and any hints attached to it.
func printError(err error) {
	pterm.Error.WithWriter(os.Stderr).Printf("%s error: %s\n", errors.Kind(err), err)
	if hint := errors.FlattenHints(err); hint != "" {
		pterm.Info.WithWriter(os.Stderr).Println(hint)
	}
}

func main() {
	// PTerm ANSI formatting (mainly from the progress bar) can persist after ctrl+c, so the
	// signal only cancels the context and the running command gets to stop its printers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	fmt.Fprint(os.Stderr, "\033[0m")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}
