package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/generator"
)

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <config file>",
	Short: "Check a config file without generating anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := checkConfig(config.Load(path)); err != nil {
			if !validateWatch {
				return err
			}
			printError(err)
		} else {
			pterm.Success.Printf("%s is valid\n", path)
		}
		if !validateWatch {
			return nil
		}

		pterm.Info.Printf("Watching %s for changes (ctrl+c to stop)\n", path)
		return config.Watch(cmd.Context(), path, func(cfg config.Config, err error) {
			if err := checkConfig(cfg, err); err != nil {
				printError(err)
				return
			}
			pterm.Success.Printf("%s is valid\n", path)
		})
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate every time the file changes")
}

// checkConfig runs every check a run would, short of opening the output.
func checkConfig(cfg config.Config, err error) error {
	if err != nil {
		return err
	}
	if _, err := generator.New(cfg, generator.Options{}); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
