package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/generator"
)

var (
	previewFlags genFlags
	previewCount int
	previewJSON  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first tokens a config generates with their scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := previewFlags.resolve(cmd)
		if err != nil {
			return err
		}
		gen, err := generator.New(cfg, generator.Options{})
		if err != nil {
			return err
		}
		entries, err := gen.Preview(cmd.Context(), previewCount)
		if err != nil {
			return err
		}

		if previewJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		if len(entries) == 0 {
			pterm.Warning.Println("Config generates no tokens")
			return nil
		}
		rows := pterm.TableData{{"#", "Token", "Entropy", "Quality"}}
		for i, e := range entries {
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				e.Token,
				fmt.Sprintf("%.2f", e.Entropy),
				fmt.Sprintf("%.2f", e.Quality),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	previewFlags.register(previewCmd.Flags(), false)
	previewCmd.Flags().IntVarP(&previewCount, "count", "n", 20, "Number of tokens to show")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print entries as JSON")
}
