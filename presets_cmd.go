package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/presets"
)

var (
	presetsTag    string
	exportFormat  string
	exportOutFile string
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage named generation presets",
}

func presetStore() (*presets.Store, error) {
	return presets.NewStore(filepath.Join(stateDir, "presets"))
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin and saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		list := store.List()
		if presetsTag != "" {
			list = store.ByTag(presetsTag)
		}
		rows := pterm.TableData{{"Name", "Description", "Tags", "Source"}}
		for _, p := range list {
			source := "user"
			if p.Builtin {
				source = "builtin"
			}
			rows = append(rows, []string{p.Name, p.Description, strings.Join(p.Tags, ", "), source})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a preset's config and estimated size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		p, err := store.Get(args[0])
		if err != nil {
			return err
		}
		estimate, err := store.EstimateCardinality(p.Name)
		if err != nil {
			return err
		}

		title := p.Title
		if title == "" {
			title = p.Name
		}
		pterm.DefaultSection.Println(title)
		cfg := p.Config
		items := []pterm.BulletListItem{
			bullet(0, "Description: %s", p.Description),
			bullet(0, "Version: %s", p.Version),
			bullet(0, "Tags: %s", strings.Join(p.Tags, ", ")),
			bullet(0, "Lengths: %d-%d", cfg.MinLength, cfg.MaxLength),
		}
		if cfg.Charset != "" {
			items = append(items, bullet(0, "Charset: %s", cfg.Charset))
		}
		if cfg.Pattern != "" {
			items = append(items, bullet(0, "Pattern: %s", cfg.Pattern))
		}
		if len(cfg.Transforms) > 0 {
			items = append(items, bullet(0, "Transforms: %s", strings.Join(cfg.Transforms, ", ")))
		}
		if len(cfg.EnabledFields) > 0 {
			items = append(items, bullet(0, "Fields: %s", strings.Join(cfg.EnabledFields, ", ")))
		}
		estText := humanize.Comma(int64(min(estimate, 1<<62)))
		if estimate == ^uint64(0) {
			estText = "more than " + estText
		}
		items = append(items, bullet(0, "Estimated tokens: %s", estText))
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

var presetsExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a preset as json, toml or yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		format := exportFormat
		if exportOutFile != "" && !cmd.Flags().Changed("format") {
			if format, err = presets.FormatFromPath(exportOutFile); err != nil {
				return err
			}
		}
		data, err := store.Export(args[0], format)
		if err != nil {
			return err
		}
		if exportOutFile == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOutFile, data, 0644); err != nil {
			return err
		}
		pterm.Success.Printf("Exported %s to %s\n", args[0], exportOutFile)
		return nil
	},
}

var presetsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Save a preset from a json, toml or yaml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		p, err := store.ImportFile(args[0])
		if err != nil {
			return err
		}
		pterm.Success.Printf("Imported preset %s\n", p.Name)
		return nil
	},
}

var presetsMergeCmd = &cobra.Command{
	Use:   "merge <first> <second> <new name>",
	Short: "Save a preset combining the fields and transforms of two others",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		p, err := store.Merge(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		pterm.Success.Printf("Saved %s (%d fields, %d transforms)\n", p.Name, len(p.Config.EnabledFields), len(p.Config.Transforms))
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted preset %s\n", args[0])
		return nil
	},
}

func init() {
	presetsListCmd.Flags().StringVar(&presetsTag, "tag", "", "Only list presets with this tag")
	presetsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", presets.FormatJSON, "Export format [json, toml, yaml]")
	presetsExportCmd.Flags().StringVarP(&exportOutFile, "output", "o", "", "Write to a file instead of stdout")

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsExportCmd)
	presetsCmd.AddCommand(presetsImportCmd)
	presetsCmd.AddCommand(presetsMergeCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
}
