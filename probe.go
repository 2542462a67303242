package main

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/generator"
	"github.com/regginator/omniwordlist/storage"
)

var statusFlags genFlags

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what a config would generate without generating it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := statusFlags.resolve(cmd)
		if err != nil {
			return err
		}
		cfg = withDetectedCompression(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		est, err := generator.EstimateConfig(cfg)
		if err != nil {
			return err
		}
		comp, err := storage.ParseCompression(cfg.Compression)
		if err != nil {
			return err
		}
		renderStatus(est, cfg.OutputFile, comp)
		return nil
	},
}

func init() {
	statusFlags.register(statusCmd.Flags(), true)
}

func bullet(level int, format string, args ...any) pterm.BulletListItem {
	item := pterm.BulletListItem{
		Level:       level,
		Text:        fmt.Sprintf(format, args...),
		BulletStyle: pterm.NewStyle(pterm.FgCyan),
	}
	if level > 0 {
		item.Bullet = ">"
	}
	return item
}

func renderStatus(est generator.Estimate, output string, comp storage.Compression) {
	pterm.Info.Println("Generation summary 🛸")

	items := []pterm.BulletListItem{
		bullet(0, "Source: %s", est.Source),
	}
	if est.Source == "charset" {
		items = append(items,
			bullet(0, "Charset (%d): %s", len(est.Charset), est.Charset),
			bullet(0, "Mode: %s", est.Mode),
		)
	}
	if est.Source != "wordlist" {
		items = append(items, bullet(0, "Lengths: %d-%d", est.MinLength, est.MaxLength))
	}
	items = append(items, bullet(0, "Tokens: %s", humanize.BigComma(est.Total)))

	if est.Bytes != nil {
		items = append(items, bullet(0, "Estimated size: %s", humanize.BigBytes(est.Bytes)))
		if est.Bytes.Cmp(big.NewInt(1<<40)) > 0 {
			items = append(items, bullet(1, "That is more than a terabyte, consider --max-lines, --max-bytes or a compression codec"))
		}
	}
	if output == "" || output == "-" {
		output = "stdout"
	}
	items = append(items,
		bullet(0, "Output: %s", output),
		bullet(1, "Compression: %s", comp),
	)

	fmt.Println()
	err := pterm.DefaultBulletList.WithItems(items).Render()
	_ = err
}
