package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/fields"
	"github.com/regginator/omniwordlist/filter"
	"github.com/regginator/omniwordlist/storage"
	"github.com/regginator/omniwordlist/transform"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show version and the available charsets, transforms, filters and codecs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf(`omniwordlist v%s
https://github.com/regginator/omniwordlist

`, strings.TrimSpace(omniVersion))

		items := []pterm.BulletListItem{
			bullet(0, "Go: %s (%s/%s, GOMAXPROCS=%d)", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0)),
			bullet(0, "State directory: %s", stateDir),
			bullet(0, "Charset presets:"),
		}
		for _, name := range charset.PresetNames() {
			chars, _ := charset.Preset(name)
			items = append(items, bullet(1, "%s (%d)", name, len([]rune(chars))))
		}
		items = append(items,
			bullet(0, "Transforms: %s", strings.Join(transform.Names(), ", ")),
			bullet(0, "Filter rules: %s", strings.Join(filter.RuleNames(), ", ")),
			bullet(0, "Compression: %s", strings.Join(storage.Compressions(), ", ")),
			bullet(0, "Fields: %d in %d categories", fields.Len(), len(fields.Categories())),
		)
		err := pterm.DefaultBulletList.WithItems(items).Render()
		_ = err
	},
}
