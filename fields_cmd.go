package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/regginator/omniwordlist/fields"
)

var (
	fieldsCategory string
	fieldsGroup    string
	fieldsSearch   string
	fieldsDefault  bool
	fieldsJSON     bool
	fieldsLimit    int
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Browse the field catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var list []fields.Field
		switch {
		case fieldsSearch != "":
			list = fields.Search(fieldsSearch)
		case fieldsCategory != "":
			list = fields.ByCategory(fieldsCategory)
		case fieldsGroup != "":
			list = fields.ByGroup(fieldsGroup)
		case fieldsDefault:
			list = fields.DefaultEnabled()
		default:
			return renderCategories()
		}
		if fieldsLimit > 0 && len(list) > fieldsLimit {
			list = list[:fieldsLimit]
		}

		if fieldsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		if len(list) == 0 {
			pterm.Warning.Println("No fields matched")
			return nil
		}
		rows := pterm.TableData{{"ID", "Category", "Group", "Example", "Sensitivity", "Requires"}}
		for _, f := range list {
			rows = append(rows, []string{
				f.ID, f.Category, f.Group,
				strings.Join(f.Examples, ", "),
				string(f.Sensitivity),
				strings.Join(f.Dependencies, ", "),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsCategory, "category", "", "List the fields of a category")
	fieldsCmd.Flags().StringVar(&fieldsGroup, "group", "", "List the fields of a group")
	fieldsCmd.Flags().StringVarP(&fieldsSearch, "search", "s", "", "Search ids, descriptions and examples")
	fieldsCmd.Flags().BoolVar(&fieldsDefault, "default", false, "List the fields enabled by default")
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "Print fields as JSON")
	fieldsCmd.Flags().IntVar(&fieldsLimit, "limit", 50, "Show at most n fields (0 for all)")
}

func renderCategories() error {
	pterm.Info.Printf("%d fields in the catalog\n", fields.Len())
	rows := pterm.TableData{{"Category", "Fields"}}
	for _, c := range fields.Categories() {
		rows = append(rows, []string{c, fmt.Sprint(len(fields.ByCategory(c)))})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
