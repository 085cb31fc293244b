package cli

import (
	"strings"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/menu"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Browse the menu catalogue",
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := out(cmd)
		category, _ := cmd.Flags().GetString("category")

		shown := 0
		for _, cat := range appInstance.Menu.Categories() {
			if category != "" && category != menu.AllCategory && cat.ID != category {
				continue
			}
			p.Step("%s %s", cat.Icon, cat.Name)
			for _, item := range cat.Items {
				p.Info("  %s", menuLine(item))
				shown++
			}
			p.Info("")
		}

		if shown == 0 {
			p.Info("No menu items found")
		}
		return nil
	},
}

var menuSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search menu items by name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := out(cmd)
		category, _ := cmd.Flags().GetString("category")

		items := appInstance.Menu.Search(category, args[0])
		if len(items) == 0 {
			p.Info("No menu items match %q", args[0])
			return nil
		}
		for _, item := range items {
			p.Info("%s", menuLine(item))
		}
		p.Info("\n%d item(s)", len(items))
		return nil
	},
}

func menuLine(item domain.MenuItem) string {
	var tags []string
	if item.IsVegetarian {
		tags = append(tags, "veg")
	}
	if item.SpiceLevel != "" {
		tags = append(tags, strings.ToLower(string(item.SpiceLevel)))
	}
	if item.IsPopular {
		tags = append(tags, "popular")
	}
	line := item.Name
	if len(tags) > 0 {
		line += " [" + strings.Join(tags, ", ") + "]"
	}
	if item.Description != "" {
		line += " - " + truncate(item.Description, 50)
	}
	return line
}

func init() {
	menuCmd.AddCommand(menuListCmd)
	menuCmd.AddCommand(menuSearchCmd)

	menuListCmd.Flags().String("category", "", "Only this category ID")
	menuSearchCmd.Flags().String("category", menu.AllCategory, "Limit the search to one category ID")
}
