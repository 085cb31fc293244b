package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/andy/caterbook/internal/dates"
	"github.com/spf13/cobra"
)

var dateCmd = &cobra.Command{
	Use:   "date [text]",
	Short: "Show how a spoken or typed date is understood",
	Long: `Normalize free-form date text the same way event forms do.

Examples:
  caterbook date "1st November"
  caterbook date 01/11/2024`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		p := out(cmd)
		input := strings.Join(args, " ")

		canonical, ok := dates.Normalize(input)
		if !ok {
			return p.Error("Unrecognised date", fmt.Sprintf("Could not understand %q.", input),
				"Try 2024-11-01, 01/11/2024, 1 Nov 2024, or 1st November")
		}

		p.Success("%s", canonical)
		p.Muted("  %s", dates.Display(canonical, time.Time{}))
		return nil
	},
}
