package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored records",
	Long: `Reset stored records to an empty list.

Examples:
  caterbook reset events     # Delete all events
  caterbook reset all        # Wipe everything: clients and events`,
}

func newResetCmd(target, short, prompt, done string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   target,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirmPrompt(cmd, prompt) {
				p.Info("Cancelled.")
				return nil
			}

			if err := appInstance.Reset(cmd.Context(), target); err != nil {
				return err
			}
			p.Success("%s", done)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	return cmd
}

func confirmPrompt(cmd *cobra.Command, message string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(newResetCmd("clients",
		"Delete all clients (events are kept)",
		"This will delete ALL clients. Their events will show as Unknown. Continue?",
		"All clients have been deleted."))
	resetCmd.AddCommand(newResetCmd("events",
		"Delete all events",
		"This will delete ALL events. Continue?",
		"All events have been deleted."))
	resetCmd.AddCommand(newResetCmd("all",
		"Delete ALL data: clients and events",
		"This will delete ALL data (clients and events). Continue?",
		"All data has been deleted."))
}
