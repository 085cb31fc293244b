package cli

import (
	"context"
	"fmt"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/printer"
	"github.com/spf13/cobra"
)

var appInstance *app.App

// skipAppAnnotation marks commands that run without opening the store
const skipAppAnnotation = "skip-app"

var rootCmd = &cobra.Command{
	Use:   "caterbook",
	Short: "Client, event, and menu manager for caterers",
	Long: `Caterbook keeps track of catering clients and events, plans menus, and
exports event summaries.

By default, running caterbook without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance != nil || cmd.Name() == "help" || cmd.Annotations[skipAppAnnotation] == "true" {
			return nil
		}

		configPath, _ := cmd.Flags().GetString("config")
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")

		a, err := app.New(cmd.Context(), app.Options{ConfigPath: configPath, Ephemeral: ephemeral})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		appInstance = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	defer func() {
		if appInstance != nil {
			appInstance.Close()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func out(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/caterbook/config.yaml)")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep records in memory for this run only")

	// Add all subcommands
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(dateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
