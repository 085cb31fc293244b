package cli

import (
	"fmt"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/form"
	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `List, add, edit, and delete clients.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		search, _ := cmd.Flags().GetString("search")
		filter := domain.ClientFilterAll
		if vip, _ := cmd.Flags().GetBool("vip"); vip {
			filter = domain.ClientFilterVIP
		}
		if regular, _ := cmd.Flags().GetBool("regular"); regular {
			filter = domain.ClientFilterRegular
		}

		stats, err := appInstance.ClientService.Stats(ctx, search, filter)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(stats) == 0 {
			p.Info("No clients found")
			return nil
		}

		// Print table header
		p.Info("%-8s %-25s %-16s %-25s %-4s %s", "ID", "Name", "Phone", "Email", "VIP", "Events")
		p.Info("------------------------------------------------------------------------------------------")

		for _, s := range stats {
			vip := ""
			if s.Client.IsVIP {
				vip = "★"
			}
			p.Info("%-8s %-25s %-16s %-25s %-4s %d",
				shortID(s.Client.ID),
				truncate(s.Client.Name, 25),
				s.Client.Phone,
				truncate(s.Client.Email, 25),
				vip,
				s.EventCount,
			)
		}

		p.Info("\nTotal: %d client(s)", len(stats))
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := out(cmd)

		f := form.NewClientForm(appInstance.ClientRepo)
		f.Name = args[0]
		f.Phone, _ = cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")
		f.SetEmail(email)
		f.Address, _ = cmd.Flags().GetString("address")
		f.IsVIP, _ = cmd.Flags().GetBool("vip")

		client, err := f.Save(cmd.Context())
		if err != nil {
			if domain.IsValidation(err) {
				return p.Error("Invalid client", err.Error())
			}
			return err
		}

		p.Success("Client created: %s (ID: %s)", client.Name, client.ID)
		return nil
	},
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		client, err := resolveClient(ctx, args[0])
		if err != nil {
			return err
		}

		f := form.EditClientForm(appInstance.ClientRepo, client)

		// Update fields if flags provided
		if cmd.Flags().Changed("name") {
			f.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("phone") {
			f.Phone, _ = cmd.Flags().GetString("phone")
		}
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			f.SetEmail(email)
		}
		if cmd.Flags().Changed("address") {
			f.Address, _ = cmd.Flags().GetString("address")
		}
		if cmd.Flags().Changed("vip") {
			f.IsVIP, _ = cmd.Flags().GetBool("vip")
		}

		updated, err := f.Save(ctx)
		if err != nil {
			if domain.IsValidation(err) {
				return p.Error("Invalid client", err.Error())
			}
			return err
		}

		p.Success("Client updated: %s", updated.Name)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a client (their events are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		client, err := resolveClient(ctx, args[0])
		if err != nil {
			return err
		}

		events, err := appInstance.EventRepo.ListByClient(ctx, client.ID)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(cmd, fmt.Sprintf("Delete client %s?", client.Name)) {
			p.Info("Cancelled.")
			return nil
		}

		if err := appInstance.ClientService.Delete(ctx, client.ID); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		p.Success("Client deleted: %s", client.Name)
		if len(events) > 0 {
			p.Warning("%d event(s) still reference this client and will show as Unknown", len(events))
		}
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsEditCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// List flags
	clientsListCmd.Flags().String("search", "", "Filter by name, phone, or email")
	clientsListCmd.Flags().Bool("vip", false, "Only VIP clients")
	clientsListCmd.Flags().Bool("regular", false, "Only regular clients")
	clientsListCmd.MarkFlagsMutuallyExclusive("vip", "regular")

	// Add flags
	clientsAddCmd.Flags().String("phone", "", "Phone number (required)")
	clientsAddCmd.MarkFlagRequired("phone")
	clientsAddCmd.Flags().String("email", "", "Client email")
	clientsAddCmd.Flags().String("address", "", "Client address")
	clientsAddCmd.Flags().Bool("vip", false, "Mark as VIP")

	// Edit flags
	clientsEditCmd.Flags().String("name", "", "New name")
	clientsEditCmd.Flags().String("phone", "", "New phone number")
	clientsEditCmd.Flags().String("email", "", "New email")
	clientsEditCmd.Flags().String("address", "", "New address")
	clientsEditCmd.Flags().Bool("vip", false, "VIP status")

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
