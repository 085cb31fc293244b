package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/export"
	"github.com/andy/caterbook/internal/form"
	"github.com/andy/caterbook/internal/printer"
	"github.com/andy/caterbook/internal/wizard"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage catering events",
	Long:  `List, book, edit, delete, and export catering events.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		clientID := ""
		if ref, _ := cmd.Flags().GetString("client"); ref != "" {
			client, err := resolveClient(ctx, ref)
			if err != nil {
				return err
			}
			clientID = client.ID
		}

		events, err := appInstance.EventService.ListWithClients(ctx, clientID)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			p.Info("No events found")
			return nil
		}

		p.Info("%-8s %-12s %-25s %-20s %-11s %s", "ID", "Date", "Event", "Client", "Type", "Guests")
		p.Info("------------------------------------------------------------------------------------------")

		for _, ec := range events {
			e := ec.Event
			p.Info("%-8s %-12s %-25s %-20s %-11s %s",
				shortID(e.ID),
				e.DisplayDate(),
				truncate(e.EventName, 25),
				truncate(ec.ClientName(), 20),
				e.EventType.Label(),
				guestsString(e.Guests),
			)
		}

		p.Info("\nTotal: %d event(s)", len(events))
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one event with its menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		id, err := resolveEventID(ctx, args[0])
		if err != nil {
			return err
		}
		ec, err := appInstance.EventService.Get(ctx, id)
		if err != nil {
			return err
		}

		e := ec.Event
		p.Step("%s", e.EventName)
		p.Info("  ID:      %s", e.ID)
		p.Info("  Client:  %s", ec.ClientName())
		if ec.Client != nil {
			p.Info("  Phone:   %s", ec.Client.Phone)
		}
		p.Info("  Date:    %s", e.DisplayDate())
		p.Info("  Type:    %s", e.EventType.Label())
		p.Info("  Guests:  %s", guestsString(e.Guests))
		if e.EventAddress != "" {
			p.Info("  Venue:   %s", e.EventAddress)
		}
		p.Muted("  Created: %s", e.CreatedAt.Local().Format("02 Jan 2006 15:04"))

		p.Info("\nMenu (%d items):", len(e.MenuItems))
		if len(e.MenuItems) == 0 {
			p.Muted("  No items")
		}
		for _, item := range e.MenuItems {
			p.Info("  • %s", item)
		}
		return nil
	},
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Book a new event",
	Long: `Book a new event for an existing client, or create the client on the fly.

Examples:
  caterbook events add --client Asha --name "Diwali Party" --date "1st Nov" --guests 50
  caterbook events add --new-client "Ravi Kumar" --phone 9123456780 --name Wedding --type wedding --menu "Paneer Tikka" --menu Samosa`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		w, err := appInstance.NewWizard(ctx, nil, nil)
		if err != nil {
			return err
		}

		// Step 0: client
		newClient := !cmd.Flags().Changed("client")
		if ref, _ := cmd.Flags().GetString("client"); ref != "" {
			client, err := resolveClient(ctx, ref)
			if err != nil {
				return err
			}
			w.SetMode(wizard.ModeExisting)
			if err := w.SelectClient(client.ID); err != nil {
				return err
			}
		} else {
			w.ClientForm.Name, _ = cmd.Flags().GetString("new-client")
			w.ClientForm.Phone, _ = cmd.Flags().GetString("phone")
			email, _ := cmd.Flags().GetString("email")
			w.ClientForm.SetEmail(email)
			w.ClientForm.IsVIP, _ = cmd.Flags().GetBool("vip")
		}
		if err := w.Next(ctx); err != nil {
			return stepError(p, w.Step(), err)
		}
		if newClient {
			p.Success("Client created: %s", w.SelectedClient().Name)
		}

		// Step 1: event details
		w.EventForm.EventName, _ = cmd.Flags().GetString("name")
		if date, _ := cmd.Flags().GetString("date"); date != "" {
			if !w.EventForm.SetDate(date) {
				return p.Error("Invalid event", fmt.Sprintf("Could not understand the date %q.", date),
					"Try a form like 2024-11-01, 01/11/2024, or 1st Nov")
			}
		}
		w.EventForm.Guests, _ = cmd.Flags().GetString("guests")
		w.EventForm.EventAddress, _ = cmd.Flags().GetString("address")
		eventType, _ := cmd.Flags().GetString("type")
		w.EventForm.SetEventType(eventType)
		if err := w.Next(ctx); err != nil {
			return stepError(p, w.Step(), err)
		}

		// Step 2: menu
		items, _ := cmd.Flags().GetStringSlice("menu")
		for _, name := range items {
			name = strings.TrimSpace(name)
			if _, ok := appInstance.Menu.Lookup(name); !ok {
				return p.Error("Unknown menu item", fmt.Sprintf("%q is not on the menu.", name),
					"Run 'caterbook menu list' to see available items")
			}
			if !w.IsSelected(name) {
				w.ToggleMenuItem(name)
			}
		}

		// Step 3: save
		if err := w.Next(ctx); err != nil {
			return stepError(p, w.Step(), err)
		}

		e := w.Event()
		p.Success("Event booked: %s on %s (ID: %s)", e.EventName, e.DisplayDate(), e.ID)
		if len(e.MenuItems) > 0 {
			p.Muted("  Menu: %s", strings.Join(e.MenuItems, ", "))
		}
		return nil
	},
}

// stepError reports a wizard failure as validation feedback when possible
func stepError(p *printer.Printer, step wizard.Step, err error) error {
	if domain.IsValidation(err) {
		return p.Error(fmt.Sprintf("Invalid %s details", strings.ToLower(step.String())), err.Error())
	}
	if errors.Is(err, form.ErrSaveFailed) {
		return p.Error("Save failed", err.Error(), "Nothing was booked; run the command again")
	}
	return err
}

var eventsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an event's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		id, err := resolveEventID(ctx, args[0])
		if err != nil {
			return err
		}
		event, err := appInstance.EventRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		f := form.EditEventForm(appInstance.EventRepo, event)

		if cmd.Flags().Changed("name") {
			f.EventName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("date") {
			date, _ := cmd.Flags().GetString("date")
			if date != "" && !f.SetDate(date) {
				return p.Error("Invalid event", fmt.Sprintf("Could not understand the date %q.", date))
			}
			if date == "" {
				f.Date = ""
			}
		}
		if cmd.Flags().Changed("guests") {
			f.Guests, _ = cmd.Flags().GetString("guests")
		}
		if cmd.Flags().Changed("address") {
			f.EventAddress, _ = cmd.Flags().GetString("address")
		}
		if cmd.Flags().Changed("type") {
			eventType, _ := cmd.Flags().GetString("type")
			f.SetEventType(eventType)
		}

		updated, err := f.Save(ctx)
		if err != nil {
			if domain.IsValidation(err) {
				return p.Error("Invalid event", err.Error())
			}
			return err
		}

		p.Success("Event updated: %s", updated.EventName)
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		id, err := resolveEventID(ctx, args[0])
		if err != nil {
			return err
		}
		ec, err := appInstance.EventService.Get(ctx, id)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(cmd, fmt.Sprintf("Delete event %s?", ec.Event.EventName)) {
			p.Info("Cancelled.")
			return nil
		}

		if err := appInstance.EventService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		p.Success("Event deleted: %s", ec.Event.EventName)
		return nil
	},
}

var eventsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export an event summary as PDF or text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := out(cmd)

		formatFlag, _ := cmd.Flags().GetString("format")
		if formatFlag == "" {
			formatFlag = appInstance.Config.Export.Format
		}
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return p.Error("Unknown format", err.Error(), "Use --format pdf or --format text")
		}

		id, err := resolveEventID(ctx, args[0])
		if err != nil {
			return err
		}

		path, err := appInstance.EventService.Export(ctx, id, format)
		if err != nil {
			return fmt.Errorf("failed to export event: %w", err)
		}

		p.Success("Exported to %s", path)
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsEditCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsExportCmd)

	eventsListCmd.Flags().String("client", "", "Only events for this client (ID or name)")

	// Add flags
	eventsAddCmd.Flags().String("client", "", "Existing client (ID or name)")
	eventsAddCmd.Flags().String("new-client", "", "Create a new client with this name")
	eventsAddCmd.Flags().String("phone", "", "Phone number for the new client")
	eventsAddCmd.Flags().String("email", "", "Email for the new client")
	eventsAddCmd.Flags().Bool("vip", false, "Mark the new client as VIP")
	eventsAddCmd.MarkFlagsMutuallyExclusive("client", "new-client")
	eventsAddCmd.MarkFlagsOneRequired("client", "new-client")
	eventsAddCmd.Flags().String("name", "", "Event name (required)")
	eventsAddCmd.MarkFlagRequired("name")
	eventsAddCmd.Flags().String("date", "", "Event date, e.g. 2024-11-01 or '1st Nov'")
	eventsAddCmd.Flags().String("guests", "", "Number of guests")
	eventsAddCmd.Flags().String("address", "", "Venue address")
	eventsAddCmd.Flags().String("type", string(domain.EventTypeOther), "Event type (wedding, engagement, birthday, corporate, grievance, other)")
	eventsAddCmd.Flags().StringSlice("menu", nil, "Menu item to include (repeatable)")

	// Edit flags
	eventsEditCmd.Flags().String("name", "", "New event name")
	eventsEditCmd.Flags().String("date", "", "New date (empty clears it)")
	eventsEditCmd.Flags().String("guests", "", "New guest count")
	eventsEditCmd.Flags().String("address", "", "New venue address")
	eventsEditCmd.Flags().String("type", "", "New event type")

	eventsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	eventsExportCmd.Flags().String("format", "", "Output format: pdf or text (default from config)")
}
