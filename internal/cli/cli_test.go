package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andy/caterbook/internal/app"
	"github.com/andy/caterbook/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *app.App {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendMemory
	cfg.Export.OutputDir = filepath.Join(dir, "exports")
	cfg.Export.Format = "text"
	cfg.Log.Path = filepath.Join(dir, "caterbook.log")
	cfg.Business.Name = "Spice Route Caterers"

	a, err := app.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	SetApp(a)
	t.Cleanup(func() {
		a.Close()
		SetApp(nil)
	})
	return a
}

// resetFlags clears flag state left over from earlier executions of the
// shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestClientsAddAndList(t *testing.T) {
	setupApp(t)

	stdout, _, err := run(t, "", "clients", "add", "Asha Rao", "--phone", "9876543210", "--email", "Asha@Example.com", "--vip")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client created: Asha Rao")

	_, _, err = run(t, "", "clients", "add", "Ravi", "--phone", "9123456780")
	require.NoError(t, err)

	stdout, _, err = run(t, "", "clients", "list", "--vip")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Asha Rao")
	assert.Contains(t, stdout, "asha@example.com")
	assert.NotContains(t, stdout, "Ravi")
	assert.Contains(t, stdout, "Total: 1 client(s)")
}

func TestClientsAddInvalidPhone(t *testing.T) {
	a := setupApp(t)

	_, stderr, err := run(t, "", "clients", "add", "Asha", "--phone", "call me")
	require.Error(t, err)
	assert.Contains(t, stderr, "Invalid client")

	clients, err := a.ClientRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientsEdit(t *testing.T) {
	a := setupApp(t)
	_, _, err := run(t, "", "clients", "add", "Asha", "--phone", "9876543210")
	require.NoError(t, err)

	stdout, _, err := run(t, "", "clients", "edit", "asha", "--address", "Pune", "--vip")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client updated: Asha")

	clients, err := a.ClientRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Pune", clients[0].Address)
	assert.True(t, clients[0].IsVIP)
	assert.Equal(t, "9876543210", clients[0].Phone)
}

func TestEventsAddWithNewClient(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	stdout, _, err := run(t, "", "events", "add",
		"--new-client", "Ravi Kumar", "--phone", "9123456780",
		"--name", "Diwali Party", "--date", "2024-11-01", "--guests", "50",
		"--type", "wedding", "--menu", "Paneer Tikka", "--menu", "Samosa")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client created: Ravi Kumar")
	assert.Contains(t, stdout, "Event booked: Diwali Party on 01 Nov 2024")

	clients, err := a.ClientRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	events, err := a.EventRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, clients[0].ID, events[0].ClientID)
	assert.Equal(t, 50, *events[0].Guests)
	assert.Len(t, events[0].MenuItems, 2)

	stdout, _, err = run(t, "", "events", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Diwali Party")
	assert.Contains(t, stdout, "Ravi Kumar")

	stdout, _, err = run(t, "", "events", "show", events[0].ID[:12])
	require.NoError(t, err)
	assert.Contains(t, stdout, "Menu (2 items)")
	assert.Contains(t, stdout, "Samosa")
}

func TestEventsAddExistingClient(t *testing.T) {
	a := setupApp(t)
	_, _, err := run(t, "", "clients", "add", "Asha", "--phone", "9876543210")
	require.NoError(t, err)

	stdout, _, err := run(t, "", "events", "add", "--client", "Asha", "--name", "Launch", "--type", "corporate")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Client created")

	clients, err := a.ClientRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestEventsAddRejectsBadInput(t *testing.T) {
	a := setupApp(t)
	_, _, err := run(t, "", "clients", "add", "Asha", "--phone", "9876543210")
	require.NoError(t, err)

	_, stderr, err := run(t, "", "events", "add", "--client", "Asha", "--name", "Party", "--date", "someday soon")
	require.Error(t, err)
	assert.Contains(t, stderr, "Could not understand the date")

	_, stderr, err = run(t, "", "events", "add", "--client", "Asha", "--name", "Party", "--guests", "fifty")
	require.Error(t, err)
	assert.Contains(t, stderr, "guests must be a number")

	_, stderr, err = run(t, "", "events", "add", "--client", "Asha", "--name", "Party", "--menu", "Pizza")
	require.Error(t, err)
	assert.Contains(t, stderr, "Unknown menu item")

	events, err := a.EventRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventsEditAndDelete(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	_, _, err := run(t, "", "events", "add", "--new-client", "Asha", "--phone", "9876543210", "--name", "Party")
	require.NoError(t, err)

	events, err := a.EventRepo.List(ctx)
	require.NoError(t, err)
	id := events[0].ID

	_, _, err = run(t, "", "events", "edit", id, "--guests", "120", "--address", "Lawn 3")
	require.NoError(t, err)
	got, err := a.EventRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 120, *got.Guests)
	assert.Equal(t, "Lawn 3", got.EventAddress)
	assert.Equal(t, "Party", got.EventName)

	stdout, _, err := run(t, "n\n", "events", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cancelled.")

	_, _, err = run(t, "y\n", "events", "delete", id)
	require.NoError(t, err)
	events, err = a.EventRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventsExportText(t *testing.T) {
	a := setupApp(t)
	_, _, err := run(t, "", "events", "add", "--new-client", "Asha", "--phone", "9876543210", "--name", "Sangeet", "--menu", "Samosa")
	require.NoError(t, err)

	events, err := a.EventRepo.List(context.Background())
	require.NoError(t, err)

	stdout, _, err := run(t, "", "events", "export", events[0].ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported to")

	path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(stdout), "✓ Exported to"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sangeet")
	assert.Contains(t, string(data), "Spice Route Caterers")
}

func TestClientDeleteKeepsEvents(t *testing.T) {
	a := setupApp(t)
	_, _, err := run(t, "", "events", "add", "--new-client", "Asha", "--phone", "9876543210", "--name", "Party")
	require.NoError(t, err)

	_, stderr, err := run(t, "", "clients", "delete", "Asha", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 event(s) still reference this client")

	stdout, _, err := run(t, "", "events", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unknown")

	events, err := a.EventRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestResetEvents(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	_, _, err := run(t, "", "events", "add", "--new-client", "Asha", "--phone", "9876543210", "--name", "Party")
	require.NoError(t, err)

	_, _, err = run(t, "", "reset", "events", "--yes")
	require.NoError(t, err)

	events, err := a.EventRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	clients, err := a.ClientRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestMenuSearch(t *testing.T) {
	setupApp(t)

	stdout, _, err := run(t, "", "menu", "search", "paneer")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Paneer Tikka [veg, medium")

	stdout, _, err = run(t, "", "menu", "search", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No menu items match")
}

func TestDateRunsWithoutApp(t *testing.T) {
	color.NoColor = true
	SetApp(nil)

	stdout, _, err := run(t, "", "date", "--ephemeral", "2024-11-01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2024-11-01")
	assert.Contains(t, stdout, "01 Nov 2024")
	assert.Nil(t, appInstance)

	_, stderr, err := run(t, "", "date", "not", "a", "date")
	require.Error(t, err)
	assert.Contains(t, stderr, "Unrecognised date")
}

func TestMatchID(t *testing.T) {
	ids := []string{"0190a1b2-aaaa", "0190a1b2-bbbb", "0190c3d4-cccc"}

	id, err := matchID("0190c3", ids)
	require.NoError(t, err)
	assert.Equal(t, "0190c3d4-cccc", id)

	id, err = matchID("0190a1b2-aaaa", ids)
	require.NoError(t, err)
	assert.Equal(t, "0190a1b2-aaaa", id)

	_, err = matchID("0190a1", ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = matchID("ffff", ids)
	assert.ErrorContains(t, err, "no record matches")
}
