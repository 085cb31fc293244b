package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/caterbook/internal/config"
	"github.com/andy/caterbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = filepath.Join(dir, "caterbook.db")
	cfg.Export.OutputDir = filepath.Join(dir, "exports")
	cfg.Log.Path = filepath.Join(dir, "caterbook.log")
	cfg.Log.Level = "debug"
	return cfg
}

func TestNewWithConfigMemory(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Nil(t, a.Recognizer)
	assert.NotEmpty(t, a.Menu.Flatten())

	c := &domain.Client{Name: "Asha", Phone: "9876543210"}
	require.NoError(t, a.ClientRepo.Create(ctx, c))

	var saved *domain.Event
	w, err := a.NewWizard(ctx, func(e *domain.Event) { saved = e }, nil)
	require.NoError(t, err)
	require.Len(t, w.Clients(), 1)

	logData, err := os.ReadFile(a.Config.Log.Path)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "caterbook started")
	assert.Nil(t, saved)
}

func TestNewWithConfigUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "floppy"
	_, err := NewWithConfig(context.Background(), cfg)
	assert.ErrorContains(t, err, "floppy")
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.ClientRepo.Create(ctx, &domain.Client{Name: "Asha", Phone: "9876543210"}))
	require.NoError(t, a.Reset(ctx, "all"))

	clients, err := a.ClientRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)

	assert.Error(t, a.Reset(ctx, "menus"))
}

func TestVoiceCommandConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Voice.Command = "listen --lang {locale}"
	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Recognizer)
	in := a.NewVoiceInput("Event name", nil)
	assert.Equal(t, "Event name", in.Placeholder())
}

func TestApplyConfigRebuildsExport(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	c := &domain.Client{Name: "Asha", Phone: "9876543210"}
	require.NoError(t, a.ClientRepo.Create(ctx, c))
	e := domain.NewEvent(c.ID, domain.EventDetails{EventName: "Mehendi"}, nil)
	require.NoError(t, a.EventRepo.Create(ctx, e))

	cfg.Business.Name = "Annapurna Caterers"
	cfg.Export.OutputDir = filepath.Join(t.TempDir(), "summaries")
	require.NoError(t, a.ApplyConfig())

	path, err := a.EventService.Export(ctx, e.ID, "text")
	require.NoError(t, err)
	assert.Equal(t, cfg.Export.OutputDir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Annapurna Caterers")

	cfg.Export.Format = "docx"
	assert.Error(t, a.ApplyConfig())
}

func TestSaveConfigWritesLoadedPath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := testConfig(t)
	require.NoError(t, cfg.Save(path))

	a, err := New(ctx, Options{ConfigPath: path, Ephemeral: true})
	require.NoError(t, err)
	defer a.Close()

	a.Config.Business.Name = "Annapurna Caterers"
	require.NoError(t, a.SaveConfig())

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Annapurna Caterers", reloaded.Business.Name)
}
