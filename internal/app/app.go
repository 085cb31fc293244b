package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/andy/caterbook/internal/config"
	"github.com/andy/caterbook/internal/crypto"
	"github.com/andy/caterbook/internal/db"
	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/export"
	"github.com/andy/caterbook/internal/menu"
	"github.com/andy/caterbook/internal/repository"
	"github.com/andy/caterbook/internal/service"
	"github.com/andy/caterbook/internal/store"
	"github.com/andy/caterbook/internal/voice"
	"github.com/andy/caterbook/internal/wizard"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Store  store.Store
	DB     *db.DB // nil unless the sqlite backend is in use
	Menu   *menu.Catalogue

	// Repositories
	ClientRepo repository.ClientRepository
	EventRepo  repository.EventRepository

	// Services
	EventService  service.EventService
	ClientService service.ClientService
	ReportService service.ReportService

	// Recognizer is nil when no speech-to-text command is configured
	Recognizer voice.Recognizer

	logFile    io.Closer
	configPath string
}

// Options adjusts how New builds the App
type Options struct {
	// ConfigPath overrides ~/.config/caterbook/config.yaml
	ConfigPath string
	// Ephemeral keeps all records in memory for this run only
	Ephemeral bool
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Opening the log file
// 3. Opening the configured store (prompting for the encryption key on first run)
// 4. Loading the menu catalogue
// 5. Creating repositories and services
func New(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Ephemeral {
		cfg.Store.Backend = config.BackendMemory
	}

	a, err := NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.configPath = path
	return a, nil
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, logFile, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, logFile: logFile}
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	catalogue, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Menu = catalogue

	// Create repositories
	a.ClientRepo = repository.NewClientRepo(a.Store, logger)
	a.EventRepo = repository.NewEventRepo(a.Store, logger)

	// Create services with their dependencies
	a.EventService = a.newEventService()
	a.ClientService = service.NewClientService(a.ClientRepo, a.EventRepo)
	a.ReportService = service.NewReportService(a.ClientRepo, a.EventRepo)

	if rec := voice.NewCommandRecognizer(cfg.Voice.Command); rec != nil {
		a.Recognizer = rec
	}

	logger.Info("caterbook started", slog.String("store", cfg.Store.Backend))
	return a, nil
}

func openLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.Path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.Store = store.NewMemory()
		return nil

	case config.BackendRedis:
		s, err := store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		}, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Store = s
		return nil

	case config.BackendSQLite, "":
		password, err := encryptionKey()
		if err != nil {
			return err
		}

		// Open the database with encryption
		database, err := db.Open(cfg.Store.Path, password)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		// Run migrations to ensure schema is up to date
		if err := database.RunMigrations(); err != nil {
			database.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = database
		a.Store = store.NewSQLite(database, a.Logger)
		return nil
	}

	return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// encryptionKey returns the database key from the keyring, prompting for a
// new one on first run
func encryptionKey() (string, error) {
	// Get keyring for secure password storage
	keyring := crypto.NewKeyring()

	// Try to get existing encryption key
	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}

	// No key exists, prompt user to set one
	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	// Without a keyring the password still opens this session
	if err := keyring.SetKey(password); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your client and event records will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Confirm password
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after confirmation
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	// Check if passwords match
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// NewWizard starts an event wizard over the app's repositories and menu
func (a *App) NewWizard(ctx context.Context, onSaved func(*domain.Event), onCancel func()) (*wizard.Wizard, error) {
	return wizard.New(ctx, wizard.Options{
		Clients:  a.ClientRepo,
		Events:   a.EventRepo,
		Menu:     a.Menu,
		Logger:   a.Logger,
		OnSaved:  onSaved,
		OnCancel: onCancel,
	})
}

// NewVoiceInput binds the configured recognizer to one text field
func (a *App) NewVoiceInput(placeholder string, onText func(string)) *voice.Input {
	return voice.NewInput(a.Recognizer, a.Config.Voice.Language, voice.DefaultPlaceholders(placeholder), onText)
}

// Reset clears stored records: "clients", "events", or "all"
func (a *App) Reset(ctx context.Context, what string) error {
	var keys []string
	switch what {
	case "clients":
		keys = []string{store.KeyClients}
	case "events":
		keys = []string{store.KeyEvents}
	case "all":
		keys = []string{store.KeyClients, store.KeyEvents}
	default:
		return fmt.Errorf("unknown reset target %q", what)
	}

	for _, key := range keys {
		if err := a.Store.SetItem(ctx, key, "[]"); err != nil {
			return fmt.Errorf("failed to reset %s: %w", key, err)
		}
		a.Logger.Warn("records reset", slog.String("key", key))
	}
	return nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}

// SaveConfig saves the current configuration to the file it was loaded from
func (a *App) SaveConfig() error {
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return a.Config.Save(path)
}

// ApplyConfig rebuilds the parts of the App that read settings editable at
// runtime: export destination, business details, and voice language.
func (a *App) ApplyConfig() error {
	if _, err := export.ParseFormat(a.Config.Export.Format); err != nil {
		return err
	}
	if err := a.Config.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	a.EventService = a.newEventService()
	a.Logger.Info("settings applied",
		slog.String("export_dir", a.Config.Export.OutputDir),
		slog.String("voice_language", a.Config.Voice.Language),
	)
	return nil
}

func (a *App) newEventService() service.EventService {
	cfg := a.Config
	return service.NewEventService(a.EventRepo, a.ClientRepo, cfg.Export.OutputDir, export.Business{
		Name:    cfg.Business.Name,
		Phone:   cfg.Business.Phone,
		Email:   cfg.Business.Email,
		Address: cfg.Business.Address,
	})
}
