package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides; "__" separates sections, so
// CATERBOOK_STORE__BACKEND sets store.backend.
const EnvPrefix = "CATERBOOK_"

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	// Where records are persisted
	Store StoreConfig `yaml:"store"`

	// Event summary export
	Export ExportConfig `yaml:"export"`

	// Speech-to-text input
	Voice VoiceConfig `yaml:"voice"`

	// Menu catalogue override
	Menu MenuConfig `yaml:"menu"`

	// Log file
	Log LogConfig `yaml:"log"`

	// Caterer details printed on exports
	Business BusinessConfig `yaml:"business"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend"` // sqlite, redis, or memory
	Path    string      `yaml:"path"`    // Path to SQLCipher database
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"` // Key prefix, e.g. "caterbook:"
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"` // Directory for generated summaries
	Format    string `yaml:"format"`     // pdf or text
}

type VoiceConfig struct {
	Command  string `yaml:"command"`  // Speech-to-text program; {locale} is substituted
	Language string `yaml:"language"` // en or hi
}

type MenuConfig struct {
	Path string `yaml:"path"` // Catalogue YAML; empty uses the built-in menu
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`
}

type BusinessConfig struct {
	Name    string `yaml:"name"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "caterbook")
}

// DefaultConfigPath returns ~/.config/caterbook/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := configDir()

	return &Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(dir, "caterbook.db"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "caterbook:",
			},
		},
		Export: ExportConfig{
			OutputDir: filepath.Join(dir, "exports"),
			Format:    "pdf",
		},
		Voice: VoiceConfig{
			Language: "en",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "caterbook.log"),
		},
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat config %s", path)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "yaml",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return cfg, nil
}

// envKey maps CATERBOOK_EXPORT__OUTPUT_DIR to export.output_dir
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database, export, and log directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Export.OutputDir, filepath.Dir(c.Log.Path)}
	if c.Store.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Store.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// LogLevel parses the configured level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
