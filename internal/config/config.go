// Package config resolves docket's settings from defaults, an optional YAML
// file, a .env file, DOCKET_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DOCKET_PORT.
const EnvPrefix = "DOCKET"

const (
	DefaultPort     = 3000
	DefaultLogLevel = "info"
)

// Config is the resolved application configuration.
type Config struct {
	DBPath      string   `mapstructure:"db_path" yaml:"db_path"`
	Port        int      `mapstructure:"port" yaml:"port"`
	LogLevel    string   `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string   `mapstructure:"log_format" yaml:"log_format"`
	LogFile     string   `mapstructure:"log_file" yaml:"log_file"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db_path",
	"port":      "port",
	"log-level": "log_level",
}

// Dir returns docket's per-user directory, e.g. ~/.config/docket.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "docket")
}

// DefaultConfigPath returns the default location of the YAML config file.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	dir := Dir()
	return Config{
		DBPath:      filepath.Join(dir, "docket.db"),
		Port:        DefaultPort,
		LogLevel:    DefaultLogLevel,
		LogFormat:   "text",
		LogFile:     filepath.Join(dir, "docket.log"),
		CORSOrigins: []string{"*"},
	}
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// ConfigPath is the YAML file to read. Empty means DefaultConfigPath,
	// which may be absent; an explicit path must exist.
	ConfigPath string

	// EnvFile is the dotenv file to load. Empty means ".env" in the working
	// directory, which may be absent.
	EnvFile string

	// Flags holds command-line overrides. Only flags the user actually set
	// take effect.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("port", def.Port)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("cors_origins", def.CORSOrigins)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !isMissing(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Addr returns the listen address of the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// EnsureDBDir creates the directory holding the database file.
func (c *Config) EnsureDBDir() error {
	if c.DBPath == ":memory:" || strings.HasPrefix(c.DBPath, "file:") {
		return nil
	}
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// splitList flattens comma-separated entries, as given by DOCKET_CORS_ORIGINS.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
