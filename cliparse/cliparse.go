package cliparse

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port                  int           `mapstructure:"port"`
	Storage               string        `mapstructure:"storage"`
	DataDir               string        `mapstructure:"data-dir"`
	ResultsDir            string        `mapstructure:"results-dir"`
	DatabaseURL           string        `mapstructure:"database-url"`
	SessionSecret         string        `mapstructure:"session-secret"`
	SessionTTL            time.Duration `mapstructure:"session-ttl"`
	AutoActivateFirstPoll bool          `mapstructure:"auto-activate-first-poll"`
	LogLevel              string        `mapstructure:"log-level"`
	LogFile               string        `mapstructure:"log-file"`
	ConfigFile            string        `mapstructure:"config"`
}

// ParseFlags resolves the configuration from, in order of precedence,
// command-line flags, environment variables (PORT, SESSION_SECRET, ...), an
// optional config file, and defaults.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("livepoll", pflag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntP("port", "p", 3318, "Server port")
	fs.StringP("storage", "t", "file", "Storage backend (file, sqlite or postgres)")
	fs.String("data-dir", "data", "Directory for users and polls (file storage)")
	fs.String("results-dir", "results", "Directory for archived results (file storage)")
	fs.StringP("database-url", "d", "", "Database URL or SQLite path")

	// Sessions (prefer env for the secret, but allow CLI for dev)
	fs.String("session-secret", "", "Session signing secret (prefer env)")
	fs.Duration("session-ttl", 24*time.Hour, "Session lifetime")

	fs.Bool("auto-activate-first-poll", false, "Activate an owner's first poll on creation")
	fs.String("log-level", "info", "Log level")
	fs.String("log-file", "", "Rotated log file (empty disables)")
	fs.StringP("config", "c", "", "Config file (yaml, json or toml)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case "file":
	case "sqlite":
		if c.DatabaseURL == "" {
			c.DatabaseURL = filepath.Join(c.DataDir, "livepoll.db")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return fmt.Errorf("unknown storage %q (want file, sqlite or postgres)", c.Storage)
	}

	// Secrets - MUST be provided
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session TTL %s", c.SessionTTL)
	}
	return nil
}
