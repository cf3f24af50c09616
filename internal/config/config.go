package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds blocktree settings.
type Config struct {
	Database DatabaseConfig
	Owner    string
	Log      LogConfig
	Tree     TreeConfig
	Output   OutputConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

type LogConfig struct {
	Level string
	// File, when set, receives log lines instead of stderr.
	File string
}

type TreeConfig struct {
	EnforceContainment bool `mapstructure:"enforce_containment"`
}

type OutputConfig struct {
	Format string
	Pretty bool
}

// DefaultPath is where Load looks when neither an explicit path nor
// BLOCKTREE_CONFIG is given.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".config", "blocktree", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix BLOCKTREE_.
// A missing config file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(homeDir(), ".local", "share", "blocktree", "blocks.sqlite"))
	v.SetDefault("owner", "default")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("tree.enforce_containment", true)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)

	v.SetConfigType("toml")

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv("BLOCKTREE_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "blocktree"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BLOCKTREE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Database.Path = expandHome(c.Database.Path)
	c.Log.File = expandHome(c.Log.File)
	return c, nil
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("owner", cfg.Owner)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("tree.enforce_containment", cfg.Tree.EnforceContainment)
	v.Set("output.format", cfg.Output.Format)
	v.Set("output.pretty", cfg.Output.Pretty)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return "."
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
