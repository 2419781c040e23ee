package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TITLE_LENS_SCAN_WORKERS.
const EnvPrefix = "TITLE_LENS"

// Config holds the persisted analysis settings.
type Config struct {
	SeasonAliases      []string `json:"season_aliases" mapstructure:"season_aliases"`
	StrictSeasonIndex  bool     `json:"strict_season_index" mapstructure:"strict_season_index"`
	StrictEpisodeIndex bool     `json:"strict_episode_index" mapstructure:"strict_episode_index"`
	EnableLogging      bool     `json:"enable_logging" mapstructure:"enable_logging"`
	LogRetentionDays   int      `json:"log_retention_days" mapstructure:"log_retention_days"`
	LogLevel           string   `json:"log_level" mapstructure:"log_level"`
	LogFormat          string   `json:"log_format" mapstructure:"log_format"`
	ScanWorkers        int      `json:"scan_workers" mapstructure:"scan_workers"`
	MaxDepth           int      `json:"max_depth" mapstructure:"max_depth"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SeasonAliases:      media.DefaultSeasonAliases(),
		StrictSeasonIndex:  false,
		StrictEpisodeIndex: false,
		EnableLogging:      true,
		LogRetentionDays:   30,
		LogLevel:           "info",
		LogFormat:          "console",
		ScanWorkers:        8,
		MaxDepth:           0,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".title-lens", "config.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. A missing file yields the
// defaults. TITLE_LENS_* environment variables override file values.
func LoadFrom(path string) (*Config, error) {
	v := newViper(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Fill in any invalid fields with defaults
	defaults := DefaultConfig()
	cfg.SeasonAliases = cleanAliases(cfg.SeasonAliases)
	if len(cfg.SeasonAliases) == 0 {
		cfg.SeasonAliases = defaults.SeasonAliases
	}
	if cfg.LogRetentionDays <= 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaults.LogFormat
	}
	if cfg.ScanWorkers <= 0 {
		cfg.ScanWorkers = defaults.ScanWorkers
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = defaults.MaxDepth
	}

	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("season_aliases", defaults.SeasonAliases)
	v.SetDefault("strict_season_index", defaults.StrictSeasonIndex)
	v.SetDefault("strict_episode_index", defaults.StrictEpisodeIndex)
	v.SetDefault("enable_logging", defaults.EnableLogging)
	v.SetDefault("log_retention_days", defaults.LogRetentionDays)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("scan_workers", defaults.ScanWorkers)
	v.SetDefault("max_depth", defaults.MaxDepth)
	return v
}

// cleanAliases trims aliases, drops blanks and lower cases them.
func cleanAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			continue
		}
		if _, dup := seen[alias]; dup {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	return out
}

// SetSeasonAliases replaces the alias list. At least one non blank alias is
// required.
func (cfg *Config) SetSeasonAliases(aliases []string) error {
	cleaned := cleanAliases(aliases)
	if len(cleaned) == 0 {
		return errors.New("at least one season alias is required")
	}
	cfg.SeasonAliases = cleaned
	return nil
}

// Save writes the configuration to the default path.
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to path as indented JSON.
func (cfg *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
