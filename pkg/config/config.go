// Package config provides configuration management for the hyaci launcher.
// It loads and validates the YAML settings file and derives the launcher's
// data locations from it. Missing files and values fall back to defaults.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Storage settings
	DataDir      string `yaml:"data_dir,omitempty"`
	DatabasePath string `yaml:"database_path,omitempty"`

	// Network settings
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent,omitempty"`

	// Output settings
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json, auto

	// Reported to the game through ${launcher_name} and ${launcher_version}
	LauncherName    string `yaml:"launcher_name"`
	LauncherVersion string `yaml:"launcher_version"`

	// Tengo scripts run around installations
	PreInstallHook  string `yaml:"pre_install_hook,omitempty"`
	PostInstallHook string `yaml:"post_install_hook,omitempty"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultLauncherName is reported to the game.
	DefaultLauncherName = "hyaci"

	// DefaultLauncherVersion is reported to the game.
	DefaultLauncherVersion = "1.0"

	// DatabaseFile is the database name inside the data directory.
	DatabaseFile = "hyaci.db"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			HTTPTimeout:     DefaultHTTPTimeout,
			LogLevel:        "info",
			LogFormat:       "auto",
			LauncherName:    DefaultLauncherName,
			LauncherVersion: DefaultLauncherVersion,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	// Atomically replace the config file
	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	s := c.Settings
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid log_level %q", s.LogLevel)
	}
	validFormats := map[string]bool{"text": true, "json": true, "auto": true}
	if !validFormats[s.LogFormat] {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid log_format %q", s.LogFormat)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDataDir returns the configured data directory or the platform default.
func (c *Config) GetDataDir() (string, error) {
	if c.Settings.DataDir != "" {
		return filepath.Abs(c.Settings.DataDir)
	}
	return fsutil.GetDataDir()
}

// GetDatabasePath returns the SQLite database location.
func (c *Config) GetDatabasePath() (string, error) {
	if c.Settings.DatabasePath != "" {
		return c.Settings.DatabasePath, nil
	}
	dataDir, err := c.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, DatabaseFile), nil
}

// GetRuntimesDir returns the directory managed Java runtimes live in.
func (c *Config) GetRuntimesDir() (string, error) {
	return c.dataSubdir("runtimes")
}

// GetGamesDir returns the directory new containers are created in.
func (c *Config) GetGamesDir() (string, error) {
	return c.dataSubdir("games")
}

// GetHooksDir returns the directory hook scripts are loaded from.
func (c *Config) GetHooksDir() (string, error) {
	return c.dataSubdir("hooks")
}

func (c *Config) dataSubdir(name string) (string, error) {
	dataDir, err := c.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Settings.LauncherName == "" {
		c.Settings.LauncherName = defaults.Settings.LauncherName
	}
	if c.Settings.LauncherVersion == "" {
		c.Settings.LauncherVersion = defaults.Settings.LauncherVersion
	}
}
