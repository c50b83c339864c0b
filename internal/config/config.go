// Package config loads packsync configuration from hujson (JSONC)
// files with the usual precedence: defaults, then the global user
// config, then the project file, then an explicit --config file, then
// CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the default project config file name.
const ConfigFileName = ".packsync.json"

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	errBaseURLEmpty       = errors.New("base_url cannot be empty")
	errTimeoutInvalid     = errors.New("timeout_seconds must be positive")
	errRetriesInvalid     = errors.New("retries cannot be negative")
)

// Config holds all configuration options.
type Config struct {
	BaseURL              string `json:"base_url"`
	TimeoutSeconds       int    `json:"timeout_seconds,omitempty"`
	Retries              int    `json:"retries,omitempty"`
	ProbeIntervalSeconds int    `json:"probe_interval_seconds,omitempty"`
	StateDir             string `json:"state_dir,omitempty"`
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProbeInterval returns the connectivity probe interval as a duration.
func (c Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:       30,
		Retries:              2,
		ProbeIntervalSeconds: 15,
		StateDir:             defaultStateDir(),
	}
}

// defaultStateDir places local state under the user data directory.
// Falls back to a dot directory in the working directory when no home
// can be determined.
func defaultStateDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "packsync")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".local", "share", "packsync")
	}

	return ".packsync-state"
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/packsync/config.json if set, otherwise
// ~/.config/packsync/config.json.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "packsync", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "packsync", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "packsync", "config.json")
	}

	return ""
}

// Load loads configuration with the following precedence (highest
// wins): defaults, global user config, project config at the default
// location, explicit config via configPath, CLI overrides.
func Load(workDir, configPath string, overrides Config, env []string) (Config, Sources, error) {
	cfg := DefaultConfig()

	var sources Sources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectCfg)
	cfg = merge(cfg, overrides)

	validateErr := validate(cfg)
	if validateErr != nil {
		return Config{}, Sources{}, validateErr
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env []string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing
// files return zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// merge overlays the non-zero fields of override onto base.
func merge(base, override Config) Config {
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}

	if override.TimeoutSeconds != 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}

	if override.Retries != 0 {
		base.Retries = override.Retries
	}

	if override.ProbeIntervalSeconds != 0 {
		base.ProbeIntervalSeconds = override.ProbeIntervalSeconds
	}

	if override.StateDir != "" {
		base.StateDir = override.StateDir
	}

	return base
}

func validate(cfg Config) error {
	if cfg.BaseURL == "" {
		return errBaseURLEmpty
	}

	if cfg.TimeoutSeconds <= 0 {
		return errTimeoutInvalid
	}

	if cfg.Retries < 0 {
		return errRetriesInvalid
	}

	return nil
}
