// Package config loads and persists the ueup configuration file.
//
// The file is searched for in the working directory first, then under the
// user config dir (e.g. ~/.config/ueup/ueup.yaml). Environment variables
// override individual fields on top of whatever the file provides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file at every searched location.
const FileName = "ueup.yaml"

// DefaultBuildConfig is the UnrealBuildTool configuration used when
// build_config is unset.
const DefaultBuildConfig = "Development"

// Environment overrides, applied after the file is read.
const (
	EnvEnginePath  = "UEUP_ENGINE_PATH"
	EnvProjectFile = "UEUP_PROJECT_FILE"
	EnvRiderPath   = "UEUP_RIDER_PATH"
)

var (
	// ErrNotFound means no config file exists at any searched location.
	ErrNotFound = errors.New("config file not found")
	// ErrInvalid means the config exists but cannot be used as-is.
	ErrInvalid = errors.New("config invalid")
)

// Config holds the persisted tool settings. Paths are kept as written;
// loading does not resolve or validate them.
type Config struct {
	// EnginePath is the Unreal Engine installation root.
	EnginePath string `yaml:"engine_path"`
	// ProjectFile points at the .uproject file.
	ProjectFile string `yaml:"project_file"`
	// RiderPath pins the Rider executable; empty means discover it.
	RiderPath string `yaml:"rider_path,omitempty"`
	// Platform overrides the host build platform (Win64, Mac, Linux).
	Platform string `yaml:"platform,omitempty"`
	// BuildConfig is the UnrealBuildTool configuration to build.
	BuildConfig string `yaml:"build_config,omitempty"`
}

// Load reads the first config file found and applies environment
// overrides and defaults.
func Load() (*Config, error) {
	path, err := Locate()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// Locate returns the path Load would read, or ErrNotFound.
func Locate() (string, error) {
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: create one with 'ueup init'", ErrNotFound)
}

func searchPaths() []string {
	paths := []string{FileName}
	configHome, err := os.UserConfigDir()
	if err == nil && configHome != "" && configHome != "/" {
		paths = append(paths, filepath.Join(configHome, "ueup", FileName))
	}
	return paths
}

// LoadFrom reads one specific config file, then applies environment
// overrides and defaults.
func LoadFrom(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEnginePath); v != "" {
		c.EnginePath = v
	}
	if v := os.Getenv(EnvProjectFile); v != "" {
		c.ProjectFile = v
	}
	if v := os.Getenv(EnvRiderPath); v != "" {
		c.RiderPath = v
	}
}

func (c *Config) applyDefaults() {
	if c.BuildConfig == "" {
		c.BuildConfig = DefaultBuildConfig
	}
}

// Validate checks that the settings point at things that exist. It does
// not touch RiderPath: Rider discovery has its own fallbacks.
func (c *Config) Validate() error {
	if c.EnginePath == "" {
		return fmt.Errorf("%w: engine_path is not set", ErrInvalid)
	}
	if info, err := os.Stat(c.EnginePath); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: engine_path is not a directory: %s", ErrInvalid, c.EnginePath)
	}
	if c.ProjectFile == "" {
		return fmt.Errorf("%w: project_file is not set", ErrInvalid)
	}
	if info, err := os.Stat(c.ProjectFile); err != nil || info.IsDir() {
		return fmt.Errorf("%w: project_file does not exist: %s", ErrInvalid, c.ProjectFile)
	}
	return nil
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
