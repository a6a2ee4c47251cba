// Package config loads chordgen configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chordgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for song generation.
type Config struct {
	Paths PathsConfig `yaml:"paths"`
	CCLI  CCLIConfig  `yaml:"ccli"`
}

// PathsConfig defines where song sources live and outputs land.
type PathsConfig struct {
	InputDir      string `yaml:"inputDir"`      // Directory holding song source files
	ChordsheetDir string `yaml:"chordsheetDir"` // Output directory for chordsheets
	SlidesDir     string `yaml:"slidesDir"`     // Output directory for slides
}

// CCLIConfig defines SongSelect lookup options.
type CCLIConfig struct {
	Email             string `yaml:"email"`             // SongSelect account email (empty = lookups disabled)
	PasswordEncrypted string `yaml:"passwordEncrypted"` // Path to the age-encrypted password file
	IdentityFile      string `yaml:"identityFile"`      // Path to the age identity used for decryption
	CacheFile         string `yaml:"cacheFile"`         // Path to the metadata cache database
}

// Default returns a configuration that writes outputs next to the
// current directory and keeps lookups disabled.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:      ".",
			ChordsheetDir: "chordsheets",
			SlidesDir:     "slides",
		},
	}
}

// Load loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/chordgen/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "chordgen", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
