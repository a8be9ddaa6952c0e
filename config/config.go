// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the bridge configuration from a key = value file in
// the data directory, overlaid with GREEN_* environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable the configuration reads,
// e.g. GREEN_EXECUTABLE.
const EnvPrefix = "GREEN"

// Config holds the bridge settings.
type Config struct {
	DataDir    string
	Executable string
	// Timeout bounds each invocation. Zero selects the runner default and a
	// negative value disables the limit.
	Timeout         time.Duration
	StagingDir      string `split_words:"true"`
	RetainArtifacts bool   `split_words:"true"`
	LogLevel        string `split_words:"true"`
	LogFile         string `split_words:"true"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DataDir:    DefaultDataDir(),
		Executable: "green-cli",
		Timeout:    60 * time.Second,
		LogLevel:   "info",
	}
}

// DefaultDataDir returns ~/.green, or .green in the working directory when
// the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".green"
	}
	return filepath.Join(home, ".green")
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// StagingPath returns the directory staged transaction artifacts go to.
func (c Config) StagingPath() string {
	if c.StagingDir != "" {
		return c.StagingDir
	}
	return filepath.Join(c.DataDir, "staging")
}

// RegistryPath returns the path of the staged artifact registry database.
func (c Config) RegistryPath() string {
	return filepath.Join(c.DataDir, "staging.db")
}

// LoadConfig reads the file at path on top of DefaultConfig. Lines are
// "key = value"; blank lines and lines starting with '#' are skipped and
// unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	return loadInto(path, DefaultConfig())
}

func loadInto(path string, cfg Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := parseKeyValue(line)
		if !ok {
			return Config{}, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return Config{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits line on its first '='.
func parseKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "executable":
		c.Executable = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: timeout: %w", ErrInvalidValue, err)
		}
		c.Timeout = d
	case "stagingdir":
		c.StagingDir = value
	case "retain":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: retain: %w", ErrInvalidValue, err)
		}
		c.RetainArtifacts = b
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# green-cli bridge configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "executable = %s\n", cfg.Executable)
	fmt.Fprintf(&b, "timeout = %s\n", cfg.Timeout)
	fmt.Fprintf(&b, "stagingdir = %s\n", cfg.StagingDir)
	fmt.Fprintf(&b, "retain = %t\n", cfg.RetainArtifacts)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// FromEnv overlays GREEN_* environment variables on base. Variables that are
// not set leave the corresponding field unchanged.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration. Precedence, lowest first:
// defaults, the file in the data directory, the environment, dataDir.
// An empty dataDir selects GREEN_DATADIR or the default. A missing file is
// not an error. The result is validated.
func Resolve(dataDir string) (Config, error) {
	dir := dataDir
	if dir == "" {
		env, err := FromEnv(DefaultConfig())
		if err != nil {
			return Config{}, err
		}
		dir = env.DataDir
	}

	base := DefaultConfig()
	base.DataDir = dir
	cfg, err := loadInto(ConfigPath(dir), base)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		cfg = base
	case err != nil:
		return Config{}, err
	}

	if cfg, err = FromEnv(cfg); err != nil {
		return Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
