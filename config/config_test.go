// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Executable", cfg.Executable, "green-cli"},
		{"Timeout", cfg.Timeout, 60 * time.Second},
		{"StagingDir", cfg.StagingDir, ""},
		{"RetainArtifacts", cfg.RetainArtifacts, false},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:         "/tmp/test-green",
		Executable:      "/opt/green/bin/green-cli",
		Timeout:         90 * time.Second,
		StagingDir:      "/tmp/test-green/tx",
		RetainArtifacts: true,
		LogLevel:        "debug",
		LogFile:         "/tmp/green.log",
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "config")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestSaveConfig_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "config")
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("mode = %o, want 600", got)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error and parsing tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig missing file: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("executable green-cli\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig invalid line: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigEmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(" = value\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig empty key: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad timeout", "timeout = soon\n"},
		{"bare number timeout", "timeout = 30\n"},
		{"bad retain", "retain = maybe\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config")
			if err := os.WriteFile(path, []byte(tc.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("got %v, want ErrInvalidValue", err)
			}
			if err != nil && !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error %q should name the line", err)
			}
		})
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# a comment

   # indented comment
executable = /usr/local/bin/green-cli

loglevel = warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Executable != "/usr/local/bin/green-cli" {
		t.Errorf("Executable = %q, want %q", cfg.Executable, "/usr/local/bin/green-cli")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	// Unset keys keep their defaults.
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want default 60s", cfg.Timeout)
	}
}

func TestLoadConfigUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "network = testnet\nfoo = bar\nloglevel = error\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
}

func TestLoadConfig_EmptyValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("logfile =\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", cfg.LogFile)
	}
}

func TestLoadConfig_MultipleEquals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("executable = /opt/a=b/green-cli\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Executable != "/opt/a=b/green-cli" {
		t.Errorf("Executable = %q, want %q", cfg.Executable, "/opt/a=b/green-cli")
	}
}

func TestLoadConfig_WhitespaceAndKeyCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("  TIMEOUT   =   2m30s  \nRetain=true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Timeout != 150*time.Second {
		t.Errorf("Timeout = %v, want 2m30s", cfg.Timeout)
	}
	if !cfg.RetainArtifacts {
		t.Error("RetainArtifacts = false, want true")
	}
}

func TestLoadConfig_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission test not reliable on Windows")
	}
	if os.Getuid() == 0 {
		t.Skip("cannot test permission denial as root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("loglevel=debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(path, 0600) })

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig on unreadable file: expected error, got nil")
	}
	if errors.Is(err, ErrConfigNotFound) {
		t.Error("LoadConfig on unreadable file should not return ErrConfigNotFound")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig output tests
// ---------------------------------------------------------------------------

func TestSaveConfig_OutputContainsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# green-cli bridge configuration") {
		t.Errorf("config file should start with header comment, got:\n%s", data)
	}
}

func TestSaveConfig_OutputContainsAllKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, key := range []string{"datadir", "executable", "timeout", "stagingdir", "retain", "loglevel", "logfile"} {
		if !strings.Contains(content, key+" = ") {
			t.Errorf("config file missing key %q", key)
		}
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"empty datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"empty executable", func(c *Config) { c.Executable = "" }, ErrEmptyExecutable},
		{"blank executable", func(c *Config) { c.Executable = "  " }, ErrEmptyExecutable},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, ErrInvalidLogLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateConfigZeroTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("zero timeout should select the runner default, got %v", err)
	}
}

func TestValidateConfigNegativeTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = -time.Second
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("negative timeout disables the limit, got %v", err)
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"DEBUG", "Info", "wArN", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig(LogLevel=%q) = %v, want nil", level, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.green")
	want := filepath.Join("/home/user/.green", "config")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestConfigPath_WithTrailingSlash(t *testing.T) {
	got := ConfigPath("/foo/")
	want := filepath.Join("/foo", "config")
	if got != want {
		t.Errorf("ConfigPath(%q) = %q, want %q", "/foo/", got, want)
	}
}

func TestDefaultDataDir_EndsWith_DotGreen(t *testing.T) {
	if got := filepath.Base(DefaultDataDir()); got != ".green" {
		t.Errorf("DefaultDataDir base = %q, want .green", got)
	}
}

func TestStagingAndRegistryPaths(t *testing.T) {
	cfg := Config{DataDir: "/var/green"}
	if got, want := cfg.StagingPath(), filepath.Join("/var/green", "staging"); got != want {
		t.Errorf("StagingPath = %q, want %q", got, want)
	}
	if got, want := cfg.RegistryPath(), filepath.Join("/var/green", "staging.db"); got != want {
		t.Errorf("RegistryPath = %q, want %q", got, want)
	}

	cfg.StagingDir = "/scratch/tx"
	if got := cfg.StagingPath(); got != "/scratch/tx" {
		t.Errorf("StagingPath with override = %q, want /scratch/tx", got)
	}
}

// ---------------------------------------------------------------------------
// Environment overlay and resolution
// ---------------------------------------------------------------------------

func TestFromEnv(t *testing.T) {
	t.Setenv("GREEN_EXECUTABLE", "/env/green-cli")
	t.Setenv("GREEN_TIMEOUT", "5s")
	t.Setenv("GREEN_RETAIN_ARTIFACTS", "true")
	t.Setenv("GREEN_LOG_LEVEL", "debug")

	cfg, err := FromEnv(DefaultConfig())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Executable != "/env/green-cli" {
		t.Errorf("Executable = %q", cfg.Executable)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if !cfg.RetainArtifacts {
		t.Error("RetainArtifacts = false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestFromEnv_UnsetKeepsBase(t *testing.T) {
	base := DefaultConfig()
	base.Executable = "/base/green-cli"
	base.LogFile = "/base/log"

	cfg, err := FromEnv(base)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Executable != "/base/green-cli" || cfg.LogFile != "/base/log" {
		t.Errorf("unset variables changed the base: %+v", cfg)
	}
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("GREEN_TIMEOUT", "forever")

	_, err := FromEnv(DefaultConfig())
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("got %v, want ErrInvalidValue", err)
	}
}

func TestResolve_NoFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.Executable != "green-cli" {
		t.Errorf("Executable = %q, want default", cfg.Executable)
	}
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	content := "executable = /file/green-cli\ntimeout = 10s\nloglevel = warn\n"
	if err := os.WriteFile(ConfigPath(dir), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GREEN_TIMEOUT", "20s")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"file beats default", cfg.Executable, "/file/green-cli"},
		{"env beats file", cfg.Timeout, 20 * time.Second},
		{"file log level", cfg.LogLevel, "warn"},
		{"argument datadir", cfg.DataDir, dir},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestResolve_DataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ConfigPath(dir), []byte("loglevel = error\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GREEN_DATADIR", dir)

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error (from file in env datadir)", cfg.LogLevel)
	}
}

func TestResolve_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ConfigPath(dir), []byte("loglevel = chatty\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(dir)
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("got %v, want ErrInvalidLogLevel", err)
	}
}
