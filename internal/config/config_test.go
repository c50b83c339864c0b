package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/packsync/packsync/internal/config"
)

// isolatedEnv points the global config lookup at a throwaway dir so
// tests never read the developer's real ~/.config.
func isolatedEnv(t *testing.T) ([]string, string) {
	t.Helper()

	configHome := t.TempDir()

	return []string{"XDG_CONFIG_HOME=" + configHome}, configHome
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	if err = os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func Test_Load_Applies_Defaults_Under_Project_File(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(workDir, config.ConfigFileName), `{"base_url": "https://packsync.test"}`)

	cfg, sources, err := config.Load(workDir, "", config.Config{}, env)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != "https://packsync.test" {
		t.Fatalf("base_url = %q", cfg.BaseURL)
	}

	if cfg.TimeoutSeconds != 30 || cfg.Retries != 2 || cfg.ProbeIntervalSeconds != 15 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	if sources.Project != filepath.Join(workDir, config.ConfigFileName) {
		t.Fatalf("project source = %q", sources.Project)
	}
}

func Test_Project_File_Overrides_Global(t *testing.T) {
	t.Parallel()

	env, configHome := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(configHome, "packsync", "config.json"),
		`{"base_url": "https://global.test", "timeout_seconds": 60}`)
	writeConfig(t, filepath.Join(workDir, config.ConfigFileName),
		`{"base_url": "https://project.test"}`)

	cfg, sources, err := config.Load(workDir, "", config.Config{}, env)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != "https://project.test" {
		t.Fatalf("base_url = %q, project file must win", cfg.BaseURL)
	}

	if cfg.TimeoutSeconds != 60 {
		t.Fatalf("timeout = %d, unset project fields keep global values", cfg.TimeoutSeconds)
	}

	if sources.Global == "" || sources.Project == "" {
		t.Fatalf("sources = %+v, both files were read", sources)
	}
}

func Test_CLI_Overrides_Win_Over_Files(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(workDir, config.ConfigFileName),
		`{"base_url": "https://project.test", "timeout_seconds": 60}`)

	overrides := config.Config{BaseURL: "https://flag.test", TimeoutSeconds: 5}

	cfg, _, err := config.Load(workDir, "", overrides, env)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != "https://flag.test" || cfg.TimeoutSeconds != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func Test_Explicit_Config_File_Must_Exist(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	_, _, err := config.Load(workDir, "missing.json", config.Config{}, env)
	if !errors.Is(err, config.ErrConfigFileNotFound) {
		t.Fatalf("err = %v, want ErrConfigFileNotFound", err)
	}
}

func Test_Config_Accepts_Comments_And_Trailing_Commas(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(workDir, config.ConfigFileName), `{
		// shared team server
		"base_url": "https://packsync.test",
		"retries": 4, // flaky office wifi
	}`)

	cfg, _, err := config.Load(workDir, "", config.Config{}, env)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Retries != 4 {
		t.Fatalf("retries = %d, want 4", cfg.Retries)
	}
}

func Test_Malformed_Config_Reports_ErrConfigInvalid(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(workDir, config.ConfigFileName), `{"base_url": `)

	_, _, err := config.Load(workDir, "", config.Config{}, env)
	if !errors.Is(err, config.ErrConfigInvalid) {
		t.Fatalf("err = %v, want ErrConfigInvalid", err)
	}
}

func Test_Missing_BaseURL_Fails_Validation(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)

	_, _, err := config.Load(t.TempDir(), "", config.Config{}, env)
	if err == nil {
		t.Fatal("config without base_url must not validate")
	}
}

func Test_Negative_Timeout_Fails_Validation(t *testing.T) {
	t.Parallel()

	env, _ := isolatedEnv(t)
	workDir := t.TempDir()

	writeConfig(t, filepath.Join(workDir, config.ConfigFileName),
		`{"base_url": "https://packsync.test", "timeout_seconds": -3}`)

	_, _, err := config.Load(workDir, "", config.Config{}, env)
	if err == nil {
		t.Fatal("negative timeout must not validate")
	}
}
