package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var configKeys = []string{
	"SHOWROOM_DATA_DIR",
	"SHOWROOM_STORE_PATH",
	"SHOWROOM_JOURNAL_PATH",
	"SHOWROOM_EXPORT_DIR",
	"SHOWROOM_BEANCOUNT_ROOT",
	"SHOWROOM_ACCOUNT_MAPPING",
	"SHOWROOM_CURRENCY",
	"SHOWROOM_HTTP_ADDR",
	"SHOWROOM_BACKUP_SCHEDULE",
	"SHOWROOM_BACKUP_DIR",
	"DEBUG",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.DataDir != "./data" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Beancount.Currency != "INR" {
		t.Errorf("Currency = %q", cfg.Beancount.Currency)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Backup.Schedule != "0 0 1 * * *" {
		t.Errorf("Schedule = %q", cfg.Backup.Schedule)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "showroom.env")
	content := strings.Join([]string{
		"SHOWROOM_DATA_DIR=/srv/showroom",
		"SHOWROOM_BEANCOUNT_ROOT=/srv/beancount",
		"SHOWROOM_CURRENCY=usd",
		"DEBUG=true",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Storage.DataDir != "/srv/showroom" || cfg.Beancount.Root != "/srv/beancount" {
		t.Errorf("paths = %+v %+v", cfg.Storage, cfg.Beancount)
	}
	if cfg.Beancount.Currency != "USD" {
		t.Errorf("Currency = %q", cfg.Beancount.Currency)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() with a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Storage:   StorageConfig{DataDir: "./data"},
		Beancount: BeancountConfig{AccountMapping: "mapping.yaml", Currency: "INR"},
	}

	tests := []struct {
		name     string
		required [][]string
		missing  string
	}{
		{"all present", [][]string{{"storage", "dataDir"}, {"beancount", "currency"}}, ""},
		{"missing root", [][]string{{"beancount", "root"}}, "beancount.root"},
		{"missing backup dir", [][]string{{"storage", "dataDir"}, {"backup", "dir"}}, "backup.dir"},
		{"unknown setting", [][]string{{"storage"}}, `unknown configuration setting "storage"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cfg.Validate(tt.required...)
			if tt.missing == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("expected error naming %s, got %v", tt.missing, err)
			}
		})
	}
}
