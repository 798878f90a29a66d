// Package config loads the showroom ledger configuration from environment
// variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Storage   StorageConfig
	Beancount BeancountConfig
	Server    ServerConfig
	Backup    BackupConfig
	ExportDir string
	Debug     bool
}

// StorageConfig locates the record store and the batch journal.
type StorageConfig struct {
	DataDir     string
	StorePath   string
	JournalPath string
}

// BeancountConfig represents Beancount export configuration.
type BeancountConfig struct {
	Root           string
	AccountMapping string
	Currency       string
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr string
}

// BackupConfig configures scheduled snapshots of the record store.
type BackupConfig struct {
	// Schedule is a six-field cron expression (seconds first).
	Schedule string
	Dir      string
}

// Load loads configuration from environment variables.
// It loads .env from the current directory if present; a custom .env path
// must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	config := &Config{
		Storage: StorageConfig{
			DataDir:     getEnvOrDefault("SHOWROOM_DATA_DIR", "./data"),
			StorePath:   os.Getenv("SHOWROOM_STORE_PATH"),
			JournalPath: os.Getenv("SHOWROOM_JOURNAL_PATH"),
		},
		Beancount: BeancountConfig{
			Root:           os.Getenv("SHOWROOM_BEANCOUNT_ROOT"),
			AccountMapping: getEnvOrDefault("SHOWROOM_ACCOUNT_MAPPING", "config/account-mapping.yaml"),
			Currency:       strings.ToUpper(getEnvOrDefault("SHOWROOM_CURRENCY", "INR")),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("SHOWROOM_HTTP_ADDR", "127.0.0.1:8080"),
		},
		Backup: BackupConfig{
			Schedule: getEnvOrDefault("SHOWROOM_BACKUP_SCHEDULE", "0 0 1 * * *"),
			Dir:      os.Getenv("SHOWROOM_BACKUP_DIR"),
		},
		ExportDir: os.Getenv("SHOWROOM_EXPORT_DIR"),
		Debug:     os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// settings names each configurable value by its dotted path.
func (c *Config) settings() map[string]string {
	return map[string]string{
		"storage.dataDir":          c.Storage.DataDir,
		"storage.storePath":        c.Storage.StorePath,
		"storage.journalPath":      c.Storage.JournalPath,
		"beancount.root":           c.Beancount.Root,
		"beancount.accountMapping": c.Beancount.AccountMapping,
		"beancount.currency":       c.Beancount.Currency,
		"server.addr":              c.Server.Addr,
		"backup.schedule":          c.Backup.Schedule,
		"backup.dir":               c.Backup.Dir,
	}
}

// Validate checks that every required setting is present.
// Each path names a setting, e.g. []string{"beancount", "accountMapping"}.
func (c *Config) Validate(required ...[]string) error {
	settings := c.settings()

	var missing []string
	for _, path := range required {
		key := strings.Join(path, ".")
		value, known := settings[key]
		if !known {
			return fmt.Errorf("unknown configuration setting %q", key)
		}
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
