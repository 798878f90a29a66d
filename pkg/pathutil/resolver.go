// Package pathutil provides centralized path management for the record store,
// journal, exports, backups and Beancount files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PathResolver manages every file location the application writes to.
type PathResolver struct {
	dataDir       string
	storePath     string
	journalPath   string
	exportDir     string
	backupDir     string
	beancountRoot string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataDir is the root for everything not configured explicitly (e.g., ./data)
	DataDir string
	// StorePath is the bbolt record store file
	StorePath string
	// JournalPath is the SQLite batch journal
	JournalPath string
	// ExportDir receives XLSX reports
	ExportDir string
	// BackupDir receives scheduled store snapshots
	BackupDir string
	// BeancountRoot is the root directory for Beancount files
	BeancountRoot string
}

// New creates a PathResolver. Empty paths default to locations under DataDir:
//
//	{DataDir}/showroom.db
//	{DataDir}/journal.db
//	{DataDir}/exports
//	{DataDir}/backups
//	{DataDir}/beancount
func New(config Config) *PathResolver {
	orDefault := func(value, name string) string {
		if value != "" {
			return value
		}
		return filepath.Join(config.DataDir, name)
	}

	return &PathResolver{
		dataDir:       config.DataDir,
		storePath:     orDefault(config.StorePath, "showroom.db"),
		journalPath:   orDefault(config.JournalPath, "journal.db"),
		exportDir:     orDefault(config.ExportDir, "exports"),
		backupDir:     orDefault(config.BackupDir, "backups"),
		beancountRoot: orDefault(config.BeancountRoot, "beancount"),
	}
}

// GetDataDir returns the data directory.
func (p *PathResolver) GetDataDir() string {
	return p.dataDir
}

// GetStorePath returns the record store file path.
func (p *PathResolver) GetStorePath() string {
	return p.storePath
}

// GetJournalPath returns the batch journal database path.
func (p *PathResolver) GetJournalPath() string {
	return p.journalPath
}

// GetExportDir returns the report export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetBackupDir returns the backup directory.
func (p *PathResolver) GetBackupDir() string {
	return p.backupDir
}

// GetBeancountRoot returns the Beancount root directory.
func (p *PathResolver) GetBeancountRoot() string {
	return p.beancountRoot
}

// GetYearDir returns the Beancount directory for a year.
// Example: data/beancount/2024
func (p *PathResolver) GetYearDir(year string) string {
	return filepath.Join(p.beancountRoot, year)
}

// GetMonthFilePath returns the Beancount file for a month.
// yearMonth should be in YYYY-MM format.
// Example: data/beancount/2024/2024-03.beancount
func (p *PathResolver) GetMonthFilePath(yearMonth string) (string, error) {
	parts := strings.Split(yearMonth, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}

	return filepath.Join(p.GetYearDir(parts[0]), yearMonth+".beancount"), nil
}

// GetReportPath returns the path of an XLSX report generated at t.
// Example: data/exports/showroom-2024-03-05-101500.xlsx
func (p *PathResolver) GetReportPath(t time.Time) string {
	return filepath.Join(p.exportDir, fmt.Sprintf("showroom-%s.xlsx", t.Format("2006-01-02-150405")))
}

// GetBackupPath returns the path of a store snapshot taken at t.
// Example: data/backups/showroom-20240305T010000.db
func (p *PathResolver) GetBackupPath(t time.Time) string {
	return filepath.Join(p.backupDir, fmt.Sprintf("showroom-%s.db", t.UTC().Format("20060102T150405")))
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}
