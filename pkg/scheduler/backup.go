// Package scheduler runs periodic snapshots of the record store on a cron
// schedule.
package scheduler

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/pathutil"
)

// MetadataLastBackup is the metadata key holding the path of the newest backup.
const MetadataLastBackup = "last_backup"

// Source produces a consistent copy of the store.
type Source interface {
	Backup(w io.Writer) (int64, error)
}

// Metadata records bookkeeping values such as the last backup path.
type Metadata interface {
	SetMetadata(key, value string) error
}

// BackupJob writes one backup file per run and prunes the oldest files
// beyond Keep.
type BackupJob struct {
	source   Source
	resolver *pathutil.PathResolver
	meta     Metadata
	logger   *slog.Logger
	now      func() time.Time

	// Keep is the number of backup files retained. Zero keeps everything.
	Keep int
}

// NewBackupJob creates a backup job. meta may be nil.
func NewBackupJob(source Source, resolver *pathutil.PathResolver, meta Metadata, logger *slog.Logger) *BackupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupJob{
		source:   source,
		resolver: resolver,
		meta:     meta,
		logger:   logger,
		now:      time.Now,
	}
}

// RunOnce writes a backup and returns its path. The file only appears under
// its final name once fully written.
func (j *BackupJob) RunOnce() (string, error) {
	path := j.resolver.GetBackupPath(j.now())
	if err := j.resolver.EnsureParentDir(path); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	n, err := j.source.Backup(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move backup into place: %w", err)
	}

	j.logger.Info("Backup written", "path", path, "bytes", n)

	if j.meta != nil {
		if err := j.meta.SetMetadata(MetadataLastBackup, path); err != nil {
			j.logger.Warn("Failed to record last backup", "error", err)
		}
	}
	if err := j.prune(); err != nil {
		j.logger.Warn("Failed to prune old backups", "error", err)
	}
	return path, nil
}

// prune removes the oldest backups beyond Keep. Backup names embed a sortable
// timestamp.
func (j *BackupJob) prune() error {
	if j.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(j.resolver.GetBackupDir())
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "showroom-") && filepath.Ext(e.Name()) == ".db" {
			names = append(names, e.Name())
		}
	}
	if len(names) <= j.Keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-j.Keep] {
		if err := os.Remove(filepath.Join(j.resolver.GetBackupDir(), name)); err != nil {
			return err
		}
		j.logger.Debug("Removed old backup", "name", name)
	}
	return nil
}

// Scheduler runs a BackupJob on a cron schedule with a seconds field, e.g.
// "0 0 1 * * *" for 01:00:00 every day.
type Scheduler struct {
	cron   *cron.Cron
	job    *BackupJob
	logger *slog.Logger

	mu      sync.Mutex
	jobID   cron.EntryID
	running bool
}

// New creates a scheduler for job.
func New(job *BackupJob, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		job:    job,
		logger: logger,
	}
}

// Schedule sets or replaces the backup schedule.
func (s *Scheduler) Schedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobID != 0 {
		s.cron.Remove(s.jobID)
		s.jobID = 0
	}
	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return fmt.Errorf("error scheduling backup %q: %w", spec, err)
	}
	s.jobID = id
	s.logger.Info("Backup scheduled", "schedule", spec)
	return nil
}

// Next returns the next scheduled run. It is the zero time until the
// scheduler has started.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.jobID).Next
}

// Start starts the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("Backup scheduler started")
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Backup scheduler stopped")
}

func (s *Scheduler) run() {
	if _, err := s.job.RunOnce(); err != nil {
		s.logger.Error("Scheduled backup failed", "error", err)
	}
}
