package cmd

import (
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/config"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/db"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/pathutil"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// app holds the resources a command works with.
type app struct {
	cfg     *config.Config
	paths   *pathutil.PathResolver
	store   *store.BoltStore
	conn    *db.Connection
	journal *db.BatchJournal
	svc     *bookkeeping.Service
}

// loadConfig loads and validates the configuration, exiting on failure.
func loadConfig(required ...[]string) (*config.Config, *pathutil.PathResolver) {
	slog.Debug("Loading configuration")

	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	required = append([][]string{{"storage", "dataDir"}}, required...)
	if err := cfg.Validate(required...); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		DataDir:       cfg.Storage.DataDir,
		StorePath:     cfg.Storage.StorePath,
		JournalPath:   cfg.Storage.JournalPath,
		ExportDir:     cfg.ExportDir,
		BackupDir:     cfg.Backup.Dir,
		BeancountRoot: cfg.Beancount.Root,
	})
	return cfg, pathResolver
}

// openApp opens the record store and the journal database and builds the
// bookkeeping service on top of them. Callers must Close the app.
func openApp(required ...[]string) *app {
	cfg, pathResolver := loadConfig(required...)

	storePath := pathResolver.GetStorePath()
	slog.Debug("Opening record store", "path", storePath)
	st, err := store.OpenBolt(storePath)
	exitOnError(err, "failed to open record store")

	journalPath := pathResolver.GetJournalPath()
	slog.Debug("Opening journal", "path", journalPath)
	conn, err := db.Open(journalPath)
	if err != nil {
		st.Close()
		exitOnError(err, "failed to open journal database")
	}

	journal := db.NewBatchJournal(conn)
	if pending, err := journal.Pending(); err != nil {
		slog.Warn("Failed to check the batch journal", "error", err)
	} else if len(pending) > 0 {
		slog.Warn("Batches were left pending by an earlier run; run 'showroom journal' for details", "count", len(pending))
	}

	svc := bookkeeping.NewService(store.NewRepository(st), bookkeeping.WithJournal(journal))

	return &app{
		cfg:     cfg,
		paths:   pathResolver,
		store:   st,
		conn:    conn,
		journal: journal,
		svc:     svc,
	}
}

// Close releases the store and the journal database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Failed to close record store", "error", err)
	}
	if err := a.conn.Close(); err != nil {
		slog.Error("Failed to close journal", "error", err)
	}
}

// snapshot loads every collection, exiting on failure.
func (a *app) snapshot() *models.Snapshot {
	snap, err := a.svc.Snapshot()
	exitOnError(err, "failed to load ledger")
	return snap
}

// parseDateFlag parses a --date value. An empty value means today.
func parseDateFlag(s string) models.Date {
	if s == "" {
		return models.Date{}
	}
	d, err := models.ParseDate(s)
	exitOnError(err, "invalid date (expected YYYY-MM-DD)")
	return d
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}
