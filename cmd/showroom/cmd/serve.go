package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/api"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr   string
	noBackup    bool
	keepBackups int
)

// serveCmd runs the JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over a local JSON API",
	Long: `Serve the ledger over a local JSON API under /api/v1, with a /health
endpoint. Unless --no-backup is set, the record store is also backed up on
the SHOWROOM_BACKUP_SCHEDULE cron schedule.

Example:
  showroom serve
  showroom serve --addr :9090 --no-backup`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Setup structured JSON logging.
	logLevel := slog.LevelInfo
	if debug || os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	a := openApp()
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	var sched *scheduler.Scheduler
	if !noBackup {
		job := scheduler.NewBackupJob(a.store, a.paths, a.conn, logger.With("component", "backup"))
		job.Keep = keepBackups
		sched = scheduler.New(job, logger.With("component", "scheduler"))
		exitOnError(sched.Schedule(a.cfg.Backup.Schedule), "invalid backup schedule")
		sched.Start()
		slog.Info("next backup", "at", sched.Next())
		defer sched.Stop()
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(a.svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting showroom API", "addr", addr, "store", a.store.Path())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return
	}
	<-done

	slog.Info("server stopped")
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default SHOWROOM_HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&noBackup, "no-backup", false, "Disable scheduled backups")
	serveCmd.Flags().IntVar(&keepBackups, "keep-backups", 14, "Number of backup files to keep (0 keeps all)")
}
