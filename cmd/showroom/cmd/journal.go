package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/beancount"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/db"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/scheduler"
)

var journalLimit int

// journalCmd represents the journal command.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Display store, batch journal and export statistics",
	Long: `Display statistics about applied batches, Beancount exports and backups.

Shows:
- The record store and the collections it holds
- Applied, failed and pending batches
- Batches an earlier run left pending
- The most recent batches
- Exported records and the last export timestamp
- This year's Beancount month files
- The newest backup file

Example:
  showroom journal
  showroom journal --limit 20`,
	Args: cobra.NoArgs,
	Run:  runJournal,
}

func runJournal(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	stats, err := a.journal.Stats()
	exitOnError(err, "failed to get journal statistics")

	keys, err := a.store.Keys()
	exitOnError(err, "failed to list stored collections")

	fmt.Println("\n=== Record Store ===")
	fmt.Printf("Store:       %s\n", a.store.Path())
	fmt.Printf("Collections: %s\n", strings.Join(keys, ", "))

	fmt.Println("\n=== Batch Journal ===")
	fmt.Printf("Journal:         %s\n", a.conn.GetPath())
	fmt.Printf("Applied batches: %d\n", stats.Applied)
	fmt.Printf("Failed batches:  %d\n", stats.Failed)
	fmt.Printf("Pending batches: %d\n", stats.Pending)

	if stats.Pending > 0 {
		pending, err := a.journal.Pending()
		exitOnError(err, "failed to list pending batches")
		fmt.Println("\nLeft pending (the store may hold a partial write; run 'showroom recompute'):")
		printBatches(pending)
	}

	recent, err := a.journal.Recent(journalLimit)
	exitOnError(err, "failed to list recent batches")
	if len(recent) > 0 {
		fmt.Println("\nRecent batches:")
		printBatches(recent)
	}

	exports, err := db.NewExportHistory(a.conn).Stats()
	exitOnError(err, "failed to get export statistics")

	fmt.Println("\n=== Export Statistics ===")
	fmt.Printf("Total exported: %d\n", exports.Total)
	if exports.LastExport.Valid {
		fmt.Printf("Last export:    %s\n", exports.LastExport.String)
	} else {
		fmt.Printf("Last export:    (never)\n")
	}

	year := time.Now().Format("2006")
	months, err := beancount.NewFileSystemRepository(a.paths, "").Months(year)
	exitOnError(err, "failed to list Beancount files")
	if len(months) > 0 {
		fmt.Printf("Files %s:     %s\n", year, strings.Join(months, ", "))
	}

	lastBackup, err := a.conn.GetMetadata(scheduler.MetadataLastBackup)
	exitOnError(err, "failed to read backup metadata")
	if lastBackup == "" {
		lastBackup = "(never)"
	}
	fmt.Printf("Last backup:    %s\n", lastBackup)

	fmt.Println()

	slog.Debug("Statistics displayed successfully")
}

func printBatches(records []db.BatchRecord) {
	tw := newTable()
	fmt.Fprintln(tw, "ID\tSTARTED\tOPERATION\tCOLLECTIONS\tSTATUS\tERROR")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Operation,
			strings.Join(r.Collections, ","), r.Status, r.Error)
	}
	tw.Flush()
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 10, "Number of recent batches to show")
}
