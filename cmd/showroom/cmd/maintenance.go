package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/scheduler"
)

// backupCmd takes one backup of the record store.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the record store now",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		job := scheduler.NewBackupJob(a.store, a.paths, a.conn, slog.Default())
		path, err := job.RunOnce()
		exitOnError(err, "failed to back up the record store")
		fmt.Printf("Backup written to %s\n", path)
	},
}

var confirmClear bool

// clearCmd removes every record.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record from the store",
	Long: `Delete every record from the store. Take a backup first; this cannot
be undone.

Example:
  showroom backup && showroom clear --yes`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !confirmClear {
			fmt.Fprintln(os.Stderr, "Refusing to clear the store without --yes")
			os.Exit(1)
		}

		a := openApp()
		defer a.Close()

		exitOnError(a.svc.ClearAll(), "failed to clear the store")
		fmt.Println("All records deleted")
	},
}

// importCmd loads a JSON export of the browser storage.
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a JSON export of every collection",
	Long: `Import a JSON object mapping collection keys (suppliers, debtors,
purchases, stock, sales, cashTransactions, bankTransactions, bankAccounts,
bankDetails) to their documents. Imported collections replace the stored
ones; derived debtor fields are recomputed afterwards.

Example:
  showroom import ./showroom-export.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		exitOnError(err, "failed to read import file")

		var docs map[string]json.RawMessage
		exitOnError(json.Unmarshal(data, &docs), "failed to parse import file")

		a := openApp()
		defer a.Close()

		skipped, err := a.svc.Import(docs)
		exitOnError(err, "failed to import")

		fmt.Printf("Imported %d collections\n", len(docs)-len(skipped))
		if len(skipped) > 0 {
			fmt.Printf("Skipped unknown keys: %s\n", strings.Join(skipped, ", "))
		}
	},
}

// recomputeCmd rewrites the derived debtor fields.
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute derived debtor totals from the transaction history",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.Recompute(), "failed to recompute")
		fmt.Println("Derived fields recomputed")
	},
}

func init() {
	clearCmd.Flags().BoolVar(&confirmClear, "yes", false, "Confirm deleting every record")
}
