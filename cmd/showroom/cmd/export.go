package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/beancount"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/converter"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/db"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/report"
)

var (
	outputPath string
	dryRun     bool
)

// exportCmd groups the export commands.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the books to XLSX or Beancount",
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write an XLSX report of the books",
	Long: `Write an XLSX workbook with a summary sheet, stock, sales, the cash and
bank books, and the creditor and debtor overviews.

Example:
  showroom export xlsx
  showroom export xlsx --output ./report.xlsx`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		now := time.Now()
		path := outputPath
		if path == "" {
			path = a.paths.GetReportPath(now)
		}

		exitOnError(report.WriteFile(path, a.snapshot(), now), "failed to write report")
		slog.Info("Report written", "path", path)
		fmt.Printf("Report written to %s\n", path)
	},
}

var exportBeancountCmd = &cobra.Command{
	Use:   "beancount",
	Short: "Append new records to monthly Beancount files",
	Long: `Append purchases, sales and book entries to monthly Beancount files.

This command:
1. Loads every record from the store
2. Filters out records already exported
3. Converts them to Beancount transactions
4. Appends to monthly Beancount files
5. Records export history in SQLite

Example:
  showroom export beancount
  showroom export beancount --dry-run`,
	Args: cobra.NoArgs,
	Run:  runExportBeancount,
}

func runExportBeancount(cmd *cobra.Command, args []string) {
	slog.Info("Starting Beancount export", "dry_run", dryRun)

	a := openApp(
		[]string{"beancount", "root"},
		[]string{"beancount", "accountMapping"},
	)
	defer a.Close()

	mapper, err := converter.NewMapper(a.cfg.Beancount.AccountMapping)
	exitOnError(err, "failed to load account mapping")

	currency := a.cfg.Beancount.Currency
	if currency == "" {
		currency = mapper.Currency()
	}
	cvtr := converter.NewConverter(mapper, currency)
	history := db.NewExportHistory(a.conn)

	pending, err := cvtr.Pending(a.snapshot(), history)
	exitOnError(err, "failed to collect records")

	if len(pending) == 0 {
		fmt.Println("No new records to export")
		return
	}

	if dryRun {
		month := ""
		for _, p := range pending {
			if p.Month() != month {
				month = p.Month()
				filePath, err := a.paths.GetMonthFilePath(month)
				exitOnError(err, "failed to get month file path")
				fmt.Printf("[DRY RUN] Would append to %s\n", filePath)
			}
			fmt.Println(cvtr.FormatTransaction(p.Transaction))
		}
		return
	}

	repo := beancount.NewFileSystemRepository(a.paths, currency)
	result, err := cvtr.Export(pending, repo, history, a.paths.GetMonthFilePath)
	exitOnError(err, "failed to export")

	stats, err := history.Stats()
	if err == nil {
		fmt.Println("\n=== Export Statistics ===")
		fmt.Printf("Exported this run:   %d\n", result.Transactions)
		fmt.Printf("Purchases exported:  %d\n", stats.ByType[db.RecordPurchase])
		fmt.Printf("Sales exported:      %d\n", stats.ByType[db.RecordSale])
		fmt.Printf("Cash rows exported:  %d\n", stats.ByType[db.RecordCash])
		fmt.Printf("Bank rows exported:  %d\n", stats.ByType[db.RecordBank])
		if stats.LastExport.Valid {
			fmt.Printf("Last export:         %s\n", stats.LastExport.String)
		}
		fmt.Println()
	}

	slog.Info("Export completed",
		"transactions", result.Transactions,
		"files_written", len(result.Files),
	)
}

var exportForgetCmd = &cobra.Command{
	Use:   "forget TYPE ID",
	Short: "Drop a record from the export history",
	Long: `Drop a record from the export history so the next Beancount export
writes it again. TYPE is one of purchase, sale, cash or bank. Remove the old
transaction from the Beancount file by hand before re-exporting.

Example:
  showroom export forget sale 3f0c2a9e-6d1b-4b8e-9a57-0d2f5c1e7b44`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		recordType := db.RecordType(args[0])
		switch recordType {
		case db.RecordPurchase, db.RecordSale, db.RecordCash, db.RecordBank:
		default:
			exitOnError(fmt.Errorf("unknown record type %q", args[0]), "invalid arguments")
		}

		a := openApp()
		defer a.Close()

		removed, err := db.NewExportHistory(a.conn).Forget(recordType, args[1])
		exitOnError(err, "failed to update export history")
		if !removed {
			fmt.Printf("%s %s was not in the export history\n", recordType, args[1])
			return
		}
		fmt.Printf("%s %s will be exported again\n", recordType, args[1])
	},
}

func init() {
	exportXLSXCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report path (default <exportDir>/showroom-report-<time>.xlsx)")
	exportBeancountCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (no file writes)")

	exportCmd.AddCommand(exportXLSXCmd, exportBeancountCmd, exportForgetCmd)
}
