// Package cmd provides CLI commands for the showroom ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "showroom",
	Short: "Bookkeeping for a tractor dealership",
	Long: `showroom keeps the books of a tractor dealership: suppliers and
customers, purchases into stock, sales out of stock, and the cash and bank
books with their running balances.

It supports:
- Recording purchases, sales, receipts and payments
- Creditor and debtor ledgers recomputed from the transaction history
- XLSX reports and Beancount export
- A local JSON API with scheduled store backups

Example:
  showroom purchase --supplier "Acme" --chassis CH-1 --model MF-241 --invoice INV-7 --amount 50000
  showroom pay --type creditor --name "Acme" --amount 20000 --book cash
  showroom creditor show "Acme"
  showroom serve`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug || os.Getenv("DEBUG") == "true" {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
	SilenceUsage: true,
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file to load (default ./.env when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(supplierCmd)
	rootCmd.AddCommand(debtorCmd)
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(saleCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(receiveCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(cashbookCmd)
	rootCmd.AddCommand(bankbookCmd)
	rootCmd.AddCommand(bankAccountCmd)
	rootCmd.AddCommand(creditorsCmd)
	rootCmd.AddCommand(creditorCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recomputeCmd)
}

// exitOnError logs err and exits with status 1 when err is not nil.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
