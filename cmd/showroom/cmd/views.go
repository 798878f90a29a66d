package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// creditorsCmd lists every supplier with its balance.
var creditorsCmd = &cobra.Command{
	Use:   "creditors",
	Short: "List creditors with their balances",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		tw := newTable()
		fmt.Fprintln(tw, "SR\tNAME\tPURCHASE\tPAID\tBALANCE")
		for _, c := range ledger.Creditors(a.snapshot()) {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				c.SrNo, c.Name, ledger.FormatAmount(c.TotalPurchase), ledger.FormatAmount(c.TotalPaid),
				ledger.FormatBalance(c.Balance, ledger.CreditorSign))
		}
		tw.Flush()
	},
}

// creditorCmd groups single-creditor views.
var creditorCmd = &cobra.Command{
	Use:   "creditor",
	Short: "Inspect one creditor",
}

var creditorShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a creditor's ledger",
	Long: `Show the merged purchase and payment history of a supplier with the
running balance.

Example:
  showroom creditor show "Acme"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		l, err := a.svc.PartyLedger(models.PersonCreditor, args[0])
		exitOnError(err, "failed to load creditor ledger")
		printPartyLedger(l)
	},
}

// summaryCmd prints the dashboard overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard overview",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		snap := a.snapshot()
		s := ledger.Summarize(snap)

		fmt.Println("\n=== Showroom Summary ===")
		if snap.BankDetails != nil {
			fmt.Printf("Bank:              %s (%s)\n", snap.BankDetails.Name, snap.BankDetails.AccountNumber)
		}
		fmt.Printf("Suppliers:         %d\n", s.Suppliers)
		fmt.Printf("Debtors:           %d\n", s.Debtors)
		fmt.Printf("Stock units:       %d\n", s.StockUnits)
		fmt.Printf("Stock value:       %s\n", ledger.FormatAmount(s.StockValue))
		fmt.Printf("Sales:             %d\n", s.Sales)
		fmt.Printf("Cash balance:      %s\n", ledger.FormatBalance(s.CashBalance, ledger.CashBookSign))
		fmt.Printf("Bank balance:      %s\n", ledger.FormatBalance(s.BankBalance, ledger.BankBookSign))
		fmt.Printf("Total remaining:   %s\n", ledger.FormatAmount(s.TotalRemaining))
		fmt.Printf("Owed to creditors: %s\n", ledger.FormatBalance(s.CreditorBalance, ledger.CreditorSign))
		fmt.Println()
	},
}

func printPartyLedger(l ledger.PartyLedger) {
	fmt.Printf("\n=== %s (%s) ===\n", l.Party, l.Kind)
	printEntries(l.Entries, l.Policy, true)
	fmt.Printf("\nPurchased: %s  Sold: %s  Received: %s  Paid: %s\n",
		ledger.FormatAmount(l.Totals.Purchased), ledger.FormatAmount(l.Totals.Sold),
		ledger.FormatAmount(l.Totals.Received()), ledger.FormatAmount(l.Totals.Paid))
	fmt.Printf("Balance:   %s\n\n", ledger.FormatBalance(l.Balance, l.Policy))
}

func printBook(b ledger.Book) {
	fmt.Printf("\n=== %s ===\n", b.Name)
	printEntries(b.Entries, b.Policy, false)
	fmt.Printf("\nTotal debit: %s  Total credit: %s\n", ledger.FormatAmount(b.TotalDebit), ledger.FormatAmount(b.TotalCredit))
	fmt.Printf("Balance:     %s\n\n", ledger.FormatBalance(b.Balance, b.Policy))
}

func printEntries(entries []ledger.Entry, p ledger.SignPolicy, withKind bool) {
	tw := newTable()
	if withKind {
		fmt.Fprintln(tw, "DATE\tKIND\tPARTICULAR\tREF\tDEBIT\tCREDIT\tBALANCE")
	} else {
		fmt.Fprintln(tw, "ID\tDATE\tPARTICULAR\tDEBIT\tCREDIT\tBALANCE")
	}
	for _, e := range entries {
		if withKind {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Date, e.Kind, e.Particular, e.Reference,
				ledger.FormatColumn(e.Debit), ledger.FormatColumn(e.Credit), ledger.FormatBalance(e.Balance, p))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.Particular,
			ledger.FormatColumn(e.Debit), ledger.FormatColumn(e.Credit), ledger.FormatBalance(e.Balance, p))
	}
	tw.Flush()
}

func init() {
	creditorCmd.AddCommand(creditorShowCmd)
}
