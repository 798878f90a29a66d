package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// supplierCmd groups the supplier commands.
var supplierCmd = &cobra.Command{
	Use:   "supplier",
	Short: "Manage suppliers",
}

var supplierAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a supplier",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.AddSupplier(args[0]), "failed to add supplier")
		fmt.Printf("Added supplier %s\n", args[0])
	},
}

var supplierRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a supplier",
	Long: `Rename a supplier. Purchases, stock and payments recorded under the old
name are moved to the new one.

Example:
  showroom supplier rename "Acme" "Acme Tractors"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.RenameSupplier(args[0], args[1]), "failed to rename supplier")
		fmt.Printf("Renamed supplier %s to %s\n", args[0], args[1])
	},
}

var supplierDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a supplier with its purchases and their stock",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteSupplier(args[0]), "failed to delete supplier")
		fmt.Printf("Deleted supplier %s\n", args[0])
	},
}

var supplierListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suppliers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		for _, name := range a.snapshot().Suppliers {
			fmt.Println(name)
		}
	},
}

// debtorCmd groups the debtor commands.
var debtorCmd = &cobra.Command{
	Use:   "debtor",
	Short: "Manage debtors (customers)",
}

var debtorFlags struct {
	date    string
	name    string
	address string
	phone   string
	finance string
}

func debtorInput() bookkeeping.DebtorInput {
	return bookkeeping.DebtorInput{
		Date:    parseDateFlag(debtorFlags.date),
		Name:    debtorFlags.name,
		Address: debtorFlags.address,
		Phone:   debtorFlags.phone,
		Finance: debtorFlags.finance,
	}
}

var debtorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a debtor",
	Long: `Register a debtor.

Example:
  showroom debtor add --name "Ravi" --address "Main Road" --phone 9800000000`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		d, err := a.svc.AddDebtor(debtorInput())
		exitOnError(err, "failed to add debtor")
		fmt.Printf("Added debtor %s (id %s)\n", d.Name, d.ID)
	},
}

var debtorUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a debtor",
	Long: `Edit a debtor. A changed name is carried over to the debtor's sales,
purchases and transactions.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		d, err := a.svc.UpdateDebtor(models.ID(args[0]), debtorInput())
		exitOnError(err, "failed to update debtor")
		fmt.Printf("Updated debtor %s\n", d.Name)
	},
}

var debtorRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a debtor and every record that names them",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		d, err := a.svc.RenameDebtor(args[0], args[1])
		exitOnError(err, "failed to rename debtor")
		fmt.Printf("Renamed debtor %s to %s\n", args[0], d.Name)
	},
}

var debtorDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a debtor record; its history stays in the books",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteDebtor(models.ID(args[0])), "failed to delete debtor")
		fmt.Printf("Deleted debtor %s\n", args[0])
	},
}

var debtorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List debtors with their totals",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		tw := newTable()
		fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSALES\tPURCHASE\tPAID\tREMAINING")
		for _, d := range ledger.Debtors(a.snapshot()) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s %s\n",
				d.Debtor.ID, d.Debtor.Name, d.Debtor.Phone,
				ledger.FormatAmount(d.TotalSales), ledger.FormatAmount(d.TotalPurchase), ledger.FormatAmount(d.TotalPaid),
				ledger.FormatAmount(d.RemainingAmount.Abs()), d.Label)
		}
		tw.Flush()
	},
}

var debtorShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a debtor's ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		l, err := a.svc.PartyLedger(models.PersonDebtor, args[0])
		exitOnError(err, "failed to load debtor ledger")
		printPartyLedger(l)
		slog.Debug("Debtor ledger displayed", "name", args[0], "entries", len(l.Entries))
	},
}

func init() {
	supplierCmd.AddCommand(supplierAddCmd, supplierRenameCmd, supplierDeleteCmd, supplierListCmd)

	for _, c := range []*cobra.Command{debtorAddCmd, debtorUpdateCmd} {
		c.Flags().StringVar(&debtorFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&debtorFlags.name, "name", "", "Name (required)")
		c.Flags().StringVar(&debtorFlags.address, "address", "", "Address (required)")
		c.Flags().StringVar(&debtorFlags.phone, "phone", "", "Phone (required)")
		c.Flags().StringVar(&debtorFlags.finance, "finance", "", "Financing company")
	}
	debtorCmd.AddCommand(debtorAddCmd, debtorUpdateCmd, debtorRenameCmd, debtorDeleteCmd, debtorListCmd, debtorShowCmd)
}
