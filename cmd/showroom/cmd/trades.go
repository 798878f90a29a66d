package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

var purchaseFlags struct {
	date       string
	supplier   string
	chassis    string
	model      string
	invoice    string
	amount     float64
	fromDebtor bool
	remove     string
}

// purchaseCmd records a purchase into stock.
var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Record a tractor bought from a supplier or a debtor",
	Long: `Record a purchase. The tractor is added to stock under the same id.
With --from-debtor the seller is a registered debtor (a trade-in) and the
amount is credited to their account.

Example:
  showroom purchase --supplier "Acme" --chassis CH-1 --model MF-241 --invoice INV-7 --amount 50000
  showroom purchase --supplier "Ravi" --from-debtor --chassis CH-9 --model MF-1035 --invoice TI-1 --amount 120000
  showroom purchase --delete <id>`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		if purchaseFlags.remove != "" {
			exitOnError(a.svc.DeletePurchase(models.ID(purchaseFlags.remove)), "failed to delete purchase")
			fmt.Printf("Deleted purchase %s\n", purchaseFlags.remove)
			return
		}

		personType := models.PersonCreditor
		if purchaseFlags.fromDebtor {
			personType = models.PersonDebtor
		}
		p, err := a.svc.RecordPurchase(bookkeeping.PurchaseInput{
			Date:          parseDateFlag(purchaseFlags.date),
			SupplierName:  purchaseFlags.supplier,
			ChassisNumber: purchaseFlags.chassis,
			ModelNumber:   purchaseFlags.model,
			InvoiceNumber: purchaseFlags.invoice,
			Amount:        models.Amount(purchaseFlags.amount),
			PersonType:    personType,
		})
		exitOnError(err, "failed to record purchase")
		fmt.Printf("Recorded purchase %s: %s %s for %s\n", p.ID, p.ModelNumber, p.ChassisNumber, ledger.FormatAmount(p.Amount.Decimal()))
	},
}

var saleFlags struct {
	date     string
	serial   string
	chassis  string
	customer string
	amount   float64
	remove   string
	search   string
}

// saleCmd records a sale out of stock.
var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Record, delete or search sales",
	Long: `Record a sale. The chassis must be in stock and the customer must be a
registered debtor; the stock row is removed.

Example:
  showroom sale --serial S-1 --chassis CH-1 --customer "Ravi" --amount 65000
  showroom sale --search ravi
  showroom sale --delete <id>`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		switch {
		case saleFlags.remove != "":
			exitOnError(a.svc.DeleteSale(models.ID(saleFlags.remove)), "failed to delete sale")
			fmt.Printf("Deleted sale %s\n", saleFlags.remove)
		case cmd.Flags().Changed("search") || saleFlags.chassis == "":
			printSales(a.snapshot(), saleFlags.search)
		default:
			s, err := a.svc.RecordSale(bookkeeping.SaleInput{
				Date:          parseDateFlag(saleFlags.date),
				SerialNumber:  saleFlags.serial,
				ChassisNumber: saleFlags.chassis,
				CustomerName:  saleFlags.customer,
				Amount:        models.Amount(saleFlags.amount),
			})
			exitOnError(err, "failed to record sale")
			fmt.Printf("Recorded sale %s: %s to %s for %s\n", s.ID, s.ChassisNumber, s.CustomerName, ledger.FormatAmount(s.Amount.Decimal()))
		}
	},
}

func printSales(snap *models.Snapshot, query string) {
	tw := newTable()
	fmt.Fprintln(tw, "ID\tDATE\tSERIAL\tCHASSIS\tMODEL\tCUSTOMER\tAMOUNT")
	for _, s := range snap.Sales {
		if !s.Matches(query) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Date, s.SerialNumber, s.ChassisNumber, s.ModelNumber, s.CustomerName, ledger.FormatAmount(s.Amount.Decimal()))
	}
	tw.Flush()
}

// stockCmd groups the stock commands.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage tractors in stock",
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tractors in stock",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		snap := a.snapshot()
		tw := newTable()
		fmt.Fprintln(tw, "ID\tDATE\tINVOICE\tCHASSIS\tMODEL\tSUPPLIER\tAMOUNT")
		for _, s := range snap.Stock {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Date, s.InvoiceNumber, s.ChassisNumber, s.ModelNumber, s.SupplierName, ledger.FormatAmount(s.Amount.Decimal()))
		}
		tw.Flush()
		fmt.Printf("\n%d units, %s\n", len(snap.Stock), ledger.FormatAmount(ledger.StockValue(snap)))
	},
}

var stockFlags struct {
	date    string
	invoice string
	chassis string
	model   string
	amount  float64
}

var stockUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a stock row and its purchase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		item, err := a.svc.UpdateStock(models.ID(args[0]), bookkeeping.StockInput{
			Date:          parseDateFlag(stockFlags.date),
			InvoiceNumber: stockFlags.invoice,
			ChassisNumber: stockFlags.chassis,
			ModelNumber:   stockFlags.model,
			Amount:        models.Amount(stockFlags.amount),
		})
		exitOnError(err, "failed to update stock")
		fmt.Printf("Updated stock %s: %s %s\n", item.ID, item.ModelNumber, item.ChassisNumber)
	},
}

var stockDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stock row and its purchase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteStock(models.ID(args[0])), "failed to delete stock")
		fmt.Printf("Deleted stock %s\n", args[0])
	},
}

func init() {
	f := purchaseCmd.Flags()
	f.StringVar(&purchaseFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&purchaseFlags.supplier, "supplier", "", "Supplier or debtor name")
	f.StringVar(&purchaseFlags.chassis, "chassis", "", "Chassis number")
	f.StringVar(&purchaseFlags.model, "model", "", "Model number")
	f.StringVar(&purchaseFlags.invoice, "invoice", "", "Invoice number")
	f.Float64Var(&purchaseFlags.amount, "amount", 0, "Amount")
	f.BoolVar(&purchaseFlags.fromDebtor, "from-debtor", false, "The seller is a registered debtor")
	f.StringVar(&purchaseFlags.remove, "delete", "", "Delete the purchase with this id (and its stock)")

	f = saleCmd.Flags()
	f.StringVar(&saleFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&saleFlags.serial, "serial", "", "Serial number")
	f.StringVar(&saleFlags.chassis, "chassis", "", "Chassis number of the tractor in stock")
	f.StringVar(&saleFlags.customer, "customer", "", "Debtor name")
	f.Float64Var(&saleFlags.amount, "amount", 0, "Amount")
	f.StringVar(&saleFlags.remove, "delete", "", "Delete the sale with this id and restore its stock")
	f.StringVar(&saleFlags.search, "search", "", "List sales matching customer, model, chassis or serial")

	f = stockUpdateCmd.Flags()
	f.StringVar(&stockFlags.date, "date", "", "Date (YYYY-MM-DD, default unchanged)")
	f.StringVar(&stockFlags.invoice, "invoice", "", "Invoice number")
	f.StringVar(&stockFlags.chassis, "chassis", "", "Chassis number")
	f.StringVar(&stockFlags.model, "model", "", "Model number")
	f.Float64Var(&stockFlags.amount, "amount", 0, "Amount")

	stockCmd.AddCommand(stockListCmd, stockUpdateCmd, stockDeleteCmd)
}
