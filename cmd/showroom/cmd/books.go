package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

var receiveFlags struct {
	date   string
	name   string
	amount float64
	book   string
}

// receiveCmd records money received from a debtor.
var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Record money received from a debtor",
	Long: `Record money received from a debtor into the cash or bank book.

Example:
  showroom receive --name "Ravi" --amount 5000 --book cash`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		id, err := a.svc.ReceiveCash(bookkeeping.ReceiptInput{
			Date:       parseDateFlag(receiveFlags.date),
			DebtorName: receiveFlags.name,
			Amount:     models.Amount(receiveFlags.amount),
			Book:       models.BookType(receiveFlags.book),
		})
		exitOnError(err, "failed to record receipt")
		fmt.Printf("Recorded receipt %s\n", id)
	},
}

var payFlags struct {
	date       string
	personType string
	name       string
	amount     float64
	book       string
}

// payCmd records money paid out, or a transfer from cash to bank.
var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Record a payment to a creditor or debtor, or a cash deposit",
	Long: `Record a payment. With --type cash the amount is moved from the cash
book to the bank book; it may not exceed the cash balance.

Example:
  showroom pay --type creditor --name "Acme" --amount 20000 --book cash
  showroom pay --type debtor --name "Ravi" --amount 1500 --book bank
  showroom pay --type cash --amount 10000`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		id, err := a.svc.MakePayment(bookkeeping.PaymentInput{
			Date:       parseDateFlag(payFlags.date),
			PersonType: models.PersonType(payFlags.personType),
			Name:       payFlags.name,
			Amount:     models.Amount(payFlags.amount),
			Book:       models.BookType(payFlags.book),
		})
		exitOnError(err, "failed to record payment")
		fmt.Printf("Recorded payment %s\n", id)
	},
}

// cashbookCmd shows the cash book.
var cashbookCmd = &cobra.Command{
	Use:   "cashbook",
	Short: "Show, edit or delete cash book entries",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		printBook(ledger.CashBook(a.snapshot()))
	},
}

var cashEditFlags struct {
	date       string
	name       string
	particular string
	amount     float64
	txnType    string
}

var cashbookEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a cash book entry",
	Long: `Edit a cash book entry. Editing a cash deposit also updates its bank
book half.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		t, err := a.svc.UpdateCashTransaction(models.ID(args[0]), bookkeeping.CashEditInput{
			Date:       parseDateFlag(cashEditFlags.date),
			Name:       cashEditFlags.name,
			Particular: cashEditFlags.particular,
			Amount:     models.Amount(cashEditFlags.amount),
			Type:       models.TxnType(cashEditFlags.txnType),
		})
		exitOnError(err, "failed to update cash entry")
		fmt.Printf("Updated cash entry %s\n", t.ID)
	},
}

var cashbookDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a cash book entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteCashTransaction(models.ID(args[0])), "failed to delete cash entry")
		fmt.Printf("Deleted cash entry %s\n", args[0])
	},
}

// bankbookCmd groups the bank book commands.
var bankbookCmd = &cobra.Command{
	Use:   "bankbook",
	Short: "Show or change the bank book",
}

var bankbookListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the bank book",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		snap := a.snapshot()
		if snap.BankDetails != nil {
			fmt.Printf("%s (%s)\n", snap.BankDetails.Name, snap.BankDetails.AccountNumber)
		}
		printBook(ledger.BankBook(snap))
	},
}

var bankEntryFlags struct {
	date       string
	particular string
	debit      float64
	credit     float64
}

var bankbookAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a manual bank book entry",
	Long: `Add a manual bank book entry. Set --debit, --credit or both.

Example:
  showroom bankbook add --particular "Bank charges" --debit 250`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		t, err := a.svc.AddBankEntry(bookkeeping.BankEntryInput{
			Date:       parseDateFlag(bankEntryFlags.date),
			Particular: bankEntryFlags.particular,
			Debit:      models.Amount(bankEntryFlags.debit),
			Credit:     models.Amount(bankEntryFlags.credit),
		})
		exitOnError(err, "failed to add bank entry")
		fmt.Printf("Added bank entry %s\n", t.ID)
	},
}

var bankbookDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a bank book entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteBankTransaction(models.ID(args[0])), "failed to delete bank entry")
		fmt.Printf("Deleted bank entry %s\n", args[0])
	},
}

// bankAccountCmd groups the bank account commands.
var bankAccountCmd = &cobra.Command{
	Use:   "bank-account",
	Short: "Manage bank accounts",
}

var bankAccountFlags struct {
	bankName      string
	accountNumber string
}

func bankAccountInput() bookkeeping.BankAccountInput {
	return bookkeeping.BankAccountInput{
		BankName:      bankAccountFlags.bankName,
		AccountNumber: bankAccountFlags.accountNumber,
	}
}

var bankAccountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a bank account and make it the current bank",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		acct, err := a.svc.AddBankAccount(bankAccountInput())
		exitOnError(err, "failed to add bank account")
		fmt.Printf("Added bank account %s (id %s)\n", acct.AccountNumber, acct.ID)
	},
}

var bankAccountUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a bank account and make it the current bank",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		acct, err := a.svc.UpdateBankAccount(models.ID(args[0]), bankAccountInput())
		exitOnError(err, "failed to update bank account")
		fmt.Printf("Updated bank account %s\n", acct.AccountNumber)
	},
}

var bankAccountDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a bank account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		exitOnError(a.svc.DeleteBankAccount(models.ID(args[0])), "failed to delete bank account")
		fmt.Printf("Deleted bank account %s\n", args[0])
	},
}

var bankAccountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		snap := a.snapshot()
		tw := newTable()
		fmt.Fprintln(tw, "ID\tBANK\tACCOUNT\t")
		for _, acct := range snap.BankAccounts {
			current := ""
			if snap.BankDetails != nil && snap.BankDetails.AccountNumber == acct.AccountNumber {
				current = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", acct.ID, acct.BankName, acct.AccountNumber, current)
		}
		tw.Flush()
	},
}

func init() {
	f := receiveCmd.Flags()
	f.StringVar(&receiveFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&receiveFlags.name, "name", "", "Debtor name")
	f.Float64Var(&receiveFlags.amount, "amount", 0, "Amount")
	f.StringVar(&receiveFlags.book, "book", "cash", "Book receiving the money (cash or bank)")

	f = payCmd.Flags()
	f.StringVar(&payFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&payFlags.personType, "type", "creditor", "Payee type (creditor, debtor or cash)")
	f.StringVar(&payFlags.name, "name", "", "Payee name")
	f.Float64Var(&payFlags.amount, "amount", 0, "Amount")
	f.StringVar(&payFlags.book, "book", "", "Book paying the money (cash or bank)")

	f = cashbookEditCmd.Flags()
	f.StringVar(&cashEditFlags.date, "date", "", "Date (YYYY-MM-DD, default unchanged)")
	f.StringVar(&cashEditFlags.name, "name", "", "Name")
	f.StringVar(&cashEditFlags.particular, "particular", "", "Particular")
	f.Float64Var(&cashEditFlags.amount, "amount", 0, "Amount")
	f.StringVar(&cashEditFlags.txnType, "type", "", "receive or payment (default unchanged)")
	cashbookCmd.AddCommand(cashbookEditCmd, cashbookDeleteCmd)

	f = bankbookAddCmd.Flags()
	f.StringVar(&bankEntryFlags.date, "date", "", "Date (YYYY-MM-DD, default today)")
	f.StringVar(&bankEntryFlags.particular, "particular", "", "Particular")
	f.Float64Var(&bankEntryFlags.debit, "debit", 0, "Debit amount")
	f.Float64Var(&bankEntryFlags.credit, "credit", 0, "Credit amount")
	bankbookCmd.AddCommand(bankbookListCmd, bankbookAddCmd, bankbookDeleteCmd)

	for _, c := range []*cobra.Command{bankAccountAddCmd, bankAccountUpdateCmd} {
		c.Flags().StringVar(&bankAccountFlags.bankName, "bank", "", "Bank name")
		c.Flags().StringVar(&bankAccountFlags.accountNumber, "account", "", "Account number")
	}
	bankAccountCmd.AddCommand(bankAccountAddCmd, bankAccountUpdateCmd, bankAccountDeleteCmd, bankAccountListCmd)
}
