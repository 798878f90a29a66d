// Package report renders the ledger views as an Excel workbook: a summary
// sheet followed by stock, sales, the two books and the party overviews.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetStock     = "Stock"
	SheetSales     = "Sales"
	SheetCashBook  = "Cash Book"
	SheetBankBook  = "Bank Book"
	SheetCreditors = "Creditors"
	SheetDebtors   = "Debtors"
)

const defaultColWidth = 15

// table is one sheet: a styled header row, data rows from row 2, and an
// optional total row. Money columns get a two-decimal number format.
type table struct {
	name    string
	headers []string
	rows    [][]interface{}
	total   []interface{}
	money   []int
	widths  map[int]float64
}

// Build renders snap into a new workbook. generatedAt is printed on the
// summary sheet.
func Build(snap *models.Snapshot, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	// Built-in format 4 is "#,##0.00".
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}

	tables := []table{
		summaryTable(snap, generatedAt),
		stockTable(snap),
		salesTable(snap),
		bookTable(SheetCashBook, ledger.CashBook(snap)),
		bookTable(SheetBankBook, ledger.BankBook(snap)),
		creditorsTable(snap),
		debtorsTable(snap),
	}

	for _, t := range tables {
		if err := writeTable(f, t, headerStyle, moneyStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if f.GetSheetName(0) == "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}
	index, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

// Write renders snap and writes the workbook to w.
func Write(w io.Writer, snap *models.Snapshot, generatedAt time.Time) error {
	f, err := Build(snap, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile renders snap into the file at path, creating parent directories.
func WriteFile(path string, snap *models.Snapshot, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := Write(f, snap, generatedAt); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func writeTable(f *excelize.File, t table, headerStyle, moneyStyle int) error {
	if _, err := f.NewSheet(t.name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", t.name, err)
	}

	for col, h := range t.headers {
		if err := setCell(f, t.name, col+1, 1, h); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(t.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", t.name, err)
	}

	rows := t.rows
	if t.total != nil {
		rows = append(rows[:len(rows):len(rows)], t.total)
	}
	for r, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			if err := setCell(f, t.name, col+1, r+2, v); err != nil {
				return err
			}
		}
	}

	last := len(rows) + 1
	for _, col := range t.money {
		if last < 2 {
			break
		}
		top, _ := excelize.CoordinatesToCellName(col, 2)
		bottom, _ := excelize.CoordinatesToCellName(col, last)
		if err := f.SetCellStyle(t.name, top, bottom, moneyStyle); err != nil {
			return fmt.Errorf("failed to style %q: %w", t.name, err)
		}
	}
	for col := 1; col <= len(t.headers); col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		width := float64(defaultColWidth)
		if w, ok := t.widths[col]; ok {
			width = w
		}
		if err := f.SetColWidth(t.name, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// money converts d for a numeric cell, rounded to paise.
func money(d decimal.Decimal) float64 {
	return ledger.Round(d).InexactFloat64()
}

func summaryTable(snap *models.Snapshot, generatedAt time.Time) table {
	s := ledger.Summarize(snap)
	bank := "-"
	if snap.BankDetails != nil {
		bank = fmt.Sprintf("%s (%s)", snap.BankDetails.Name, snap.BankDetails.AccountNumber)
	}
	return table{
		name:    SheetSummary,
		headers: []string{"Item", "Value"},
		rows: [][]interface{}{
			{"Generated At", generatedAt.Format("2006-01-02 15:04:05")},
			{"Bank", bank},
			{"Suppliers", s.Suppliers},
			{"Debtors", s.Debtors},
			{"Stock Units", s.StockUnits},
			{"Stock Value", ledger.FormatAmount(s.StockValue)},
			{"Sales", s.Sales},
			{"Cash Balance", ledger.FormatBalance(s.CashBalance, ledger.CashBookSign)},
			{"Bank Balance", ledger.FormatBalance(s.BankBalance, ledger.BankBookSign)},
			{"Total Remaining", ledger.FormatAmount(s.TotalRemaining)},
			{"Creditor Balance", ledger.FormatBalance(s.CreditorBalance, ledger.CreditorSign)},
		},
		widths: map[int]float64{1: 20, 2: 30},
	}
}

func stockTable(snap *models.Snapshot) table {
	t := table{
		name:    SheetStock,
		headers: []string{"Date", "Invoice No", "Chassis No", "Model", "Supplier", "Amount"},
		money:   []int{6},
	}
	for _, s := range snap.Stock {
		t.rows = append(t.rows, []interface{}{
			s.Date.String(), s.InvoiceNumber, s.ChassisNumber, s.ModelNumber, s.SupplierName, money(s.Amount.Decimal()),
		})
	}
	t.total = []interface{}{"Total", nil, nil, nil, nil, money(ledger.StockValue(snap))}
	return t
}

func salesTable(snap *models.Snapshot) table {
	t := table{
		name:    SheetSales,
		headers: []string{"Date", "Serial No", "Chassis No", "Model", "Customer", "Amount"},
		money:   []int{6},
		widths:  map[int]float64{5: 25},
	}
	total := decimal.Zero
	for _, s := range snap.Sales {
		amt := s.Amount.Decimal()
		total = total.Add(amt)
		t.rows = append(t.rows, []interface{}{
			s.Date.String(), s.SerialNumber, s.ChassisNumber, s.ModelNumber, s.CustomerName, money(amt),
		})
	}
	t.total = []interface{}{"Total", nil, nil, nil, nil, money(total)}
	return t
}

// bookTable lists a book's entries in folding order. The balance column holds
// the absolute running balance; its side is in the Dr/Cr column.
func bookTable(name string, b ledger.Book) table {
	t := table{
		name:    name,
		headers: []string{"Date", "Particular", "Debit", "Credit", "Balance", "Dr/Cr"},
		money:   []int{3, 4, 5},
		widths:  map[int]float64{2: 30, 6: 8},
	}
	for _, e := range b.Entries {
		t.rows = append(t.rows, []interface{}{
			e.Date.String(), e.Particular, money(e.Debit), money(e.Credit), money(e.Balance.Abs()), b.Policy.Label(e.Balance),
		})
	}
	t.total = []interface{}{"Total", nil, money(b.TotalDebit), money(b.TotalCredit), money(b.Balance.Abs()), b.Label()}
	return t
}

func creditorsTable(snap *models.Snapshot) table {
	t := table{
		name:    SheetCreditors,
		headers: []string{"Sr No", "Name", "Total Purchase", "Total Paid", "Balance", "Dr/Cr"},
		money:   []int{3, 4, 5},
		widths:  map[int]float64{1: 8, 2: 25, 6: 8},
	}
	for _, c := range ledger.Creditors(snap) {
		t.rows = append(t.rows, []interface{}{
			c.SrNo, c.Name, money(c.TotalPurchase), money(c.TotalPaid), money(c.Balance.Abs()), c.Label,
		})
	}
	return t
}

func debtorsTable(snap *models.Snapshot) table {
	t := table{
		name:    SheetDebtors,
		headers: []string{"Name", "Phone", "Finance", "Total Sales", "Total Purchase", "Total Paid", "Remaining", "Dr/Cr"},
		money:   []int{4, 5, 6, 7},
		widths:  map[int]float64{1: 25, 8: 8},
	}
	for _, d := range ledger.Debtors(snap) {
		t.rows = append(t.rows, []interface{}{
			d.Debtor.Name, d.Debtor.Phone, d.Debtor.Finance,
			money(d.TotalSales), money(d.TotalPurchase), money(d.TotalPaid), money(d.RemainingAmount.Abs()), d.Label,
		})
	}
	return t
}
