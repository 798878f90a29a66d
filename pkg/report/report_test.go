package report

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

var generatedAt = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func day(d int) models.Date {
	return models.NewDate(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
}

func sampleSnapshot() *models.Snapshot {
	purchase := models.Purchase{
		ID:            "p1",
		Date:          day(1),
		InvoiceNumber: "INV-1",
		ChassisNumber: "CH-1",
		ModelNumber:   "MF-241",
		Amount:        30000,
		SupplierName:  "Sharma Tractors",
		PersonType:    models.PersonCreditor,
	}
	return &models.Snapshot{
		Suppliers: []string{"Sharma Tractors"},
		Debtors:   []models.Debtor{{ID: "d1", Date: day(1), Name: "Ravi", Phone: "9800000000"}},
		Purchases: []models.Purchase{purchase},
		Stock:     []models.StockItem{models.StockFromPurchase(purchase)},
		Sales: []models.Sale{{
			ID: "s1", Date: day(2), SerialNumber: "S-1", ChassisNumber: "CH-2",
			ModelNumber: "MF-245", CustomerName: "Ravi", Amount: 45000,
		}},
		CashTransactions: []models.CashTransaction{
			{ID: "c1", Date: day(2), Name: "Ravi", Amount: 5000, Type: models.TxnReceive, PersonType: models.PersonDebtor, BookType: models.BookCash},
			{ID: "c2", Date: day(3), Name: "Sharma Tractors", Amount: 8000, Type: models.TxnPayment, PersonType: models.PersonCreditor, BookType: models.BookCash},
		},
		BankDetails: &models.BankDetails{Name: "State Bank", AccountNumber: "0012345"},
	}
}

func openWorkbook(t *testing.T, snap *models.Snapshot) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, snap, generatedAt); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, name string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s) failed: %v", sheet, name, err)
	}
	return v
}

func TestWorkbookSheets(t *testing.T) {
	f := openWorkbook(t, sampleSnapshot())

	want := []string{SheetSummary, SheetStock, SheetSales, SheetCashBook, SheetBankBook, SheetCreditors, SheetDebtors}
	if got := f.GetSheetList(); !slices.Equal(got, want) {
		t.Errorf("GetSheetList() = %v, want %v", got, want)
	}
	if got := f.GetSheetName(f.GetActiveSheetIndex()); got != SheetSummary {
		t.Errorf("active sheet = %q, want %q", got, SheetSummary)
	}
}

func TestWorkbookCells(t *testing.T) {
	f := openWorkbook(t, sampleSnapshot())

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{SheetSummary, "A1", "Item"},
		{SheetSummary, "B2", "2024-03-05 10:00:00"},
		{SheetSummary, "B3", "State Bank (0012345)"},
		{SheetSummary, "B9", "₹3000.00 Cr"},

		{SheetStock, "C1", "Chassis No"},
		{SheetStock, "C2", "CH-1"},
		{SheetStock, "E2", "Sharma Tractors"},
		{SheetStock, "A3", "Total"},
		{SheetStock, "F3", "30000"},

		{SheetSales, "E2", "Ravi"},
		{SheetSales, "F2", "45000"},

		{SheetCashBook, "A2", "2024-01-02"},
		{SheetCashBook, "C2", "5000"},
		{SheetCashBook, "F2", "Dr"},
		{SheetCashBook, "D3", "8000"},
		{SheetCashBook, "E3", "3000"},
		{SheetCashBook, "F3", "Cr"},
		{SheetCashBook, "A4", "Total"},
		{SheetCashBook, "F4", "Cr"},

		{SheetBankBook, "A2", "Total"},

		{SheetCreditors, "B2", "Sharma Tractors"},
		{SheetCreditors, "C2", "30000"},
		{SheetCreditors, "D2", "8000"},
		{SheetCreditors, "E2", "22000"},

		{SheetDebtors, "A2", "Ravi"},
		{SheetDebtors, "B2", "9800000000"},
		{SheetDebtors, "D2", "45000"},
	}

	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			if got := cell(t, f, tt.sheet, tt.cell); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmptySnapshot(t *testing.T) {
	f := openWorkbook(t, &models.Snapshot{})

	if got := cell(t, f, SheetSummary, "B3"); got != "-" {
		t.Errorf("bank = %q, want -", got)
	}
	rows, err := f.GetRows(SheetCreditors)
	if err != nil {
		t.Fatalf("GetRows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("creditor rows = %d, want header only", len(rows))
	}
	if got := cell(t, f, SheetStock, "A2"); got != "Total" {
		t.Errorf("stock A2 = %q, want Total", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "showroom.xlsx")
	if err := WriteFile(path, sampleSnapshot(), generatedAt); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue(SheetStock, "D2")
	if err != nil {
		t.Fatalf("GetCellValue() failed: %v", err)
	}
	if v != "MF-241" {
		t.Errorf("D2 = %q, want MF-241", v)
	}
}
