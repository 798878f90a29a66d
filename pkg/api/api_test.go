package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

type testServer struct {
	handler http.Handler
	mem     *store.MemoryStore
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := bookkeeping.NewService(store.NewRepository(mem), bookkeeping.WithClock(func() time.Time {
		return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	}))
	return &testServer{handler: NewRouter(svc), mem: mem}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// mustDo performs a request and fails unless the status matches.
func (s *testServer) mustDo(t *testing.T, method, path string, body interface{}, want int) *httptest.ResponseRecorder {
	t.Helper()
	rec := s.do(t, method, path, body)
	if rec.Code != want {
		t.Fatalf("%s %s = %d, want %d; body: %s", method, path, rec.Code, want, rec.Body.String())
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func purchaseBody(supplier, chassis string, amount float64) map[string]interface{} {
	return map[string]interface{}{
		"supplierName":  supplier,
		"chassisNumber": chassis,
		"modelNumber":   "MF-241",
		"invoiceNumber": "INV-" + chassis,
		"amount":        amount,
		"personType":    "creditor",
	}
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)
	rec := s.mustDo(t, http.MethodGet, "/health", nil, http.StatusOK)
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestCreditorPurchaseAndPayment(t *testing.T) {
	s := setupTestServer(t)

	s.mustDo(t, http.MethodPost, "/api/v1/purchases", purchaseBody("Acme", "CH-1", 50000), http.StatusCreated)

	var resp struct {
		Ledger PartyLedgerResponse `json:"ledger"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/creditors/Acme", nil, http.StatusOK), &resp)
	if !resp.Ledger.Balance.Equal(decimal.NewFromInt(50000)) || resp.Ledger.Label != "Dr" {
		t.Errorf("balance = %s %s, want 50000 Dr", resp.Ledger.Balance, resp.Ledger.Label)
	}

	s.mustDo(t, http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"personType": "creditor",
		"name":       "Acme",
		"amount":     20000,
		"bookType":   "cash",
	}, http.StatusCreated)

	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/ledgers/creditor/Acme", nil, http.StatusOK), &resp)
	if resp.Ledger.Formatted != "₹30000.00 Dr" {
		t.Errorf("formatted = %q, want ₹30000.00 Dr", resp.Ledger.Formatted)
	}
	if !resp.Ledger.Totals.Paid.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("paid = %s, want 20000", resp.Ledger.Totals.Paid)
	}

	var book struct {
		Book BookResponse `json:"book"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/cashbook", nil, http.StatusOK), &book)
	if len(book.Book.Entries) != 1 {
		t.Fatalf("cash entries = %d, want 1", len(book.Book.Entries))
	}
	if !book.Book.Balance.Equal(decimal.NewFromInt(-20000)) {
		t.Errorf("cash balance = %s, want -20000", book.Book.Balance)
	}
}

func TestErrorMapping(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
		field  string
	}{
		{"bad json", http.MethodPost, "/api/v1/purchases", "{", http.StatusBadRequest, "invalid_request", ""},
		{"zero amount", http.MethodPost, "/api/v1/purchases", purchaseBody("Acme", "CH-1", 0), http.StatusUnprocessableEntity, "validation_error", "amount"},
		{"missing chassis", http.MethodPost, "/api/v1/purchases", purchaseBody("Acme", "", 10), http.StatusUnprocessableEntity, "validation_error", "chassisNumber"},
		{"unknown creditor ledger", http.MethodGet, "/api/v1/creditors/Nobody", nil, http.StatusNotFound, "not_found", ""},
		{"unknown debtor", http.MethodDelete, "/api/v1/debtors/missing-id", nil, http.StatusNotFound, "not_found", ""},
		{"unknown stock", http.MethodDelete, "/api/v1/stock/missing-id", nil, http.StatusNotFound, "not_found", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.status, rec.Body.String())
			}
			var resp ErrorResponse
			decode(t, rec, &resp)
			if resp.Error != tt.code {
				t.Errorf("error = %q, want %q", resp.Error, tt.code)
			}
			if resp.Field != tt.field {
				t.Errorf("field = %q, want %q", resp.Field, tt.field)
			}
		})
	}
}

func TestStorageFailureIs500(t *testing.T) {
	s := setupTestServer(t)
	s.mem.FailApply = errors.New("disk full")

	rec := s.do(t, http.MethodPost, "/api/v1/suppliers", SupplierRequest{Name: "Acme"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Errorf("storage detail leaked to client: %s", rec.Body.String())
	}
}

func TestSupplierRenameWithSpaces(t *testing.T) {
	s := setupTestServer(t)

	s.mustDo(t, http.MethodPost, "/api/v1/suppliers", SupplierRequest{Name: "Sharma Tractors"}, http.StatusCreated)
	s.mustDo(t, http.MethodPut, "/api/v1/suppliers/Sharma%20Tractors", SupplierRequest{Name: "Sharma Bros"}, http.StatusOK)

	var resp struct {
		Suppliers []string `json:"suppliers"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/suppliers", nil, http.StatusOK), &resp)
	if len(resp.Suppliers) != 1 || resp.Suppliers[0] != "Sharma Bros" {
		t.Errorf("suppliers = %v, want [Sharma Bros]", resp.Suppliers)
	}

	s.mustDo(t, http.MethodDelete, "/api/v1/suppliers/Sharma%20Bros", nil, http.StatusNoContent)
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/suppliers", nil, http.StatusOK), &resp)
	if len(resp.Suppliers) != 0 {
		t.Errorf("suppliers = %v, want none", resp.Suppliers)
	}
}

func TestSaleAndSearch(t *testing.T) {
	s := setupTestServer(t)

	s.mustDo(t, http.MethodPost, "/api/v1/debtors", map[string]interface{}{
		"name": "Ravi", "address": "Main Road", "phone": "9800000000",
	}, http.StatusCreated)
	s.mustDo(t, http.MethodPost, "/api/v1/purchases", purchaseBody("Acme", "CH-1", 40000), http.StatusCreated)
	s.mustDo(t, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"serialNumber": "S-1", "chassisNumber": "CH-1", "customerName": "Ravi", "amount": 55000,
	}, http.StatusCreated)

	var stock struct {
		Stock []json.RawMessage `json:"stock"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/stock", nil, http.StatusOK), &stock)
	if len(stock.Stock) != 0 {
		t.Errorf("stock rows = %d, want 0 after sale", len(stock.Stock))
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"ravi", 1},
		{"ch-1", 1},
		{"mohan", 0},
	}
	for _, tt := range tests {
		t.Run("q="+tt.query, func(t *testing.T) {
			var resp struct {
				Sales []json.RawMessage `json:"sales"`
			}
			decode(t, s.mustDo(t, http.MethodGet, "/api/v1/sales?q="+tt.query, nil, http.StatusOK), &resp)
			if len(resp.Sales) != tt.want {
				t.Errorf("sales = %d, want %d", len(resp.Sales), tt.want)
			}
		})
	}

	var ledgerResp struct {
		Ledger PartyLedgerResponse `json:"ledger"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/ledgers/debtor/Ravi", nil, http.StatusOK), &ledgerResp)
	if !ledgerResp.Ledger.Totals.Sold.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("sold = %s, want 55000", ledgerResp.Ledger.Totals.Sold)
	}

	rec := s.mustDo(t, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"serialNumber": "S-2", "chassisNumber": "CH-1", "customerName": "Ravi", "amount": 55000,
	}, http.StatusNotFound)
	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCashTransferRejectedOverBalance(t *testing.T) {
	s := setupTestServer(t)

	rec := s.mustDo(t, http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"personType": "cash", "amount": 100,
	}, http.StatusUnprocessableEntity)

	var resp ErrorResponse
	decode(t, rec, &resp)
	if resp.Field != "amount" {
		t.Errorf("field = %q, want amount", resp.Field)
	}
}

func TestBankAccounts(t *testing.T) {
	s := setupTestServer(t)

	var created struct {
		BankAccount struct {
			ID string `json:"id"`
		} `json:"bankAccount"`
	}
	decode(t, s.mustDo(t, http.MethodPost, "/api/v1/bank-accounts", bookkeeping.BankAccountInput{
		BankName: "State Bank", AccountNumber: "0012345",
	}, http.StatusCreated), &created)

	var list struct {
		BankAccounts []json.RawMessage `json:"bankAccounts"`
		BankDetails  *struct {
			Name string `json:"name"`
		} `json:"bankDetails"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/bank-accounts", nil, http.StatusOK), &list)
	if len(list.BankAccounts) != 1 || list.BankDetails == nil || list.BankDetails.Name != "State Bank" {
		t.Fatalf("bank accounts = %s", s.do(t, http.MethodGet, "/api/v1/bank-accounts", nil).Body.String())
	}

	s.mustDo(t, http.MethodDelete, "/api/v1/bank-accounts/"+created.BankAccount.ID, nil, http.StatusNoContent)
	list.BankDetails = nil
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/bank-accounts", nil, http.StatusOK), &list)
	if len(list.BankAccounts) != 0 || list.BankDetails != nil {
		t.Errorf("bank accounts not cleared: %+v", list)
	}
}

func TestImportAndClear(t *testing.T) {
	s := setupTestServer(t)

	rec := s.mustDo(t, http.MethodPost, "/api/v1/import", map[string]interface{}{
		"suppliers": []string{"Acme"},
		"theme":     "dark",
	}, http.StatusOK)
	var resp struct {
		Skipped []string `json:"skipped"`
	}
	decode(t, rec, &resp)
	if len(resp.Skipped) != 1 || resp.Skipped[0] != "theme" {
		t.Errorf("skipped = %v, want [theme]", resp.Skipped)
	}

	var summary struct {
		Summary SummaryResponse `json:"summary"`
	}
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/summary", nil, http.StatusOK), &summary)
	if summary.Summary.Suppliers != 1 {
		t.Errorf("suppliers = %d, want 1", summary.Summary.Suppliers)
	}

	s.mustDo(t, http.MethodDelete, "/api/v1/data", nil, http.StatusNoContent)
	decode(t, s.mustDo(t, http.MethodGet, "/api/v1/summary", nil, http.StatusOK), &summary)
	if summary.Summary.Suppliers != 0 {
		t.Errorf("suppliers after clear = %d, want 0", summary.Summary.Suppliers)
	}
}

func TestReportDownload(t *testing.T) {
	s := setupTestServer(t)
	s.mustDo(t, http.MethodPost, "/api/v1/purchases", purchaseBody("Acme", "CH-1", 50000), http.StatusCreated)

	rec := s.mustDo(t, http.MethodGet, "/api/v1/report.xlsx", nil, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("report is not a zip container")
	}
}
