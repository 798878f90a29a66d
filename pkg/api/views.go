package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ViewsHandler serves the read-only views. Every response is recomputed from
// a fresh snapshot.
type ViewsHandler struct {
	svc *bookkeeping.Service
	now func() time.Time
}

// NewViewsHandler creates a new ViewsHandler.
func NewViewsHandler(svc *bookkeeping.Service) *ViewsHandler {
	return &ViewsHandler{svc: svc, now: time.Now}
}

// snapshot loads the collections or writes a 500 response.
func (h *ViewsHandler) snapshot(w http.ResponseWriter, r *http.Request) (*models.Snapshot, bool) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return snap, true
}

// Summary handles GET /api/v1/summary.
func (h *ViewsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	s := ledger.Summarize(snap)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": SummaryResponse{
			Suppliers:       s.Suppliers,
			Debtors:         s.Debtors,
			StockUnits:      s.StockUnits,
			Sales:           s.Sales,
			StockValue:      s.StockValue,
			CashBalance:     s.CashBalance,
			CashLabel:       s.CashLabel,
			BankBalance:     s.BankBalance,
			BankLabel:       s.BankLabel,
			TotalRemaining:  s.TotalRemaining,
			CreditorBalance: s.CreditorBalance,
			BankDetails:     snap.BankDetails,
		},
	})
}

// CashBook handles GET /api/v1/cashbook.
func (h *ViewsHandler) CashBook(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"book": bookResponse(ledger.CashBook(snap)),
	})
}

// BankBook handles GET /api/v1/bankbook.
func (h *ViewsHandler) BankBook(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"book":        bookResponse(ledger.BankBook(snap)),
		"bankDetails": snap.BankDetails,
	})
}

// Creditors handles GET /api/v1/creditors.
func (h *ViewsHandler) Creditors(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	rows := ledger.Creditors(snap)
	out := make([]CreditorResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, CreditorResponse{
			SrNo:          c.SrNo,
			Name:          c.Name,
			TotalPurchase: c.TotalPurchase,
			TotalPaid:     c.TotalPaid,
			Balance:       c.Balance,
			Label:         c.Label,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"creditors": out})
}

// Debtors handles GET /api/v1/debtors.
func (h *ViewsHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	rows := ledger.Debtors(snap)
	out := make([]DebtorResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, DebtorResponse{
			Debtor:        d.Debtor,
			TotalSales:    d.TotalSales,
			TotalPurchase: d.TotalPurchase,
			TotalPaid:     d.TotalPaid,
			Remaining:     d.RemainingAmount,
			Label:         d.Label,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"debtors": out})
}

// CreditorLedger handles GET /api/v1/creditors/{name}.
func (h *ViewsHandler) CreditorLedger(w http.ResponseWriter, r *http.Request) {
	h.partyLedger(w, r, models.PersonCreditor)
}

// DebtorLedger handles GET /api/v1/debtors/{name}/ledger.
func (h *ViewsHandler) DebtorLedger(w http.ResponseWriter, r *http.Request) {
	h.partyLedger(w, r, models.PersonDebtor)
}

func (h *ViewsHandler) partyLedger(w http.ResponseWriter, r *http.Request, kind models.PersonType) {
	l, err := h.svc.PartyLedger(kind, pathParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ledger": partyLedgerResponse(l)})
}

// Stock handles GET /api/v1/stock.
func (h *ViewsHandler) Stock(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stock": nonNil(snap.Stock),
		"value": ledger.StockValue(snap),
	})
}

// Purchases handles GET /api/v1/purchases.
func (h *ViewsHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"purchases": nonNil(snap.Purchases)})
}

// Sales handles GET /api/v1/sales. The optional q parameter searches
// customer, model, chassis and serial number.
func (h *ViewsHandler) Sales(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	sales := make([]models.Sale, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		if s.Matches(q) {
			sales = append(sales, s)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sales": sales})
}

// Suppliers handles GET /api/v1/suppliers.
func (h *ViewsHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"suppliers": nonNil(snap.Suppliers)})
}

// BankAccounts handles GET /api/v1/bank-accounts.
func (h *ViewsHandler) BankAccounts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bankAccounts": nonNil(snap.BankAccounts),
		"bankDetails":  snap.BankDetails,
	})
}

// Report handles GET /api/v1/report.xlsx.
func (h *ViewsHandler) Report(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	now := h.now()
	var buf bytes.Buffer
	if err := report.Write(&buf, snap, now); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="showroom-%s.xlsx"`, now.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// nonNil keeps empty collections as [] rather than null in responses.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
