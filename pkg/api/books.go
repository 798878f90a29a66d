package api

import (
	"encoding/json"
	"net/http"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
)

// BooksHandler handles money movements, bank accounts and whole-store
// maintenance.
type BooksHandler struct {
	svc *bookkeeping.Service
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(svc *bookkeeping.Service) *BooksHandler {
	return &BooksHandler{svc: svc}
}

// Receive handles POST /api/v1/receipts.
func (h *BooksHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.ReceiptInput
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.ReceiveCash(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// Pay handles POST /api/v1/payments. A personType of "cash" moves money from
// the cash book to the bank book.
func (h *BooksHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.PaymentInput
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.MakePayment(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// UpdateCashTransaction handles PUT /api/v1/cashbook/{id}.
func (h *BooksHandler) UpdateCashTransaction(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.CashEditInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.svc.UpdateCashTransaction(pathID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transaction": t})
}

// DeleteCashTransaction handles DELETE /api/v1/cashbook/{id}.
func (h *BooksHandler) DeleteCashTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCashTransaction(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddBankEntry handles POST /api/v1/bankbook.
func (h *BooksHandler) AddBankEntry(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.BankEntryInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.svc.AddBankEntry(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"transaction": t})
}

// DeleteBankTransaction handles DELETE /api/v1/bankbook/{id}.
func (h *BooksHandler) DeleteBankTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBankTransaction(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddBankAccount handles POST /api/v1/bank-accounts.
func (h *BooksHandler) AddBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.BankAccountInput
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.AddBankAccount(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"bankAccount": a})
}

// UpdateBankAccount handles PUT /api/v1/bank-accounts/{id}.
func (h *BooksHandler) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.BankAccountInput
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.UpdateBankAccount(pathID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bankAccount": a})
}

// DeleteBankAccount handles DELETE /api/v1/bank-accounts/{id}.
func (h *BooksHandler) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBankAccount(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/v1/import. The body is an object keyed by
// collection name, as exported from the browser's storage. Unknown keys are
// reported back as skipped.
func (h *BooksHandler) Import(w http.ResponseWriter, r *http.Request) {
	var docs map[string]json.RawMessage
	if !decodeBody(w, r, &docs) {
		return
	}
	skipped, err := h.svc.Import(docs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"skipped": nonNil(skipped)})
}

// Recompute handles POST /api/v1/recompute.
func (h *BooksHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Recompute(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll handles DELETE /api/v1/data.
func (h *BooksHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
