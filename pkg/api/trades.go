package api

import (
	"net/http"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
)

// TradesHandler handles purchase, sale and stock endpoints.
type TradesHandler struct {
	svc *bookkeeping.Service
}

// NewTradesHandler creates a new TradesHandler.
func NewTradesHandler(svc *bookkeeping.Service) *TradesHandler {
	return &TradesHandler{svc: svc}
}

// RecordPurchase handles POST /api/v1/purchases.
func (h *TradesHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.PurchaseInput
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.RecordPurchase(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"purchase": p})
}

// DeletePurchase handles DELETE /api/v1/purchases/{id}. The matching stock
// row goes with it.
func (h *TradesHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePurchase(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordSale handles POST /api/v1/sales.
func (h *TradesHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.SaleInput
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := h.svc.RecordSale(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"sale": s})
}

// DeleteSale handles DELETE /api/v1/sales/{id}.
func (h *TradesHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSale(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStock handles PUT /api/v1/stock/{id}.
func (h *TradesHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.StockInput
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateStock(pathID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stock": item})
}

// DeleteStock handles DELETE /api/v1/stock/{id}.
func (h *TradesHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteStock(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
