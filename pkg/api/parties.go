package api

import (
	"net/http"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
)

// PartiesHandler handles supplier and debtor endpoints.
type PartiesHandler struct {
	svc *bookkeeping.Service
}

// NewPartiesHandler creates a new PartiesHandler.
func NewPartiesHandler(svc *bookkeeping.Service) *PartiesHandler {
	return &PartiesHandler{svc: svc}
}

// SupplierRequest names a supplier.
type SupplierRequest struct {
	Name string `json:"name"`
}

// AddSupplier handles POST /api/v1/suppliers.
func (h *PartiesHandler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.AddSupplier(req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"supplier": req.Name})
}

// RenameSupplier handles PUT /api/v1/suppliers/{name}. Purchases, stock and
// payments recorded under the old name follow the rename.
func (h *PartiesHandler) RenameSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.RenameSupplier(pathParam(r, "name"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"supplier": req.Name})
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{name}.
func (h *PartiesHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSupplier(pathParam(r, "name")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDebtor handles POST /api/v1/debtors.
func (h *PartiesHandler) AddDebtor(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.DebtorInput
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := h.svc.AddDebtor(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"debtor": d})
}

// UpdateDebtor handles PUT /api/v1/debtors/{id}.
func (h *PartiesHandler) UpdateDebtor(w http.ResponseWriter, r *http.Request) {
	var req bookkeeping.DebtorInput
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := h.svc.UpdateDebtor(pathID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"debtor": d})
}

// DeleteDebtor handles DELETE /api/v1/debtors/{id}.
func (h *PartiesHandler) DeleteDebtor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDebtor(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
