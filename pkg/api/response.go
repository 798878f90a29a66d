// Package api serves the ledger views and mutations as a local JSON API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, error, description string) {
	writeJSON(w, status, ErrorResponse{
		Error:            error,
		ErrorDescription: description,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the bookkeeping error taxonomy onto HTTP statuses:
// validation 422, missing references 404, anything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *bookkeeping.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:            "validation_error",
			ErrorDescription: ve.Message,
			Field:            ve.Field,
		})
	case errors.Is(err, bookkeeping.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update the ledger")
	}
}

// decodeBody decodes a JSON request body into v and writes a 400 response
// when it can't.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return false
	}
	return true
}

// pathParam returns a decoded URL parameter. Party names may contain spaces
// and other escaped characters.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func pathID(r *http.Request) models.ID {
	return models.ID(pathParam(r, "id"))
}

// EntryResponse is one ledger row.
type EntryResponse struct {
	ID         models.ID        `json:"id"`
	Date       models.Date      `json:"date"`
	Kind       ledger.EntryKind `json:"kind"`
	Book       models.BookType  `json:"book,omitempty"`
	Particular string           `json:"particular"`
	Reference  string           `json:"reference,omitempty"`
	Debit      decimal.Decimal  `json:"debit"`
	Credit     decimal.Decimal  `json:"credit"`
	Balance    decimal.Decimal  `json:"balance"`
	Label      string           `json:"label"`
}

func entryResponses(entries []ledger.Entry, p ledger.SignPolicy) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:         e.ID,
			Date:       e.Date,
			Kind:       e.Kind,
			Book:       e.Book,
			Particular: e.Particular,
			Reference:  e.Reference,
			Debit:      e.Debit,
			Credit:     e.Credit,
			Balance:    e.Balance,
			Label:      p.Label(e.Balance),
		})
	}
	return out
}

// BookResponse is a cash or bank book.
type BookResponse struct {
	Name        string          `json:"name"`
	Entries     []EntryResponse `json:"entries"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
	Label       string          `json:"label"`
	Formatted   string          `json:"formatted"`
}

func bookResponse(b ledger.Book) BookResponse {
	return BookResponse{
		Name:        b.Name,
		Entries:     entryResponses(b.Entries, b.Policy),
		TotalDebit:  b.TotalDebit,
		TotalCredit: b.TotalCredit,
		Balance:     b.Balance,
		Label:       b.Label(),
		Formatted:   ledger.FormatBalance(b.Balance, b.Policy),
	}
}

// TotalsResponse are the convenience totals of a party ledger.
type TotalsResponse struct {
	Purchased    decimal.Decimal `json:"purchased"`
	Sold         decimal.Decimal `json:"sold"`
	ReceivedCash decimal.Decimal `json:"receivedCash"`
	ReceivedBank decimal.Decimal `json:"receivedBank"`
	Paid         decimal.Decimal `json:"paid"`
}

// PartyLedgerResponse is the merged history of one creditor or debtor.
type PartyLedgerResponse struct {
	Party     string            `json:"party"`
	Kind      models.PersonType `json:"kind"`
	Entries   []EntryResponse   `json:"entries"`
	Totals    TotalsResponse    `json:"totals"`
	Balance   decimal.Decimal   `json:"balance"`
	Label     string            `json:"label"`
	Formatted string            `json:"formatted"`
}

func partyLedgerResponse(l ledger.PartyLedger) PartyLedgerResponse {
	return PartyLedgerResponse{
		Party:   l.Party,
		Kind:    l.Kind,
		Entries: entryResponses(l.Entries, l.Policy),
		Totals: TotalsResponse{
			Purchased:    l.Totals.Purchased,
			Sold:         l.Totals.Sold,
			ReceivedCash: l.Totals.ReceivedCash,
			ReceivedBank: l.Totals.ReceivedBank,
			Paid:         l.Totals.Paid,
		},
		Balance:   l.Balance,
		Label:     l.Label(),
		Formatted: ledger.FormatBalance(l.Balance, l.Policy),
	}
}

// CreditorResponse is one row of the creditors overview.
type CreditorResponse struct {
	SrNo          int             `json:"srNo"`
	Name          string          `json:"name"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Balance       decimal.Decimal `json:"balance"`
	Label         string          `json:"label"`
}

// DebtorResponse is one row of the debtors overview.
type DebtorResponse struct {
	Debtor        models.Debtor   `json:"debtor"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Label         string          `json:"label"`
}

// SummaryResponse is the dashboard overview.
type SummaryResponse struct {
	Suppliers       int                 `json:"suppliers"`
	Debtors         int                 `json:"debtors"`
	StockUnits      int                 `json:"stockUnits"`
	Sales           int                 `json:"sales"`
	StockValue      decimal.Decimal     `json:"stockValue"`
	CashBalance     decimal.Decimal     `json:"cashBalance"`
	CashLabel       string              `json:"cashLabel"`
	BankBalance     decimal.Decimal     `json:"bankBalance"`
	BankLabel       string              `json:"bankLabel"`
	TotalRemaining  decimal.Decimal     `json:"totalRemaining"`
	CreditorBalance decimal.Decimal     `json:"creditorBalance"`
	BankDetails     *models.BankDetails `json:"bankDetails,omitempty"`
}
