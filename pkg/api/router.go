package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
)

// NewRouter builds the HTTP handler for svc. Every view and mutation lives
// under /api/v1; /health answers liveness probes.
func NewRouter(svc *bookkeeping.Service) http.Handler {
	views := NewViewsHandler(svc)
	parties := NewPartiesHandler(svc)
	trades := NewTradesHandler(svc)
	books := NewBooksHandler(svc)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", views.Summary)
		r.Get("/report.xlsx", views.Report)

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", views.Suppliers)
			r.Post("/", parties.AddSupplier)
			r.Put("/{name}", parties.RenameSupplier)
			r.Delete("/{name}", parties.DeleteSupplier)
		})

		r.Route("/creditors", func(r chi.Router) {
			r.Get("/", views.Creditors)
			r.Get("/{name}", views.CreditorLedger)
		})

		r.Route("/debtors", func(r chi.Router) {
			r.Get("/", views.Debtors)
			r.Post("/", parties.AddDebtor)
			r.Put("/{id}", parties.UpdateDebtor)
			r.Delete("/{id}", parties.DeleteDebtor)
		})
		r.Get("/ledgers/debtor/{name}", views.DebtorLedger)
		r.Get("/ledgers/creditor/{name}", views.CreditorLedger)

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", views.Purchases)
			r.Post("/", trades.RecordPurchase)
			r.Delete("/{id}", trades.DeletePurchase)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", views.Stock)
			r.Put("/{id}", trades.UpdateStock)
			r.Delete("/{id}", trades.DeleteStock)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", views.Sales)
			r.Post("/", trades.RecordSale)
			r.Delete("/{id}", trades.DeleteSale)
		})

		r.Post("/receipts", books.Receive)
		r.Post("/payments", books.Pay)

		r.Route("/cashbook", func(r chi.Router) {
			r.Get("/", views.CashBook)
			r.Put("/{id}", books.UpdateCashTransaction)
			r.Delete("/{id}", books.DeleteCashTransaction)
		})

		r.Route("/bankbook", func(r chi.Router) {
			r.Get("/", views.BankBook)
			r.Post("/", books.AddBankEntry)
			r.Delete("/{id}", books.DeleteBankTransaction)
		})

		r.Route("/bank-accounts", func(r chi.Router) {
			r.Get("/", views.BankAccounts)
			r.Post("/", books.AddBankAccount)
			r.Put("/{id}", books.UpdateBankAccount)
			r.Delete("/{id}", books.DeleteBankAccount)
		})

		r.Post("/import", books.Import)
		r.Post("/recompute", books.Recompute)
		r.Delete("/data", books.ClearAll)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
