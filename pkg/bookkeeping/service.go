// Package bookkeeping implements every operation that changes the ledger:
// parties, purchases, sales, stock, cash and bank entries and bank accounts.
//
// Each operation validates its input, loads a snapshot, builds one store.Batch
// holding every collection it changes, and applies the batch atomically. The
// derived fields on Debtor records are recomputed from the ledger inside the
// same batch, so they always agree with the transaction history.
package bookkeeping

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// Journal records batches before and after they are applied, so a batch that
// never finished can be reported after a crash.
type Journal interface {
	// Begin records a pending batch and returns its journal id.
	Begin(operation string, collections []string) (int64, error)

	// Finish marks the batch applied, or failed when applyErr is non-nil.
	Finish(id int64, applyErr error) error
}

// Service runs bookkeeping operations against a repository.
type Service struct {
	repo    *store.Repository
	journal Journal
	logger  *slog.Logger
	now     func() time.Time

	// mu serializes operations so each read-modify-write sees the previous one.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every batch in j.
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(repo *store.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default().With("component", "bookkeeping"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot loads every collection.
func (s *Service) Snapshot() (*models.Snapshot, error) {
	return s.repo.Snapshot()
}

// load is Snapshot wrapped for use inside operations.
func (s *Service) load() (*models.Snapshot, error) {
	snap, err := s.repo.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	return snap, nil
}

// commit refreshes derived debtor fields, then journals and applies b.
func (s *Service) commit(snap *models.Snapshot, b *store.Batch) error {
	if err := syncDebtors(snap, b); err != nil {
		return err
	}
	if b.Len() == 0 {
		return nil
	}

	keys := b.Keys()
	var journalID int64
	if s.journal != nil {
		id, err := s.journal.Begin(b.Operation, keys)
		if err != nil {
			s.logger.Warn("failed to journal batch", "operation", b.Operation, "error", err)
		} else {
			journalID = id
		}
	}

	applyErr := s.repo.Apply(b)

	if journalID != 0 {
		if err := s.journal.Finish(journalID, applyErr); err != nil {
			s.logger.Warn("failed to finish journal entry", "id", journalID, "error", err)
		}
	}
	if applyErr != nil {
		s.logger.Error("batch failed", "operation", b.Operation, "collections", keys, "error", applyErr)
		return applyErr
	}

	s.logger.Debug("batch applied", "operation", b.Operation, "collections", keys)
	return nil
}

// syncDebtors rewrites the derived fields of every debtor from snap and adds
// the debtors collection to b when anything changed.
func syncDebtors(snap *models.Snapshot, b *store.Batch) error {
	changed := false
	for i, d := range snap.Debtors {
		updated := ledger.DeriveDebtorFields(snap, d.Name).Apply(d)
		if updated.Balance != d.Balance || updated.TotalPaid != d.TotalPaid || updated.RemainingAmount != d.RemainingAmount {
			snap.Debtors[i] = updated
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return b.Put(store.KeyDebtors, snap.Debtors)
}

// Recompute rewrites every derived field without changing any record.
func (s *Service) Recompute() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute()
}

// recompute is Recompute for callers holding s.mu.
func (s *Service) recompute() error {
	snap, err := s.load()
	if err != nil {
		return err
	}
	return s.commit(snap, store.NewBatch("recompute"))
}

// Import loads a browser export (key to document) and recomputes derived
// fields. Unknown keys are returned.
func (s *Service) Import(docs map[string]json.RawMessage) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skipped, err := s.repo.Import(docs)
	if err != nil {
		return nil, err
	}
	return skipped, s.recompute()
}

// ClearAll removes every collection, including legacy keys.
func (s *Service) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := store.NewBatch("clear all")
	for _, key := range store.AllKeys {
		b.Delete(key)
	}
	return s.commit(&models.Snapshot{}, b)
}

// dateOrToday returns d, or the current time when d is unset.
func (s *Service) dateOrToday(d models.Date) models.Date {
	if d.Time.IsZero() {
		return models.NewDate(s.now())
	}
	return d
}

// CashBalance returns the current cash book balance.
func (s *Service) CashBalance() (ledger.Book, error) {
	snap, err := s.load()
	if err != nil {
		return ledger.Book{}, err
	}
	return ledger.CashBook(snap), nil
}

// PartyLedger returns the ledger of a creditor or debtor, e.g. to preview the
// balance before recording a payment.
func (s *Service) PartyLedger(kind models.PersonType, name string) (ledger.PartyLedger, error) {
	snap, err := s.load()
	if err != nil {
		return ledger.PartyLedger{}, err
	}
	switch kind {
	case models.PersonCreditor:
		if !creditorExists(snap, name) {
			return ledger.PartyLedger{}, notFound("creditor", name)
		}
		return ledger.CreditorLedger(snap, name), nil
	case models.PersonDebtor:
		if _, _, ok := snap.FindDebtor(name); !ok {
			return ledger.PartyLedger{}, notFound("debtor", name)
		}
		return ledger.DebtorLedger(snap, name), nil
	default:
		return ledger.PartyLedger{}, NewValidationError("personType", kind, "must be one of: creditor, debtor")
	}
}

func creditorExists(snap *models.Snapshot, name string) bool {
	if snap.HasSupplier(name) {
		return true
	}
	for _, p := range snap.Purchases {
		if p.SupplierName == name && !p.FromDebtor() {
			return true
		}
	}
	return false
}
