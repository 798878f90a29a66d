package bookkeeping

import (
	"slices"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// AddBankAccount registers a bank account and makes it the current bank.
func (s *Service) AddBankAccount(in BankAccountInput) (models.BankAccount, error) {
	trim(&in.BankName, &in.AccountNumber)
	if err := validateInput(in); err != nil {
		return models.BankAccount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.BankAccount{}, err
	}
	if slices.ContainsFunc(snap.BankAccounts, func(a models.BankAccount) bool { return a.AccountNumber == in.AccountNumber }) {
		return models.BankAccount{}, NewValidationError("accountNumber", in.AccountNumber, "bank account already exists")
	}

	acct := models.BankAccount{
		ID:            models.NewID(),
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
	}
	snap.BankAccounts = append(snap.BankAccounts, acct)

	b := store.NewBatch("add bank account")
	if err := putBankAccounts(b, snap.BankAccounts, &acct); err != nil {
		return models.BankAccount{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.BankAccount{}, err
	}
	return acct, nil
}

// UpdateBankAccount edits a bank account and makes it the current bank.
func (s *Service) UpdateBankAccount(id models.ID, in BankAccountInput) (models.BankAccount, error) {
	trim(&in.BankName, &in.AccountNumber)
	if err := validateInput(in); err != nil {
		return models.BankAccount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.BankAccount{}, err
	}
	i := slices.IndexFunc(snap.BankAccounts, func(a models.BankAccount) bool { return a.ID == id })
	if i < 0 {
		return models.BankAccount{}, notFound("bank account", id.String())
	}
	snap.BankAccounts[i].BankName = in.BankName
	snap.BankAccounts[i].AccountNumber = in.AccountNumber
	acct := snap.BankAccounts[i]

	b := store.NewBatch("update bank account")
	if err := putBankAccounts(b, snap.BankAccounts, &acct); err != nil {
		return models.BankAccount{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.BankAccount{}, err
	}
	return acct, nil
}

// DeleteBankAccount removes a bank account. The current bank falls back to
// the last remaining account, or is cleared when none is left.
func (s *Service) DeleteBankAccount(id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	before := len(snap.BankAccounts)
	snap.BankAccounts = slices.DeleteFunc(snap.BankAccounts, func(a models.BankAccount) bool { return a.ID == id })
	if len(snap.BankAccounts) == before {
		return notFound("bank account", id.String())
	}

	var current *models.BankAccount
	if n := len(snap.BankAccounts); n > 0 {
		current = &snap.BankAccounts[n-1]
	}
	b := store.NewBatch("delete bank account")
	if err := putBankAccounts(b, snap.BankAccounts, current); err != nil {
		return err
	}
	return s.commit(snap, b)
}

// putBankAccounts writes the account list and the current bank details.
func putBankAccounts(b *store.Batch, accounts []models.BankAccount, current *models.BankAccount) error {
	if err := b.Put(store.KeyBankAccounts, accounts); err != nil {
		return err
	}
	if current == nil {
		b.Delete(store.KeyBankDetails)
		return nil
	}
	return b.Put(store.KeyBankDetails, models.BankDetails{
		Name:          current.BankName,
		AccountNumber: current.AccountNumber,
	})
}
