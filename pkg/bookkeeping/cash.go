package bookkeeping

import (
	"slices"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// ReceiveCash records money received from a debtor in the cash or bank book.
// Cash rows carry the amount in the credit column, bank rows in the debit
// column, both typed as receipts.
func (s *Service) ReceiveCash(in ReceiptInput) (models.ID, error) {
	trim(&in.DebtorName)
	if err := validateInput(in); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return "", err
	}
	if _, _, ok := snap.FindDebtor(in.DebtorName); !ok {
		return "", notFound("debtor", in.DebtorName)
	}

	id := models.NewID()
	date := s.dateOrToday(in.Date)
	b := store.NewBatch("receive cash")

	switch in.Book {
	case models.BookCash:
		snap.CashTransactions = append(snap.CashTransactions, models.CashTransaction{
			ID:         id,
			Date:       date,
			Name:       in.DebtorName,
			Amount:     in.Amount,
			Credit:     in.Amount,
			Type:       models.TxnReceive,
			PersonType: models.PersonDebtor,
			BookType:   models.BookCash,
		})
		if err := b.Put(store.KeyCashTransactions, snap.CashTransactions); err != nil {
			return "", err
		}
	case models.BookBank:
		snap.BankTransactions = append(snap.BankTransactions, models.BankTransaction{
			ID:         id,
			Date:       date,
			Name:       in.DebtorName,
			Particular: in.DebtorName,
			Amount:     in.Amount,
			Debit:      in.Amount,
			Type:       models.TxnReceive,
			PersonType: models.PersonDebtor,
			BookType:   models.BookBank,
		})
		if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
			return "", err
		}
	}

	if err := s.commit(snap, b); err != nil {
		return "", err
	}
	return id, nil
}

// MakePayment records money paid to a creditor or debtor from the chosen
// book. A payment to "cash" transfers the amount from the cash book to the
// bank book and is rejected when the cash book balance is too low.
func (s *Service) MakePayment(in PaymentInput) (models.ID, error) {
	trim(&in.Name)
	if err := validateInput(in); err != nil {
		return "", err
	}
	if in.PersonType != models.PersonCash && in.Book == "" {
		return "", NewValidationError("bookType", in.Book, "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return "", err
	}

	id := models.NewID()
	date := s.dateOrToday(in.Date)

	if in.PersonType == models.PersonCash {
		return id, s.transferToBank(snap, id, date, in.Amount)
	}

	switch in.PersonType {
	case models.PersonCreditor:
		if !creditorExists(snap, in.Name) {
			return "", notFound("creditor", in.Name)
		}
	case models.PersonDebtor:
		if _, _, ok := snap.FindDebtor(in.Name); !ok {
			return "", notFound("debtor", in.Name)
		}
	}

	b := store.NewBatch("make payment")
	switch in.Book {
	case models.BookCash:
		snap.CashTransactions = append(snap.CashTransactions, models.CashTransaction{
			ID:         id,
			Date:       date,
			Name:       in.Name,
			Amount:     in.Amount,
			Type:       models.TxnPayment,
			PersonType: in.PersonType,
			BookType:   models.BookCash,
		})
		if err := b.Put(store.KeyCashTransactions, snap.CashTransactions); err != nil {
			return "", err
		}
	case models.BookBank:
		snap.BankTransactions = append(snap.BankTransactions, models.BankTransaction{
			ID:         id,
			Date:       date,
			Name:       in.Name,
			Particular: in.Name,
			Amount:     in.Amount,
			Credit:     in.Amount,
			Type:       models.TxnPayment,
			PersonType: in.PersonType,
			BookType:   models.BookBank,
		})
		if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
			return "", err
		}
	}

	if err := s.commit(snap, b); err != nil {
		return "", err
	}
	return id, nil
}

// transferToBank writes the cash payment and the bank debit of a transfer in
// one batch. Both rows share id.
func (s *Service) transferToBank(snap *models.Snapshot, id models.ID, date models.Date, amount models.Amount) error {
	if err := checkCashAvailable(snap, amount); err != nil {
		return err
	}

	snap.CashTransactions = append(snap.CashTransactions, models.CashTransaction{
		ID:         id,
		Date:       date,
		Name:       models.CashTransferName,
		Amount:     amount,
		Type:       models.TxnPayment,
		PersonType: models.PersonCash,
		BookType:   models.BookBank,
	})
	snap.BankTransactions = append(snap.BankTransactions, models.BankTransaction{
		ID:         id,
		Date:       date,
		Particular: models.CashTransferName,
		Debit:      amount,
		PersonType: models.PersonCash,
	})

	b := store.NewBatch("cash transfer")
	if err := b.Put(store.KeyCashTransactions, snap.CashTransactions); err != nil {
		return err
	}
	if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
		return err
	}
	return s.commit(snap, b)
}

// checkCashAvailable rejects a transfer of amount above the cash book balance.
func checkCashAvailable(snap *models.Snapshot, amount models.Amount) error {
	balance := ledger.CashBook(snap).Balance
	if amount.Decimal().GreaterThan(balance) {
		return NewValidationError("amount", amount, "amount exceeds cash book balance of "+ledger.FormatAmount(balance))
	}
	return nil
}

// AddBankEntry appends a manual bank book row.
func (s *Service) AddBankEntry(in BankEntryInput) (models.BankTransaction, error) {
	trim(&in.Particular)
	if err := validateInput(in); err != nil {
		return models.BankTransaction{}, err
	}
	if in.Debit == 0 && in.Credit == 0 {
		return models.BankTransaction{}, NewValidationError("debit", in.Debit, "either debit or credit is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.BankTransaction{}, err
	}

	t := models.BankTransaction{
		ID:         models.NewID(),
		Date:       s.dateOrToday(in.Date),
		Particular: in.Particular,
		Debit:      in.Debit,
		Credit:     in.Credit,
	}
	snap.BankTransactions = append(snap.BankTransactions, t)

	b := store.NewBatch("add bank entry")
	if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
		return models.BankTransaction{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.BankTransaction{}, err
	}
	return t, nil
}

// UpdateCashTransaction edits a cash book row. Editing one half of a cash
// transfer updates the bank half too, and the new amount must fit the cash
// book balance like a new transfer.
func (s *Service) UpdateCashTransaction(id models.ID, in CashEditInput) (models.CashTransaction, error) {
	trim(&in.Name, &in.Particular)
	if err := validateInput(in); err != nil {
		return models.CashTransaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.CashTransaction{}, err
	}
	i := slices.IndexFunc(snap.CashTransactions, func(t models.CashTransaction) bool { return t.ID == id })
	if i < 0 {
		return models.CashTransaction{}, notFound("cash transaction", id.String())
	}

	t := snap.CashTransactions[i]
	transfer := isTransfer(t)
	if transfer {
		// The balance check runs against the book without the row being edited.
		others := *snap
		others.CashTransactions = slices.Delete(slices.Clone(snap.CashTransactions), i, i+1)
		if err := checkCashAvailable(&others, in.Amount); err != nil {
			return models.CashTransaction{}, err
		}
	}
	if !in.Date.Time.IsZero() {
		t.Date = in.Date
	}
	if in.Name != "" && !transfer {
		t.Name = in.Name
	}
	if in.Particular != "" {
		t.Particular = in.Particular
	}
	if in.Type != "" && !transfer {
		t.Type = in.Type
	}
	t.Amount = in.Amount
	if t.Debit != 0 {
		t.Debit = in.Amount
	}
	if t.Credit != 0 {
		t.Credit = in.Amount
	}
	snap.CashTransactions[i] = t

	b := store.NewBatch("update cash transaction")
	if err := b.Put(store.KeyCashTransactions, snap.CashTransactions); err != nil {
		return models.CashTransaction{}, err
	}
	if transfer {
		if j := slices.IndexFunc(snap.BankTransactions, func(bt models.BankTransaction) bool { return bt.ID == id }); j >= 0 {
			snap.BankTransactions[j].Date = t.Date
			snap.BankTransactions[j].Debit = in.Amount
			if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
				return models.CashTransaction{}, err
			}
		}
	}
	if err := s.commit(snap, b); err != nil {
		return models.CashTransaction{}, err
	}
	return t, nil
}

// DeleteCashTransaction removes a cash book row, and the bank half of a
// cash transfer.
func (s *Service) DeleteCashTransaction(id models.ID) error {
	return s.deleteTransaction("delete cash transaction", models.BookCash, id)
}

// DeleteBankTransaction removes a bank book row, and the cash half of a
// cash transfer.
func (s *Service) DeleteBankTransaction(id models.ID) error {
	return s.deleteTransaction("delete bank transaction", models.BookBank, id)
}

func (s *Service) deleteTransaction(operation string, book models.BookType, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}

	var cashIdx, bankIdx = -1, -1
	cashIdx = slices.IndexFunc(snap.CashTransactions, func(t models.CashTransaction) bool { return t.ID == id })
	bankIdx = slices.IndexFunc(snap.BankTransactions, func(t models.BankTransaction) bool { return t.ID == id })

	removeCash, removeBank := false, false
	switch book {
	case models.BookCash:
		if cashIdx < 0 {
			return notFound("cash transaction", id.String())
		}
		removeCash = true
		removeBank = bankIdx >= 0 && isTransfer(snap.CashTransactions[cashIdx])
	case models.BookBank:
		if bankIdx < 0 {
			return notFound("bank transaction", id.String())
		}
		removeBank = true
		removeCash = cashIdx >= 0 && isBankTransfer(snap.BankTransactions[bankIdx])
	}

	b := store.NewBatch(operation)
	if removeCash {
		snap.CashTransactions = slices.Delete(snap.CashTransactions, cashIdx, cashIdx+1)
		if err := b.Put(store.KeyCashTransactions, snap.CashTransactions); err != nil {
			return err
		}
	}
	if removeBank {
		snap.BankTransactions = slices.Delete(snap.BankTransactions, bankIdx, bankIdx+1)
		if err := b.Put(store.KeyBankTransactions, snap.BankTransactions); err != nil {
			return err
		}
	}
	return s.commit(snap, b)
}

func isTransfer(t models.CashTransaction) bool {
	return t.PersonType == models.PersonCash && t.Name == models.CashTransferName
}

func isBankTransfer(t models.BankTransaction) bool {
	return t.PersonType == models.PersonCash && t.Particular == models.CashTransferName
}
