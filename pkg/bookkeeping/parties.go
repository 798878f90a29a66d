package bookkeeping

import (
	"slices"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// AddSupplier registers a supplier name. Repeated names are stored as given;
// the creditors overview lists each name once.
func (s *Service) AddSupplier(name string) error {
	trim(&name)
	if name == "" {
		return NewValidationError("name", name, "please enter a supplier name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}

	b := store.NewBatch("add supplier")
	snap.Suppliers = append(snap.Suppliers, name)
	if err := b.Put(store.KeySuppliers, snap.Suppliers); err != nil {
		return err
	}
	return s.commit(snap, b)
}

// RenameSupplier renames a supplier and every purchase, stock row and
// creditor transaction that refers to it.
func (s *Service) RenameSupplier(oldName, newName string) error {
	trim(&oldName, &newName)
	if newName == "" {
		return NewValidationError("newName", newName, "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	if !creditorExists(snap, oldName) {
		return notFound("supplier", oldName)
	}
	if oldName == newName {
		return nil
	}
	if creditorExists(snap, newName) {
		return NewValidationError("newName", newName, "supplier already exists")
	}

	b := store.NewBatch("rename supplier")
	if slices.Contains(snap.Suppliers, oldName) {
		for i, n := range snap.Suppliers {
			if n == oldName {
				snap.Suppliers[i] = newName
			}
		}
	} else {
		snap.Suppliers = append(snap.Suppliers, newName)
	}
	if err := b.Put(store.KeySuppliers, snap.Suppliers); err != nil {
		return err
	}
	if err := renameParty(snap, b, models.PersonCreditor, oldName, newName); err != nil {
		return err
	}
	return s.commit(snap, b)
}

// DeleteSupplier removes a supplier together with its purchases and their
// stock rows. Payments already made stay in the books under the old name.
func (s *Service) DeleteSupplier(name string) error {
	trim(&name)

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	if !creditorExists(snap, name) {
		return notFound("supplier", name)
	}

	b := store.NewBatch("delete supplier")
	snap.Suppliers = slices.DeleteFunc(snap.Suppliers, func(n string) bool { return n == name })
	if err := b.Put(store.KeySuppliers, snap.Suppliers); err != nil {
		return err
	}

	removed := make(map[models.ID]bool)
	snap.Purchases = slices.DeleteFunc(snap.Purchases, func(p models.Purchase) bool {
		if p.SupplierName == name && !p.FromDebtor() {
			removed[p.ID] = true
			return true
		}
		return false
	})
	if len(removed) > 0 {
		snap.Stock = slices.DeleteFunc(snap.Stock, func(st models.StockItem) bool { return removed[st.ID] })
		if err := b.Put(store.KeyPurchases, snap.Purchases); err != nil {
			return err
		}
		if err := b.Put(store.KeyStock, snap.Stock); err != nil {
			return err
		}
	}
	return s.commit(snap, b)
}

// AddDebtor creates a debtor. Names must be unique because every transaction
// refers to its debtor by name.
func (s *Service) AddDebtor(in DebtorInput) (models.Debtor, error) {
	trim(&in.Name, &in.Address, &in.Phone, &in.Finance)
	if err := validateInput(in); err != nil {
		return models.Debtor{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.Debtor{}, err
	}
	if _, _, ok := snap.FindDebtor(in.Name); ok {
		return models.Debtor{}, NewValidationError("name", in.Name, "debtor already exists")
	}

	d := models.Debtor{
		ID:      models.NewID(),
		Date:    s.dateOrToday(in.Date),
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
		Finance: in.Finance,
	}
	snap.Debtors = append(snap.Debtors, d)

	b := store.NewBatch("add debtor")
	if err := b.Put(store.KeyDebtors, snap.Debtors); err != nil {
		return models.Debtor{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.Debtor{}, err
	}
	_, i, _ := snap.FindDebtor(in.Name)
	return snap.Debtors[i], nil
}

// UpdateDebtor edits a debtor's details. A changed name is carried over to
// every sale, purchase and transaction recorded under the old name.
func (s *Service) UpdateDebtor(id models.ID, in DebtorInput) (models.Debtor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateDebtor(id, in)
}

// updateDebtor is UpdateDebtor for callers holding s.mu.
func (s *Service) updateDebtor(id models.ID, in DebtorInput) (models.Debtor, error) {
	trim(&in.Name, &in.Address, &in.Phone, &in.Finance)
	if err := validateInput(in); err != nil {
		return models.Debtor{}, err
	}

	snap, err := s.load()
	if err != nil {
		return models.Debtor{}, err
	}
	i := slices.IndexFunc(snap.Debtors, func(d models.Debtor) bool { return d.ID == id })
	if i < 0 {
		return models.Debtor{}, notFound("debtor", id.String())
	}

	b := store.NewBatch("update debtor")
	current := snap.Debtors[i]
	if current.Name != in.Name {
		if _, _, exists := snap.FindDebtor(in.Name); exists {
			return models.Debtor{}, NewValidationError("name", in.Name, "debtor already exists")
		}
		if err := renameParty(snap, b, models.PersonDebtor, current.Name, in.Name); err != nil {
			return models.Debtor{}, err
		}
	}

	current.Name = in.Name
	current.Address = in.Address
	current.Phone = in.Phone
	current.Finance = in.Finance
	if !in.Date.Time.IsZero() {
		current.Date = in.Date
	}
	snap.Debtors[i] = current

	if err := b.Put(store.KeyDebtors, snap.Debtors); err != nil {
		return models.Debtor{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.Debtor{}, err
	}
	return snap.Debtors[i], nil
}

// RenameDebtor renames the debtor called oldName.
func (s *Service) RenameDebtor(oldName, newName string) (models.Debtor, error) {
	trim(&oldName)

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.Debtor{}, err
	}
	d, _, ok := snap.FindDebtor(oldName)
	if !ok {
		return models.Debtor{}, notFound("debtor", oldName)
	}
	return s.updateDebtor(d.ID, DebtorInput{
		Name:    newName,
		Address: d.Address,
		Phone:   d.Phone,
		Finance: d.Finance,
	})
}

// DeleteDebtor removes a debtor record. Its sales and transactions are kept
// and still appear in the books under the debtor's name.
func (s *Service) DeleteDebtor(id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	before := len(snap.Debtors)
	snap.Debtors = slices.DeleteFunc(snap.Debtors, func(d models.Debtor) bool { return d.ID == id })
	if len(snap.Debtors) == before {
		return notFound("debtor", id.String())
	}

	b := store.NewBatch("delete debtor")
	if err := b.Put(store.KeyDebtors, snap.Debtors); err != nil {
		return err
	}
	return s.commit(snap, b)
}

// renameParty rewrites every reference to oldName of the given kind in snap
// and schedules the changed collections on b.
func renameParty(snap *models.Snapshot, b *store.Batch, kind models.PersonType, oldName, newName string) error {
	purchasesChanged := false
	for i, p := range snap.Purchases {
		if p.SupplierName == oldName && matchesKind(p.PersonType, kind) {
			snap.Purchases[i].SupplierName = newName
			purchasesChanged = true
		}
	}
	stockChanged := false
	for i, st := range snap.Stock {
		if st.SupplierName == oldName && matchesKind(st.PersonType, kind) {
			snap.Stock[i].SupplierName = newName
			stockChanged = true
		}
	}
	salesChanged := false
	if kind == models.PersonDebtor {
		for i, sale := range snap.Sales {
			if sale.CustomerName == oldName {
				snap.Sales[i].CustomerName = newName
				salesChanged = true
			}
		}
	}
	cashChanged := false
	for i, t := range snap.CashTransactions {
		if t.Name == oldName && t.PersonType == kind {
			snap.CashTransactions[i].Name = newName
			cashChanged = true
		}
	}
	bankChanged := false
	for i, t := range snap.BankTransactions {
		if t.PersonType != kind {
			continue
		}
		if t.Particular == oldName {
			snap.BankTransactions[i].Particular = newName
			bankChanged = true
		}
		if t.Name == oldName {
			snap.BankTransactions[i].Name = newName
			bankChanged = true
		}
	}

	puts := []struct {
		changed bool
		key     string
		value   interface{}
	}{
		{purchasesChanged, store.KeyPurchases, snap.Purchases},
		{stockChanged, store.KeyStock, snap.Stock},
		{salesChanged, store.KeySales, snap.Sales},
		{cashChanged, store.KeyCashTransactions, snap.CashTransactions},
		{bankChanged, store.KeyBankTransactions, snap.BankTransactions},
	}
	for _, p := range puts {
		if !p.changed {
			continue
		}
		if err := b.Put(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// matchesKind treats an empty person type as a creditor.
func matchesKind(pt, kind models.PersonType) bool {
	if pt == "" {
		pt = models.PersonCreditor
	}
	return pt == kind
}
