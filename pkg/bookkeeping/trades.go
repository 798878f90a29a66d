package bookkeeping

import (
	"slices"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// RecordPurchase appends a purchase and the stock row mirroring it.
// Purchases taken in from a debtor require the debtor to exist.
func (s *Service) RecordPurchase(in PurchaseInput) (models.Purchase, error) {
	trim(&in.SupplierName, &in.ChassisNumber, &in.ModelNumber, &in.InvoiceNumber)
	if err := validateInput(in); err != nil {
		return models.Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.Purchase{}, err
	}
	if in.PersonType == models.PersonDebtor {
		if _, _, ok := snap.FindDebtor(in.SupplierName); !ok {
			return models.Purchase{}, notFound("debtor", in.SupplierName)
		}
	}

	p := models.Purchase{
		ID:            models.NewID(),
		SupplierName:  in.SupplierName,
		Date:          s.dateOrToday(in.Date),
		ChassisNumber: in.ChassisNumber,
		ModelNumber:   in.ModelNumber,
		InvoiceNumber: in.InvoiceNumber,
		Amount:        in.Amount,
		PersonType:    in.PersonType,
	}
	snap.Purchases = append(snap.Purchases, p)
	snap.Stock = append(snap.Stock, models.StockFromPurchase(p))

	b := store.NewBatch("record purchase")
	if err := b.Put(store.KeyPurchases, snap.Purchases); err != nil {
		return models.Purchase{}, err
	}
	if err := b.Put(store.KeyStock, snap.Stock); err != nil {
		return models.Purchase{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.Purchase{}, err
	}
	return p, nil
}

// RecordSale sells the stock row with the given chassis number. The sale takes
// its model number from the stock row, and the stock row is removed.
func (s *Service) RecordSale(in SaleInput) (models.Sale, error) {
	trim(&in.SerialNumber, &in.ChassisNumber, &in.CustomerName)
	if err := validateInput(in); err != nil {
		return models.Sale{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.Sale{}, err
	}
	i := slices.IndexFunc(snap.Stock, func(st models.StockItem) bool { return st.ChassisNumber == in.ChassisNumber })
	if i < 0 {
		return models.Sale{}, &ReferenceNotFoundError{
			Kind:    "stock",
			Key:     in.ChassisNumber,
			Message: "selected tractor not found in stock",
		}
	}
	if _, _, ok := snap.FindDebtor(in.CustomerName); !ok {
		return models.Sale{}, notFound("debtor", in.CustomerName)
	}

	item := snap.Stock[i]
	sale := models.Sale{
		ID:            models.NewID(),
		Date:          s.dateOrToday(in.Date),
		SerialNumber:  in.SerialNumber,
		ChassisNumber: in.ChassisNumber,
		ModelNumber:   item.ModelNumber,
		CustomerName:  in.CustomerName,
		Amount:        in.Amount,
	}
	snap.Sales = append(snap.Sales, sale)
	snap.Stock = slices.Delete(snap.Stock, i, i+1)

	b := store.NewBatch("record sale")
	if err := b.Put(store.KeySales, snap.Sales); err != nil {
		return models.Sale{}, err
	}
	if err := b.Put(store.KeyStock, snap.Stock); err != nil {
		return models.Sale{}, err
	}
	if err := s.commit(snap, b); err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// DeleteSale removes a sale. When the tractor's purchase is still on record
// its stock row is restored, so stock and purchases stay in lockstep.
func (s *Service) DeleteSale(id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(snap.Sales, func(sale models.Sale) bool { return sale.ID == id })
	if i < 0 {
		return notFound("sale", id.String())
	}
	sale := snap.Sales[i]
	snap.Sales = slices.Delete(snap.Sales, i, i+1)

	b := store.NewBatch("delete sale")
	if err := b.Put(store.KeySales, snap.Sales); err != nil {
		return err
	}

	inStock := slices.ContainsFunc(snap.Stock, func(st models.StockItem) bool { return st.ChassisNumber == sale.ChassisNumber })
	if !inStock {
		for j := len(snap.Purchases) - 1; j >= 0; j-- {
			p := snap.Purchases[j]
			if p.ChassisNumber == sale.ChassisNumber {
				snap.Stock = append(snap.Stock, models.StockFromPurchase(p))
				if err := b.Put(store.KeyStock, snap.Stock); err != nil {
					return err
				}
				break
			}
		}
	}
	return s.commit(snap, b)
}

// UpdateStock edits a stock row and the purchase sharing its id.
func (s *Service) UpdateStock(id models.ID, in StockInput) (models.StockItem, error) {
	trim(&in.InvoiceNumber, &in.ChassisNumber, &in.ModelNumber)
	if err := validateInput(in); err != nil {
		return models.StockItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return models.StockItem{}, err
	}
	i := slices.IndexFunc(snap.Stock, func(st models.StockItem) bool { return st.ID == id })
	if i < 0 {
		return models.StockItem{}, notFound("stock", id.String())
	}

	item := snap.Stock[i]
	item.InvoiceNumber = in.InvoiceNumber
	item.ChassisNumber = in.ChassisNumber
	item.ModelNumber = in.ModelNumber
	item.Amount = in.Amount
	if !in.Date.Time.IsZero() {
		item.Date = in.Date
	}
	snap.Stock[i] = item

	b := store.NewBatch("update stock")
	if err := b.Put(store.KeyStock, snap.Stock); err != nil {
		return models.StockItem{}, err
	}
	if j := slices.IndexFunc(snap.Purchases, func(p models.Purchase) bool { return p.ID == id }); j >= 0 {
		p := snap.Purchases[j]
		p.Date = item.Date
		p.InvoiceNumber = item.InvoiceNumber
		p.ChassisNumber = item.ChassisNumber
		p.ModelNumber = item.ModelNumber
		p.Amount = item.Amount
		snap.Purchases[j] = p
		if err := b.Put(store.KeyPurchases, snap.Purchases); err != nil {
			return models.StockItem{}, err
		}
	}
	if err := s.commit(snap, b); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

// DeleteStock removes a stock row and the purchase sharing its id.
func (s *Service) DeleteStock(id models.ID) error {
	return s.deleteStockAndPurchase("delete stock", "stock", id)
}

// DeletePurchase removes a purchase and, if still unsold, its stock row.
func (s *Service) DeletePurchase(id models.ID) error {
	return s.deleteStockAndPurchase("delete purchase", "purchase", id)
}

func (s *Service) deleteStockAndPurchase(operation, kind string, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}

	stockBefore, purchasesBefore := len(snap.Stock), len(snap.Purchases)
	snap.Stock = slices.DeleteFunc(snap.Stock, func(st models.StockItem) bool { return st.ID == id })
	snap.Purchases = slices.DeleteFunc(snap.Purchases, func(p models.Purchase) bool { return p.ID == id })
	stockRemoved := len(snap.Stock) != stockBefore
	purchaseRemoved := len(snap.Purchases) != purchasesBefore

	if (kind == "stock" && !stockRemoved) || (kind == "purchase" && !purchaseRemoved) {
		return notFound(kind, id.String())
	}

	b := store.NewBatch(operation)
	if stockRemoved {
		if err := b.Put(store.KeyStock, snap.Stock); err != nil {
			return err
		}
	}
	if purchaseRemoved {
		if err := b.Put(store.KeyPurchases, snap.Purchases); err != nil {
			return err
		}
	}
	return s.commit(snap, b)
}
