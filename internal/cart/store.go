// Package cart implements the session-scoped cart store. All operations are
// synchronous and in-memory; invalid input is a silent no-op, never an error.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu         sync.Mutex
	items      []Item
	totalItems int
	totalPrice decimal.Decimal
}

func NewStore() *Store {
	return &Store{totalPrice: decimal.Zero}
}

// AddItem accumulates quantity when the product is already present,
// otherwise appends a new line. Quantities below 1 are rejected silently.
func (s *Store) AddItem(item Item, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += quantity
			s.recomputeTotals()
			return
		}
	}

	item.Quantity = quantity
	s.items = append(s.items, item)
	s.recomputeTotals()
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1
// leave the cart untouched; the decrement control stops at 1 and a stray
// zero must not delete the line.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.recomputeTotals()
			return
		}
	}
}

func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.recomputeTotals()
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.recomputeTotals()
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItems
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice
}

// Snapshot returns a decoupled copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      append([]Item(nil), s.items...),
		TotalItems: s.totalItems,
		TotalPrice: s.totalPrice,
	}
}

// recomputeTotals derives totals from the lines after every mutation;
// totals are never stored independently of one. Callers hold s.mu.
func (s *Store) recomputeTotals() {
	count := 0
	total := decimal.Zero
	for _, item := range s.items {
		count += item.Quantity
		total = total.Add(item.LineTotal())
	}
	s.totalItems = count
	s.totalPrice = total
}
