// Package cart holds the shopping cart: an in-memory list of product lines
// persisted through localstate, so a cart survives closing and reopening the
// shop. The store is an explicit value handed to whoever needs it, never a
// package-level singleton.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sokophones/storefront/internal/localstate"
	"github.com/sokophones/storefront/internal/models"
)

const storageKey = "cart-storage"

type Store struct {
	mu      sync.Mutex
	items   []models.CartItem
	persist *localstate.Store
}

// New loads any previously persisted cart from state. A nil state keeps the
// cart purely in memory, which the tests use.
func New(state *localstate.Store) (*Store, error) {
	s := &Store{persist: state}

	if state != nil {
		if err := state.Load(storageKey, &s.items); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) save() error {
	if s.persist == nil {
		return nil
	}
	return s.persist.Save(storageKey, s.items)
}

// Add merges by product ID: an existing line's quantity grows by qty, a new
// product appends a line. qty values below 1 count as 1.
func (s *Store) Add(item models.CartItem, qty int) error {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += qty
			return s.save()
		}
	}

	item.Quantity = qty
	s.items = append(s.items, item)
	return s.save()
}

// Remove deletes the line for productID; absent lines are a no-op.
func (s *Store) Remove(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.save()
		}
	}

	return nil
}

// UpdateQuantity sets a line's quantity; qty <= 0 removes the line.
func (s *Store) UpdateQuantity(productID int64, qty int) error {
	if qty <= 0 {
		return s.Remove(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
			return s.save()
		}
	}

	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.save()
}

// Items returns a snapshot copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is derived on every call, never stored: the sum of unit price times
// quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total decimal.Decimal
	for _, item := range s.items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
