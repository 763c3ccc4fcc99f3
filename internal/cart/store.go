package cart

import (
	"errors"
	"fmt"
	"time"

	"elysoir/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrIndexOutOfRange = errors.New("cart: index out of range")

// Store is the ordered list of cart lines plus the drawer flag. It is not
// safe for concurrent use; the owning session serializes access.
type Store struct {
	items  []domain.CartItem
	open   bool
	lastID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add appends a snapshot of product with the chosen options and opens the
// drawer. Adding the same product twice yields two lines.
func (s *Store) Add(product domain.Product, options map[string]string) domain.CartItem {
	selected := make(map[string]string, len(options))
	for k, v := range options {
		selected[k] = v
	}

	item := domain.CartItem{
		LineID:          fmt.Sprintf("%s-%d", product.ID, s.nextStamp()),
		Product:         product.Clone(),
		SelectedOptions: selected,
	}
	s.items = append(s.items, item)
	s.open = true
	return item
}

// nextStamp is the current unix millis, bumped past the previous stamp so two
// adds inside the same millisecond still get distinct line ids.
func (s *Store) nextStamp() int64 {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastID {
		stamp = s.lastID + 1
	}
	s.lastID = stamp
	return stamp
}

// RemoveAt drops the line at index i, keeping the order of the rest.
func (s *Store) RemoveAt(i int) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.items))
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

// Total is the sum of line prices. Quantity is always one per line.
func (s *Store) Total() decimal.Decimal {
	return Total(s.items)
}

func (s *Store) Open()        { s.open = true }
func (s *Store) Close()       { s.open = false }
func (s *Store) IsOpen() bool { return s.open }

func Total(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price)
	}
	return total
}
