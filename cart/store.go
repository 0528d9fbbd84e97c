// Package cart holds the shopper cart state for one session and keeps it in
// sync with a key-value storage backend.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxQuantity is the per-line ceiling used when none is configured.
const DefaultMaxQuantity = 10

// Storage is the durable key-value slot a cart is persisted to.
// Load returns (nil, nil) when nothing is stored under key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type snapshot struct {
	Items     []models.CartLine `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store owns the ordered cart lines of a single shopper session.
// Every public method is atomic with respect to the line collection.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	maxQty  int
	lines   []models.CartLine
	logger  *zap.Logger
}

// Open rehydrates the cart stored under key. Missing or corrupt state yields
// an empty cart. A storage read failure returns ErrStorage and no store, so
// an unreadable cart is never overwritten by an empty one.
func Open(ctx context.Context, storage Storage, key string, maxQty int, logger *zap.Logger) (*Store, error) {
	if maxQty <= 0 {
		maxQty = DefaultMaxQuantity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		key:     key,
		storage: storage,
		maxQty:  maxQty,
		logger:  logger,
	}
	data, err := storage.Load(ctx, key)
	if err != nil {
		logger.Error("cart load failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.lines = s.decode(data)
	return s, nil
}

func (s *Store) decode(data []byte) []models.CartLine {
	if len(data) == 0 {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("stored cart is corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}

	seen := make(map[string]struct{}, len(snap.Items))
	lines := make([]models.CartLine, 0, len(snap.Items))
	for _, line := range snap.Items {
		if line.ID == "" || line.Quantity < 1 || line.Quantity > s.maxQty {
			s.logger.Warn("dropping invalid stored cart line",
				zap.String("key", s.key), zap.String("product_id", line.ID), zap.Int("quantity", line.Quantity))
			continue
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

// MaxQuantity returns the per-line ceiling.
func (s *Store) MaxQuantity() int { return s.maxQty }

// AddToCart increments the line for item.ID by qty, creating it if needed.
func (s *Store) AddToCart(ctx context.Context, item models.CatalogItem, qty int) error {
	if item.ID == "" {
		return ErrInvalidItem
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if qty > s.maxQty {
		return ErrQuantityLimitExceeded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	idx := indexOf(next, item.ID)
	if idx >= 0 {
		if qty > s.maxQty-next[idx].Quantity {
			return ErrQuantityLimitExceeded
		}
		next[idx].Quantity += qty
	} else {
		next = append(next, models.CartLine{CatalogItem: item, Quantity: qty})
	}
	return s.commit(ctx, next)
}

// RemoveFromCart deletes the line for itemID. Absent ids are a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.lines, itemID)
	if idx < 0 {
		return nil
	}
	next := make([]models.CartLine, 0, len(s.lines)-1)
	next = append(next, s.lines[:idx]...)
	next = append(next, s.lines[idx+1:]...)
	return s.commit(ctx, next)
}

// UpdateQuantity sets the quantity of an existing line to exactly qty.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if qty > s.maxQty {
		return ErrQuantityLimitExceeded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.lines, itemID)
	if idx < 0 {
		return ErrNotFound
	}
	next := s.clone()
	next[idx].Quantity = qty
	return s.commit(ctx, next)
}

// ClearCart empties the cart and persists the empty state.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []models.CartLine{})
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clone()
}

// TotalItems is the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

// TotalPrice is the sum of effective price times quantity across all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// View returns lines and totals taken from the same state.
func (s *Store) View() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartView{
		Items:      s.clone(),
		TotalItems: totalItems(s.lines),
		TotalPrice: totalPrice(s.lines),
	}
}

// commit persists next and only then makes it the current state.
// Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, next []models.CartLine) error {
	data, err := json.Marshal(snapshot{Items: next, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Error("cart persist failed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.lines = next
	return nil
}

func (s *Store) clone() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func indexOf(lines []models.CartLine, id string) int {
	for i := range lines {
		if lines[i].ID == id {
			return i
		}
	}
	return -1
}

func totalItems(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func totalPrice(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(pricing.LineTotal(l.CatalogItem, l.Quantity))
	}
	return total
}
