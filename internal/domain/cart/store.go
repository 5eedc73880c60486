// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/domain/catalog"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/notify"
)

// MutationRecorder counts cart mutations by kind
type MutationRecorder interface {
	RecordCartMutation(kind string)
}

// Listener is called with a fresh snapshot after every mutation
type Listener func(Snapshot)

// Store is one browser's cart, persisted under the wouhouch_cart key
type Store struct {
	mu       sync.Mutex
	entries  []Entry
	storage  *localstore.Storage
	notifier notify.Notifier
	log      logrus.FieldLogger
	recorder MutationRecorder

	listeners []Listener
}

// Option configures a Store
type Option func(*Store)

// WithRecorder reports mutations to r
func WithRecorder(r MutationRecorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore loads the cart from storage. Missing or corrupt data gives an empty cart.
func NewStore(ctx context.Context, storage *localstore.Storage, notifier notify.Notifier, log logrus.FieldLogger, opts ...Option) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}

	s := &Store{
		storage:  storage,
		notifier: notifier,
		log:      log.WithField("component", "cart"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.entries = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Entry {
	raw, ok, err := s.storage.GetItem(ctx, localstore.KeyCart)
	if err != nil {
		s.log.WithError(err).Warn("Failed to load cart from storage")
		return []Entry{}
	}
	if !ok || raw == "" {
		return []Entry{}
	}

	var stored []Entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.WithError(err).Warn("Discarding corrupt cart payload")
		return []Entry{}
	}

	// Drop lines that could never have been written by the store
	entries := make([]Entry, 0, len(stored))
	for _, e := range stored {
		if e.Product.ID == "" || e.Qty <= 0 {
			s.log.WithField("product_id", e.Product.ID).Warn("Dropping invalid cart line")
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// AddItem merges qty into the line for (product, variant) or appends a new line.
// A non-positive qty counts as 1. Stock is not checked here.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, variant *catalog.Variant, qty int) Snapshot {
	if qty <= 0 {
		qty = 1
	}

	variantID := ""
	if variant != nil {
		variantID = variant.ID
	}

	s.mu.Lock()
	merged := false
	for i := range s.entries {
		if s.entries[i].Matches(product.ID, variantID) {
			s.entries[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		entry := Entry{Product: product, Qty: qty}
		if variant != nil {
			v := *variant
			entry.Variant = &v
		}
		s.entries = append(s.entries, entry)
	}
	snap := s.commitLocked(ctx)
	s.mu.Unlock()

	if merged {
		s.notifier.Success(fmt.Sprintf("Updated %s quantity", product.Title))
	} else {
		s.notifier.Success(fmt.Sprintf("Added %s to cart", product.Title))
	}
	s.record("add")
	s.emit(snap)
	return snap
}

// RemoveItem deletes the line for (productID, variantID); a missing line is a no-op
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) Snapshot {
	s.mu.Lock()
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if !e.Matches(productID, variantID) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	snap := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notifier.Success("Item removed from cart")
	s.record("remove")
	s.emit(snap)
	return snap
}

// UpdateQuantity sets the line's quantity; qty <= 0 removes the line
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int, variantID string) Snapshot {
	if qty <= 0 {
		return s.RemoveItem(ctx, productID, variantID)
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].Matches(productID, variantID) {
			s.entries[i].Qty = qty
			break
		}
	}
	snap := s.commitLocked(ctx)
	s.mu.Unlock()

	s.record("update")
	s.emit(snap)
	return snap
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.entries = []Entry{}
	snap := s.commitLocked(ctx)
	s.mu.Unlock()

	s.record("clear")
	s.emit(snap)
	return snap
}

// Items returns a copy of the cart lines
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Total is the sum of price × qty over all lines
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, _ := Totals(s.entries)
	return total
}

// ItemCount is the sum of qty over all lines
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, count := Totals(s.entries)
	return count
}

// Snapshot returns the lines and derived values read under one lock
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// commitLocked persists the lines and returns the new snapshot.
// Save failures are logged only.
func (s *Store) commitLocked(ctx context.Context) Snapshot {
	payload, err := json.Marshal(s.entries)
	if err != nil {
		s.log.WithError(err).Error("Failed to serialize cart")
	} else if err := s.storage.SetItem(ctx, localstore.KeyCart, string(payload)); err != nil {
		s.log.WithError(err).Error("Failed to save cart to storage")
	}
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := s.copyLocked()
	total, count := Totals(items)
	return Snapshot{Items: items, Total: total, ItemCount: count}
}

func (s *Store) copyLocked() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) emit(snap Snapshot) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(snap)
		}
	}
}

func (s *Store) record(kind string) {
	if s.recorder != nil {
		s.recorder.RecordCartMutation(kind)
	}
}
