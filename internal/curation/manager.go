// Package curation owns the manually curated display state of content
// items: the persistent display order and the active/featured toggles that
// coexist with, and can be overridden by, the computed ranking.
package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/guestview/guestview/internal/content"
)

// Direction is one reorder step within a catalog's display view.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ErrNotFound reports that the targeted content item does not exist.
var ErrNotFound = errors.New("content item not found")

// PersistenceError reports that the durable write behind a mutation did not
// complete. The mutation is applied transactionally, so stored state is
// unchanged; callers should still re-fetch to confirm.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the storage surface the manager mutates. *storage.Repository
// satisfies this interface.
type Store interface {
	GetItem(ctx context.Context, id uuid.UUID) (*content.Item, error)
	ListView(ctx context.Context, propertyID string, kind content.Kind) ([]content.Item, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error)
	SwapDisplayOrder(ctx context.Context, itemA, itemB uuid.UUID, orderA, orderB int) error
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
}

// Invalidator drops a property's cached catalog snapshots after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, propertyID string) error
}

// Manager serializes curation mutations per property and keeps the catalog
// cache coherent. Concurrent reorders on the same pair of items would
// otherwise race and leave display_order values swapped incorrectly.
type Manager struct {
	store Store
	cache Invalidator
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager constructs a Manager over the given store and cache.
func NewManager(store Store, cache Invalidator, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		cache: cache,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// propertyLock returns the mutex serializing mutations for one property.
func (m *Manager) propertyLock(propertyID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[propertyID] = l
	}
	return l
}

// invalidate drops the property's cached catalogs. A cache failure is not a
// mutation failure; the snapshot TTL bounds the staleness.
func (m *Manager) invalidate(ctx context.Context, propertyID string) {
	if err := m.cache.Invalidate(ctx, propertyID); err != nil {
		m.log.Warn("catalog cache invalidation failed", "property", propertyID, "err", err)
	}
}

func (m *Manager) mustGet(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	it, err := m.store.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading content item %s: %w", id, err)
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

// ToggleActive flips an item's visibility. No validation beyond existence.
func (m *Manager) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	it, err := m.mustGet(ctx, id)
	if err != nil {
		return false, err
	}

	l := m.propertyLock(it.PropertyID)
	l.Lock()
	defer l.Unlock()

	v, err := m.store.ToggleActive(ctx, id)
	if err != nil {
		return false, &PersistenceError{Op: "toggle active", Err: err}
	}

	m.invalidate(ctx, it.PropertyID)
	return v, nil
}

// ToggleFeatured flips an item's promotion flag, independent of is_active.
func (m *Manager) ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error) {
	it, err := m.mustGet(ctx, id)
	if err != nil {
		return false, err
	}

	l := m.propertyLock(it.PropertyID)
	l.Lock()
	defer l.Unlock()

	v, err := m.store.ToggleFeatured(ctx, id)
	if err != nil {
		return false, &PersistenceError{Op: "toggle featured", Err: err}
	}

	m.invalidate(ctx, it.PropertyID)
	return v, nil
}

// Reorder moves an item one step within its catalog's display view by
// swapping display_order values with the adjacent item. Already at the
// boundary is a successful no-op returning the current order.
func (m *Manager) Reorder(ctx context.Context, id uuid.UUID, dir Direction) (int, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return 0, fmt.Errorf("invalid reorder direction %q", dir)
	}

	it, err := m.mustGet(ctx, id)
	if err != nil {
		return 0, err
	}

	l := m.propertyLock(it.PropertyID)
	l.Lock()
	defer l.Unlock()

	return m.reorderLocked(ctx, it, dir)
}

// ReorderTo is the wire-level entry: the caller sends the display_order it
// wants the item to take, which is always one step away in the curated
// view. The direction falls out of comparing it with the current order;
// equal means no move.
func (m *Manager) ReorderTo(ctx context.Context, id uuid.UUID, newOrder int) (int, error) {
	it, err := m.mustGet(ctx, id)
	if err != nil {
		return 0, err
	}

	if newOrder == it.DisplayOrder {
		return it.DisplayOrder, nil
	}

	dir := DirectionDown
	if newOrder < it.DisplayOrder {
		dir = DirectionUp
	}

	l := m.propertyLock(it.PropertyID)
	l.Lock()
	defer l.Unlock()

	return m.reorderLocked(ctx, it, dir)
}

func (m *Manager) reorderLocked(ctx context.Context, it *content.Item, dir Direction) (int, error) {
	view, err := m.store.ListView(ctx, it.PropertyID, it.Kind)
	if err != nil {
		return 0, fmt.Errorf("loading %s view for property %s: %w", it.Kind, it.PropertyID, err)
	}

	idx := -1
	for i := range view {
		if view[i].ID == it.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrNotFound
	}

	neighbor := idx + 1
	if dir == DirectionUp {
		neighbor = idx - 1
	}
	if neighbor < 0 || neighbor >= len(view) {
		// Boundary: first item moving up or last moving down.
		return view[idx].DisplayOrder, nil
	}

	cur, adj := view[idx], view[neighbor]
	if err := m.store.SwapDisplayOrder(ctx, cur.ID, adj.ID, adj.DisplayOrder, cur.DisplayOrder); err != nil {
		return 0, &PersistenceError{Op: "reorder", Err: err}
	}

	m.invalidate(ctx, it.PropertyID)
	return adj.DisplayOrder, nil
}

// Delete removes an item from the catalog.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	it, err := m.mustGet(ctx, id)
	if err != nil {
		return err
	}

	l := m.propertyLock(it.PropertyID)
	l.Lock()
	defer l.Unlock()

	found, err := m.store.DeleteItem(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	if !found {
		return ErrNotFound
	}

	m.invalidate(ctx, it.PropertyID)
	return nil
}
