package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guestview/guestview/internal/content"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Beginner abstracts transaction start for the display-order swap.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository provides database access for content items.
type Repository struct {
	q Querier
	b Beginner
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool, b: pool}
}

// NewRepositoryWithQuerier constructs a Repository with custom backends (for tests).
func NewRepositoryWithQuerier(q Querier, b Beginner) *Repository {
	return &Repository{q: q, b: b}
}

const itemColumns = `id, property_id, kind, name, category, cuisine, description,
		       distance_km, features, display_order, is_active, is_featured,
		       created_at, updated_at`

func scanItem(row pgx.Row) (*content.Item, error) {
	var it content.Item
	var kind string
	var featuresJSON []byte

	err := row.Scan(
		&it.ID,
		&it.PropertyID,
		&kind,
		&it.Name,
		&it.Category,
		&it.Cuisine,
		&it.Description,
		&it.DistanceKm,
		&featuresJSON,
		&it.DisplayOrder,
		&it.IsActive,
		&it.IsFeatured,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.Kind = content.Kind(kind)
	if err := json.Unmarshal(featuresJSON, &it.Features); err != nil {
		return nil, fmt.Errorf("unmarshaling features for item %s: %w", it.ID, err)
	}
	return &it, nil
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]content.Item, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning content item row: %w", err)
		}
		items = append(items, *it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content item rows: %w", err)
	}
	return items, nil
}

// ListCatalog returns the active items of one catalog in insertion order.
// Insertion order is what the ranker uses as its stable tie-break.
func (r *Repository) ListCatalog(ctx context.Context, propertyID string, kind content.Kind) ([]content.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM content_items
		WHERE property_id = $1 AND kind = $2 AND is_active
		ORDER BY created_at, id
	`
	return r.list(ctx, q, propertyID, string(kind))
}

// ListView returns every item of one catalog, inactive included, in the
// curated display order. Duplicate display_order values resolve by
// (created_at, id) so the view is always a total order.
func (r *Repository) ListView(ctx context.Context, propertyID string, kind content.Kind) ([]content.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM content_items
		WHERE property_id = $1 AND kind = $2
		ORDER BY display_order, created_at, id
	`
	return r.list(ctx, q, propertyID, string(kind))
}

// GetItem retrieves one item by id. Returns nil, nil when not found.
func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM content_items
		WHERE id = $1
	`
	it, err := scanItem(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying content item %s: %w", id, err)
	}
	return it, nil
}

// ToggleActive flips is_active and returns the new value.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE content_items
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active
	`
	var v bool
	if err := r.q.QueryRow(ctx, q, id).Scan(&v); err != nil {
		return false, fmt.Errorf("toggling is_active for item %s: %w", id, err)
	}
	return v, nil
}

// ToggleFeatured flips is_featured and returns the new value. Independent
// of is_active.
func (r *Repository) ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE content_items
		SET is_featured = NOT is_featured, updated_at = NOW()
		WHERE id = $1
		RETURNING is_featured
	`
	var v bool
	if err := r.q.QueryRow(ctx, q, id).Scan(&v); err != nil {
		return false, fmt.Errorf("toggling is_featured for item %s: %w", id, err)
	}
	return v, nil
}

// SwapDisplayOrder assigns orderA to itemA and orderB to itemB in one
// transaction, so a failed write leaves both rows untouched.
func (r *Repository) SwapDisplayOrder(ctx context.Context, itemA, itemB uuid.UUID, orderA, orderB int) error {
	const q = `
		UPDATE content_items
		SET display_order = $2, updated_at = NOW()
		WHERE id = $1
	`

	tx, err := r.b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning swap transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, q, itemA, orderA); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("updating display_order for item %s: %w", itemA, err)
	}
	if _, err := tx.Exec(ctx, q, itemB, orderB); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("updating display_order for item %s: %w", itemB, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing swap transaction: %w", err)
	}
	return nil
}

// DeleteItem removes an item. Returns false when the id did not exist.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM content_items WHERE id = $1`

	tag, err := r.q.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("deleting content item %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
