package content

import (
	"context"
	"log/slog"
)

// Source is the storage read behind the catalog. *storage.Repository
// satisfies this interface.
type Source interface {
	ListCatalog(ctx context.Context, propertyID string, kind Kind) ([]Item, error)
}

// SnapshotCache caches whole per-property catalogs. Get returns nil, nil on
// a cache miss.
type SnapshotCache interface {
	GetCatalog(ctx context.Context, propertyID string, kind Kind) ([]Item, error)
	SetCatalog(ctx context.Context, propertyID string, kind Kind, items []Item) error
}

// Catalog serves read-consistent catalog snapshots for scoring.
// A cache hit is returned as-is; a miss reads storage and repopulates.
// Cache failures are logged and fall through to storage; a storage failure
// fails the read.
type Catalog struct {
	src   Source
	cache SnapshotCache
	log   *slog.Logger
}

// NewCatalog constructs a Catalog over the given source and cache.
func NewCatalog(src Source, cache SnapshotCache, log *slog.Logger) *Catalog {
	return &Catalog{src: src, cache: cache, log: log}
}

// ListItems returns the active items of one catalog in insertion order.
func (c *Catalog) ListItems(ctx context.Context, propertyID string, kind Kind) ([]Item, error) {
	cached, err := c.cache.GetCatalog(ctx, propertyID, kind)
	if err != nil {
		c.log.Warn("catalog cache get failed", "property", propertyID, "kind", kind, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	items, err := c.src.ListCatalog(ctx, propertyID, kind)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetCatalog(ctx, propertyID, kind, items); err != nil {
		c.log.Warn("catalog cache set failed", "property", propertyID, "kind", kind, "err", err)
	}

	return items, nil
}
