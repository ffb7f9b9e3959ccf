package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/guestview/guestview/internal/scoring"
)

// Scorer defines the recommendation facade needed by handlers.
type Scorer interface {
	Calculate(ctx context.Context, propertyID string, domain scoring.Domain, gc scoring.Context) ([]scoring.RankedItem, error)
}

// Curator defines the ordered-content-list operations needed by handlers.
type Curator interface {
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error)
	ReorderTo(ctx context.Context, id uuid.UUID, newOrder int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
