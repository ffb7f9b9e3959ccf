package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/guestview/guestview/internal/content"
)

// Catalog supplies the read-consistent catalog snapshot for one request.
// *content.Catalog satisfies this interface.
type Catalog interface {
	ListItems(ctx context.Context, propertyID string, kind content.Kind) ([]content.Item, error)
}

// Service is the externally callable scoring facade: catalog retrieval,
// factor scoring, then ranking, parameterized by domain.
// Stateless; any number of calls may run concurrently.
type Service struct {
	catalog Catalog
	log     *slog.Logger
}

// NewService constructs the scoring facade.
func NewService(catalog Catalog, log *slog.Logger) *Service {
	return &Service{catalog: catalog, log: log}
}

// Calculate scores and ranks the requested domain for one property under
// one guest context. Scoring is all-or-nothing: any catalog read failure
// fails the whole call, never a partial ranking.
func (s *Service) Calculate(ctx context.Context, propertyID string, domain Domain, gc Context) ([]RankedItem, error) {
	switch domain {
	case DomainActivities:
		return s.calculateOne(ctx, propertyID, content.KindActivity, gc)
	case DomainDining:
		return s.calculateOne(ctx, propertyID, content.KindDining, gc)
	case DomainUnified:
		return s.calculateUnified(ctx, propertyID, gc)
	}
	return nil, &InvalidContextError{Field: "domain", Value: string(domain)}
}

func (s *Service) calculateOne(ctx context.Context, propertyID string, kind content.Kind, gc Context) ([]RankedItem, error) {
	items, err := s.catalog.ListItems(ctx, propertyID, kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s catalog for property %s: %w", kind, propertyID, err)
	}
	return Rank(scoreAll(items, gc)), nil
}

// calculateUnified fetches both catalogs concurrently, scores each with its
// domain scorers, and ranks the merged sequence so a dining item can
// outrank an activity and vice versa.
func (s *Service) calculateUnified(ctx context.Context, propertyID string, gc Context) ([]RankedItem, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var activities, dining []content.Item

	g.Go(func() error {
		items, err := s.catalog.ListItems(gCtx, propertyID, content.KindActivity)
		if err != nil {
			return fmt.Errorf("listing activity catalog for property %s: %w", propertyID, err)
		}
		activities = items
		return nil
	})

	g.Go(func() error {
		items, err := s.catalog.ListItems(gCtx, propertyID, content.KindDining)
		if err != nil {
			return fmt.Errorf("listing dining catalog for property %s: %w", propertyID, err)
		}
		dining = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]content.Item, 0, len(activities)+len(dining))
	merged = append(merged, activities...)
	merged = append(merged, dining...)

	return Rank(scoreAll(merged, gc)), nil
}
