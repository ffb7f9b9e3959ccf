package content

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two guest-facing catalogs a property maintains.
type Kind string

const (
	KindActivity Kind = "activity"
	KindDining   Kind = "dining"
)

// Features holds the flags that drive contextual scoring. Stored as JSONB
// so staff tooling can extend it without a migration.
type Features struct {
	Outdoor        bool     `json:"outdoor,omitempty"`
	Indoor         bool     `json:"indoor,omitempty"`
	FamilyFriendly bool     `json:"family_friendly,omitempty"`
	Daylight       bool     `json:"daylight,omitempty"`
	Terrace        bool     `json:"terrace,omitempty"`
	WalkIns        bool     `json:"walk_ins,omitempty"`
	Dietary        []string `json:"dietary,omitempty"`
}

// Item is a single catalog entry: an activity or a dining place belonging to
// a property. The scoring engine reads items; only staff tooling and the
// curation endpoints mutate them.
type Item struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   string    `json:"property_id"`
	Kind         Kind      `json:"kind"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Cuisine      string    `json:"cuisine,omitempty"`
	Description  string    `json:"description,omitempty"`
	DistanceKm   *float64  `json:"distance_km,omitempty"`
	Features     Features  `json:"features"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
