package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guestview/guestview/internal/curation"
	"github.com/guestview/guestview/internal/scoring"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	scorer  Scorer
	curator Curator
	log     *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(scorer Scorer, curator Curator, log *slog.Logger) *Handlers {
	return &Handlers{scorer: scorer, curator: curator, log: log}
}

// envelope is the uniform response shape: {success, data | message}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// scoreRequest is the body of every scoring endpoint.
type scoreRequest struct {
	PropertyID   string `json:"propertyId"`
	Weather      string `json:"weather"`
	GuestProfile string `json:"guestProfile"`
	TimeOfDay    string `json:"timeOfDay"`
}

// decodeScoreRequest parses and validates a scoring request body. A nil
// context pointer on return means the response has already been written.
func (h *Handlers) decodeScoreRequest(w http.ResponseWriter, r *http.Request) (string, *scoring.Context) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return "", nil
	}
	if req.PropertyID == "" {
		respondError(w, http.StatusBadRequest, "propertyId is required")
		return "", nil
	}

	gc, err := scoring.ParseContext(req.Weather, req.GuestProfile, req.TimeOfDay)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", nil
	}
	return req.PropertyID, &gc
}

func (h *Handlers) calculate(w http.ResponseWriter, r *http.Request, domain scoring.Domain) []scoring.RankedItem {
	propertyID, gc := h.decodeScoreRequest(w, r)
	if gc == nil {
		return nil
	}

	ranked, err := h.scorer.Calculate(r.Context(), propertyID, domain, *gc)
	if err != nil {
		h.log.Error("scoring failed", "property", propertyID, "domain", domain, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return nil
	}
	if ranked == nil {
		ranked = []scoring.RankedItem{}
	}
	return ranked
}

// CalculateActivityScores handles POST /api/v1/scoring/activities/calculate-scores.
func (h *Handlers) CalculateActivityScores(w http.ResponseWriter, r *http.Request) {
	ranked := h.calculate(w, r, scoring.DomainActivities)
	if ranked == nil {
		return
	}
	respond(w, http.StatusOK, map[string]any{"activities": ranked})
}

// CalculateDiningScores handles POST /api/v1/scoring/dining/calculate-scores.
func (h *Handlers) CalculateDiningScores(w http.ResponseWriter, r *http.Request) {
	ranked := h.calculate(w, r, scoring.DomainDining)
	if ranked == nil {
		return
	}
	respond(w, http.StatusOK, map[string]any{"dining": ranked})
}

// PreviewRecommendations handles POST /api/v1/scoring/preview-recommendations.
// Unified domain: activities and dining merged and ranked together;
// topRecommendations is exactly the surfaced subset.
func (h *Handlers) PreviewRecommendations(w http.ResponseWriter, r *http.Request) {
	ranked := h.calculate(w, r, scoring.DomainUnified)
	if ranked == nil {
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"recommendations":    ranked,
		"topRecommendations": scoring.Surfaced(ranked),
	})
}

// itemID parses the {id} route parameter. A nil return means the response
// has already been written.
func itemID(w http.ResponseWriter, r *http.Request) *uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid content item id")
		return nil
	}
	return &id
}

func (h *Handlers) curationError(w http.ResponseWriter, op string, id uuid.UUID, err error) {
	if errors.Is(err, curation.ErrNotFound) {
		respondError(w, http.StatusNotFound, "content item not found")
		return
	}
	h.log.Error(op+" failed", "id", id, "err", err)
	var pe *curation.PersistenceError
	if errors.As(err, &pe) {
		respondError(w, http.StatusInternalServerError, "write failed, re-fetch to confirm state")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// ToggleActive handles PATCH /api/v1/content/{id}/toggle.
func (h *Handlers) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id := itemID(w, r)
	if id == nil {
		return
	}

	v, err := h.curator.ToggleActive(r.Context(), *id)
	if err != nil {
		h.curationError(w, "toggle active", *id, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"is_active": v})
}

// ToggleFeatured handles PATCH /api/v1/content/{id}/featured.
func (h *Handlers) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id := itemID(w, r)
	if id == nil {
		return
	}

	v, err := h.curator.ToggleFeatured(r.Context(), *id)
	if err != nil {
		h.curationError(w, "toggle featured", *id, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"is_featured": v})
}

// reorderRequest carries the display_order the caller wants the item to
// take, always one step away in its list view.
type reorderRequest struct {
	NewOrder *int `json:"new_order"`
}

// Reorder handles PATCH /api/v1/content/{id}/reorder.
func (h *Handlers) Reorder(w http.ResponseWriter, r *http.Request) {
	id := itemID(w, r)
	if id == nil {
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewOrder == nil {
		respondError(w, http.StatusBadRequest, "new_order is required")
		return
	}

	order, err := h.curator.ReorderTo(r.Context(), *id, *req.NewOrder)
	if err != nil {
		h.curationError(w, "reorder", *id, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"display_order": order})
}

// DeleteItem handles DELETE /api/v1/content/{id}.
func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := itemID(w, r)
	if id == nil {
		return
	}

	if err := h.curator.Delete(r.Context(), *id); err != nil {
		h.curationError(w, "delete", *id, err)
		return
	}
	respond(w, http.StatusOK, nil)
}

// HealthCheck pings DB and Redis; returns 200 if both ok, 503 otherwise.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(envelope{
			Success: status == http.StatusOK,
			Data:    map[string]string{"db": dbStatus, "redis": redisStatus},
		})
	}
}
