package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestview/guestview/internal/api"
	"github.com/guestview/guestview/internal/content"
	"github.com/guestview/guestview/internal/curation"
	"github.com/guestview/guestview/internal/scoring"
)

// ---- mock implementations ----

type mockScorer struct {
	calculateFn func(ctx context.Context, propertyID string, domain scoring.Domain, gc scoring.Context) ([]scoring.RankedItem, error)
}

func (m *mockScorer) Calculate(ctx context.Context, propertyID string, domain scoring.Domain, gc scoring.Context) ([]scoring.RankedItem, error) {
	return m.calculateFn(ctx, propertyID, domain, gc)
}

type mockCurator struct {
	toggleActiveFn   func(ctx context.Context, id uuid.UUID) (bool, error)
	toggleFeaturedFn func(ctx context.Context, id uuid.UUID) (bool, error)
	reorderToFn      func(ctx context.Context, id uuid.UUID, newOrder int) (int, error)
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCurator) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.toggleActiveFn(ctx, id)
}
func (m *mockCurator) ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.toggleFeaturedFn(ctx, id)
}
func (m *mockCurator) ReorderTo(ctx context.Context, id uuid.UUID, newOrder int) (int, error) {
	return m.reorderToFn(ctx, id, newOrder)
}
func (m *mockCurator) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// ---- helpers ----

const testToken = "secret-token"

func buildRouter(scorer api.Scorer, curator api.Curator, db, redis *mockPinger) http.Handler {
	if db == nil {
		db = &mockPinger{}
	}
	if redis == nil {
		redis = &mockPinger{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := api.NewHandlers(scorer, curator, log)
	return api.NewRouter(handlers, testToken, db, redis, log)
}

func sampleRanked(n int) []scoring.RankedItem {
	out := make([]scoring.RankedItem, 0, n)
	for i := 0; i < n; i++ {
		gc := scoring.Context{Weather: scoring.WeatherSunny, Profile: scoring.ProfileUnknown, TimeOfDay: scoring.TimeMorning}
		it := content.Item{ID: uuid.New(), Kind: content.KindActivity, Name: fmt.Sprintf("item-%d", i), Category: "hiking"}
		b := scoring.Score(it, gc)
		out = append(out, scoring.RankedItem{Item: it, Score: b.Total, Breakdown: b, Rank: i + 1, Surfaced: i < 5})
	}
	return out
}

func scoreBody(t *testing.T, weather, profile, timeOfDay string) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"propertyId":   "prop-1",
		"weather":      weather,
		"guestProfile": profile,
		"timeOfDay":    timeOfDay,
	})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

type envelope struct {
	Success bool                       `json:"success"`
	Data    map[string]json.RawMessage `json:"data"`
	Message string                     `json:"message"`
}

func doAuthed(t *testing.T, router http.Handler, method, path string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return w, env
}

// ---- scoring endpoints ----

func TestCalculateActivityScores(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, propertyID string, domain scoring.Domain, gc scoring.Context) ([]scoring.RankedItem, error) {
			assert.Equal(t, "prop-1", propertyID)
			assert.Equal(t, scoring.DomainActivities, domain)
			assert.Equal(t, scoring.WeatherSunny, gc.Weather)
			return sampleRanked(3), nil
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/activities/calculate-scores", scoreBody(t, "sunny", "family", "afternoon"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var activities []scoring.RankedItem
	require.NoError(t, json.Unmarshal(env.Data["activities"], &activities))
	assert.Len(t, activities, 3)
}

func TestCalculateDiningScores(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, _ string, domain scoring.Domain, _ scoring.Context) ([]scoring.RankedItem, error) {
			assert.Equal(t, scoring.DomainDining, domain)
			return sampleRanked(2), nil
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/dining/calculate-scores", scoreBody(t, "rainy", "couple", "evening"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Data, "dining")
}

func TestPreviewRecommendations_TopIsSurfacedSubset(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, _ string, domain scoring.Domain, _ scoring.Context) ([]scoring.RankedItem, error) {
			assert.Equal(t, scoring.DomainUnified, domain)
			return sampleRanked(8), nil
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/preview-recommendations", scoreBody(t, "cloudy", "unknown", "night"))

	assert.Equal(t, http.StatusOK, w.Code)

	var all, top []scoring.RankedItem
	require.NoError(t, json.Unmarshal(env.Data["recommendations"], &all))
	require.NoError(t, json.Unmarshal(env.Data["topRecommendations"], &top))
	assert.Len(t, all, 8)
	require.Len(t, top, 5)
	for i, r := range top {
		assert.True(t, r.Surfaced)
		assert.Equal(t, all[i].Item.ID, r.Item.ID)
	}
}

func TestScoring_InvalidContextRejected(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, _ string, _ scoring.Domain, _ scoring.Context) ([]scoring.RankedItem, error) {
			t.Fatal("scorer must not be called with an invalid context")
			return nil, nil
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/activities/calculate-scores", scoreBody(t, "snowy", "family", "morning"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "weather")
}

func TestScoring_MissingPropertyID(t *testing.T) {
	router := buildRouter(&mockScorer{}, nil, nil, nil)

	body, _ := json.Marshal(map[string]string{
		"weather": "sunny", "guestProfile": "family", "timeOfDay": "morning",
	})
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/activities/calculate-scores", bytes.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "propertyId")
}

func TestScoring_ServiceError(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, _ string, _ scoring.Domain, _ scoring.Context) ([]scoring.RankedItem, error) {
			return nil, fmt.Errorf("db down")
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/dining/calculate-scores", scoreBody(t, "sunny", "family", "morning"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

func TestScoring_EmptyCatalogReturnsEmptyList(t *testing.T) {
	scorer := &mockScorer{
		calculateFn: func(_ context.Context, _ string, _ scoring.Domain, _ scoring.Context) ([]scoring.RankedItem, error) {
			return nil, nil
		},
	}

	router := buildRouter(scorer, nil, nil, nil)
	w, env := doAuthed(t, router, http.MethodPost,
		"/api/v1/scoring/activities/calculate-scores", scoreBody(t, "sunny", "family", "morning"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data["activities"]))
}

// ---- curation endpoints ----

func TestToggleActive(t *testing.T) {
	id := uuid.New()
	curator := &mockCurator{
		toggleActiveFn: func(_ context.Context, got uuid.UUID) (bool, error) {
			assert.Equal(t, id, got)
			return false, nil
		},
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch, "/api/v1/content/"+id.String()+"/toggle", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "false", string(env.Data["is_active"]))
}

func TestToggleFeatured(t *testing.T) {
	curator := &mockCurator{
		toggleFeaturedFn: func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch, "/api/v1/content/"+uuid.NewString()+"/featured", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", string(env.Data["is_featured"]))
}

func TestToggle_NotFound(t *testing.T) {
	curator := &mockCurator{
		toggleActiveFn: func(_ context.Context, _ uuid.UUID) (bool, error) { return false, curation.ErrNotFound },
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch, "/api/v1/content/"+uuid.NewString()+"/toggle", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestToggle_BadID(t *testing.T) {
	router := buildRouter(nil, &mockCurator{}, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch, "/api/v1/content/not-a-uuid/toggle", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestReorder(t *testing.T) {
	id := uuid.New()
	curator := &mockCurator{
		reorderToFn: func(_ context.Context, got uuid.UUID, newOrder int) (int, error) {
			assert.Equal(t, id, got)
			assert.Equal(t, 2, newOrder)
			return 2, nil
		},
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch,
		"/api/v1/content/"+id.String()+"/reorder", bytes.NewReader([]byte(`{"new_order": 2}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", string(env.Data["display_order"]))
}

func TestReorder_MissingNewOrder(t *testing.T) {
	router := buildRouter(nil, &mockCurator{}, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch,
		"/api/v1/content/"+uuid.NewString()+"/reorder", bytes.NewReader([]byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "new_order")
}

func TestReorder_PersistenceFailure(t *testing.T) {
	curator := &mockCurator{
		reorderToFn: func(_ context.Context, _ uuid.UUID, _ int) (int, error) {
			return 0, &curation.PersistenceError{Op: "reorder", Err: fmt.Errorf("commit failed")}
		},
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodPatch,
		"/api/v1/content/"+uuid.NewString()+"/reorder", bytes.NewReader([]byte(`{"new_order": 1}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, env.Message, "re-fetch")
}

func TestDeleteItem(t *testing.T) {
	curator := &mockCurator{
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}

	router := buildRouter(nil, curator, nil, nil)
	w, env := doAuthed(t, router, http.MethodDelete, "/api/v1/content/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestDeleteItem_NotFound(t *testing.T) {
	curator := &mockCurator{
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return curation.ErrNotFound },
	}

	router := buildRouter(nil, curator, nil, nil)
	w, _ := doAuthed(t, router, http.MethodDelete, "/api/v1/content/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- health ----

func TestHealth_OK(t *testing.T) {
	router := buildRouter(nil, nil, &mockPinger{}, &mockPinger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, `"ok"`, string(env.Data["db"]))
	assert.Equal(t, `"ok"`, string(env.Data["redis"]))
}

func TestHealth_DBDown(t *testing.T) {
	router := buildRouter(nil, nil, &mockPinger{err: fmt.Errorf("db unreachable")}, &mockPinger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, `"error"`, string(env.Data["db"]))
}

func TestHealth_RedisDown(t *testing.T) {
	router := buildRouter(nil, nil, &mockPinger{}, &mockPinger{err: fmt.Errorf("redis unreachable")})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// ---- auth middleware ----

func TestBearerAuth_NoHeader(t *testing.T) {
	router := buildRouter(&mockScorer{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scoring/preview-recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_WrongToken(t *testing.T) {
	router := buildRouter(&mockScorer{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scoring/preview-recommendations", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_MissingBearerPrefix(t *testing.T) {
	router := buildRouter(&mockScorer{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scoring/preview-recommendations", nil)
	req.Header.Set("Authorization", testToken) // no "Bearer " prefix
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_HealthNoAuth(t *testing.T) {
	// Health endpoint must not require auth.
	router := buildRouter(nil, nil, &mockPinger{}, &mockPinger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
