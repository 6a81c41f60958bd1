// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/inkfeed/inkfeed/internal/cache"
	"github.com/inkfeed/inkfeed/internal/models"
	"github.com/inkfeed/inkfeed/internal/recommend"
)

// mockSource implements recommend.Source over fixture maps.
type mockSource struct {
	users        map[int64]*models.User
	articles     map[int64]*models.Article
	readArticles map[int64][]models.Article
	claps        map[int64][]models.Clap
	byTags       []models.Article
	trending     []models.Article
	peerIDs      []int64
}

func (m *mockSource) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (m *mockSource) GetArticle(ctx context.Context, articleID int64) (*models.Article, error) {
	a, ok := m.articles[articleID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (m *mockSource) GetArticlesByIDs(ctx context.Context, ids []int64) ([]models.Article, error) {
	out := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := m.articles[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockSource) GetReadArticles(ctx context.Context, userID int64) ([]models.Article, error) {
	return m.readArticles[userID], nil
}

func (m *mockSource) GetReadArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	history := m.readArticles[userID]
	ids := make([]int64, len(history))
	for i := range history {
		ids[i] = history[i].ID
	}
	return ids, nil
}

func (m *mockSource) GetClapsByUser(ctx context.Context, userID int64) ([]models.Clap, error) {
	return m.claps[userID], nil
}

func (m *mockSource) GetArticlesByTags(ctx context.Context, tags []string, limit int) ([]models.Article, error) {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	out := make([]models.Article, 0, len(m.byTags))
	for _, a := range m.byTags {
		for _, t := range a.Tags {
			if _, ok := want[t]; ok {
				out = append(out, a)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockSource) GetTrendingArticles(ctx context.Context, limit int) ([]models.Article, error) {
	if len(m.trending) > limit {
		return m.trending[:limit], nil
	}
	return m.trending, nil
}

func (m *mockSource) ListPeerCandidates(ctx context.Context, excludeUserID int64, limit int) ([]int64, error) {
	out := make([]int64, 0, len(m.peerIDs))
	for _, id := range m.peerIDs {
		if id != excludeUserID {
			out = append(out, id)
		}
	}
	return out, nil
}

func fixtureSource() *mockSource {
	now := time.Now().Add(-24 * time.Hour)
	art := func(id int64, tags ...string) *models.Article {
		return &models.Article{
			ID:          id,
			AuthorID:    1,
			Title:       "article",
			Tags:        tags,
			Published:   true,
			PublishedAt: &now,
		}
	}
	return &mockSource{
		users: map[int64]*models.User{1: {ID: 1, Username: "reader"}},
		articles: map[int64]*models.Article{
			10: art(10, "go"),
			11: art(11, "go", "web"),
		},
		readArticles: map[int64][]models.Article{1: {*art(10, "go")}},
		byTags:       []models.Article{*art(11, "go", "web")},
		trending:     []models.Article{*art(11, "go", "web")},
	}
}

func newTestHandler(t *testing.T, src recommend.Source, c *cache.Cache) *RecommendHandler {
	t.Helper()
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewRecommendHandler(engine, src, c)
}

func newTestRouter(t *testing.T, src recommend.Source, c *cache.Cache) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}, newTestHandler(t, src, c), NewHealthHandler(pingOK{}))
}

type pingOK struct{}

func (pingOK) Ping() error { return nil }

type pingFail struct{}

func (pingFail) Ping() error { return http.ErrServerClosed }

func doRequest(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return resp
}

func TestGetFeed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp.Error)
	}
	if resp.Meta == nil || resp.Meta.Count != 1 {
		t.Errorf("meta = %+v, want count 1", resp.Meta)
	}
}

func TestGetFeed_UnknownUser(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}

func TestGetFeed_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetFeed_InvalidLimit(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/1?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetSimilar(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/similar/10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp.Error)
	}
}

func TestGetSimilar_UnknownArticle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/similar/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetCollaborative_EmptyResult(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/collaborative/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp.Error)
	}
	// No peers in the fixture; data must be an empty array, not null.
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if string(data) == "null" {
		t.Error("data = null, want empty array")
	}
}

func TestGetFeed_CachedResponse(t *testing.T) {
	t.Parallel()

	c, err := cache.Open("", time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	router := newTestRouter(t, fixtureSource(), c)

	first := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/1", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	if resp := decodeResponse(t, first); resp.Meta.Cached {
		t.Error("first response marked cached")
	}

	second := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/feed/1", "")
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}
	if resp := decodeResponse(t, second); !resp.Meta.Cached {
		t.Error("second response not served from cache")
	}
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}

	var cfg recommend.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg.Limits.MaxK != 100 {
		t.Errorf("limits.max_k = %d, want 100", cfg.Limits.MaxK)
	}
}

func TestUpdateConfig(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	body := `{
		"weights": {"content": 1, "behavior": 0, "popularity": 0, "recency": 0},
		"behavior": {"length_bonus": 0.3, "length_window": 1000, "author_bonus": 0.2, "engagement_bonus": 0.2, "engagement_threshold": 0.7, "like_threshold": 100},
		"recency": {"decay_days": 365, "floor": 0.1, "undated_score": 0.5},
		"profile": {"default_read_time_minutes": 5, "default_content_length": 2000, "engagement_divisor": 100},
		"peers": {"max_peers": 10, "scan_limit": 200, "strong_clap_threshold": 5},
		"limits": {"interest_fetch": 50, "trending_fetch": 30, "default_k": 20, "max_k": 100}
	}`

	rec := doRequest(t, router, http.MethodPut, "/api/v1/recommendations/config", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The new weights are visible through GET, normalized.
	get := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/config", "")
	resp := decodeResponse(t, get)
	data, _ := json.Marshal(resp.Data)

	var cfg recommend.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg.Weights.Content != 1 || cfg.Weights.Behavior != 0 {
		t.Errorf("weights after update = %+v", cfg.Weights)
	}
}

func TestUpdateConfig_InvalidBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/recommendations/config", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateConfig_InvalidConfig(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	body := `{
		"weights": {"content": -1, "behavior": 0.4, "popularity": 0.2, "recency": 0.1},
		"recency": {"decay_days": 365, "floor": 0.1, "undated_score": 0.5},
		"profile": {"default_read_time_minutes": 5, "default_content_length": 2000, "engagement_divisor": 100},
		"peers": {"max_peers": 10, "scan_limit": 200, "strong_clap_threshold": 5},
		"limits": {"interest_fetch": 50, "trending_fetch": 30, "default_k": 20, "max_k": 100}
	}`

	rec := doRequest(t, router, http.MethodPut, "/api/v1/recommendations/config", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidConfig {
		t.Errorf("error = %+v, want INVALID_CONFIG", resp.Error)
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health/live", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}
