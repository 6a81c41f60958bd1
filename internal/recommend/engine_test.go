// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkfeed/inkfeed/internal/models"
)

// mockSource implements Source for testing.
type mockSource struct {
	users        map[int64]*models.User
	articles     map[int64]*models.Article
	readArticles map[int64][]models.Article
	claps        map[int64][]models.Clap
	byTags       []models.Article
	trending     []models.Article
	peerIDs      []int64

	usersErr    error
	articlesErr error
	readErr     error
	clapsErr    error
	byTagsErr   error
	trendingErr error
	peersErr    error
}

func (m *mockSource) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (m *mockSource) GetArticle(ctx context.Context, articleID int64) (*models.Article, error) {
	if m.articlesErr != nil {
		return nil, m.articlesErr
	}
	a, ok := m.articles[articleID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (m *mockSource) GetArticlesByIDs(ctx context.Context, ids []int64) ([]models.Article, error) {
	if m.articlesErr != nil {
		return nil, m.articlesErr
	}
	out := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := m.articles[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockSource) GetReadArticles(ctx context.Context, userID int64) ([]models.Article, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.readArticles[userID], nil
}

func (m *mockSource) GetReadArticleIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	history := m.readArticles[userID]
	ids := make([]int64, len(history))
	for i := range history {
		ids[i] = history[i].ID
	}
	return ids, nil
}

func (m *mockSource) GetClapsByUser(ctx context.Context, userID int64) ([]models.Clap, error) {
	if m.clapsErr != nil {
		return nil, m.clapsErr
	}
	return m.claps[userID], nil
}

func (m *mockSource) GetArticlesByTags(ctx context.Context, tags []string, limit int) ([]models.Article, error) {
	if m.byTagsErr != nil {
		return nil, m.byTagsErr
	}
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
	if m.trendingErr != nil {
		return nil, m.trendingErr
	}
	if len(m.trending) > limit {
		return m.trending[:limit], nil
	}
	return m.trending, nil
}

func (m *mockSource) ListPeerCandidates(ctx context.Context, excludeUserID int64, limit int) ([]int64, error) {
	if m.peersErr != nil {
		return nil, m.peersErr
	}
	out := make([]int64, 0, len(m.peerIDs))
	for _, id := range m.peerIDs {
		if id == excludeUserID {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestEngine builds an engine with a fixed clock and the given
// source. fixedNow keeps recency scoring deterministic.
var fixedNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, src Source) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.now = func() time.Time { return fixedNow }
	e.SetSource(src)
	return e
}

func article(id, authorID int64, tags []string, published bool) *models.Article {
	d := fixedNow.AddDate(0, 0, -30)
	return &models.Article{
		ID:          id,
		AuthorID:    authorID,
		Title:       "article",
		Tags:        tags,
		Published:   published,
		PublishedAt: &d,
	}
}

// --- Test: NewEngine ---

func TestNewEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "nil config uses defaults",
			cfg:     nil,
			wantErr: false,
		},
		{
			name:    "valid default config",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name: "negative weight returns error",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Weights.Content = -1
				return c
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := NewEngine(tt.cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if e == nil {
				t.Fatal("NewEngine() returned nil engine")
			}
		})
	}
}

func TestNewEngine_NormalizesWeights(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Weights = Weights{Content: 3, Behavior: 4, Popularity: 2, Recency: 1}

	e, err := NewEngine(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	got := e.Config().Weights
	want := Weights{Content: 0.3, Behavior: 0.4, Popularity: 0.2, Recency: 0.1}
	if got != want {
		t.Errorf("normalized weights = %+v, want %+v", got, want)
	}
}

func TestNewEngine_ClonesConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	e, err := NewEngine(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	cfg.Limits.MaxK = 1
	if e.Config().Limits.MaxK == 1 {
		t.Error("engine config mutated through caller's pointer")
	}
}

// --- Test: clampLimit ---

func TestEngine_clampLimit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockSource{})

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: 20},
		{name: "negative uses default", limit: -5, want: 20},
		{name: "in range passes through", limit: 7, want: 7},
		{name: "above max clamps", limit: 500, want: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := e.clampLimit(tt.limit); got != tt.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

// --- Test: PersonalizedFeed ---

func TestEngine_PersonalizedFeed(t *testing.T) {
	t.Parallel()

	goRead := article(1, 10, []string{"go", "systems"}, true)
	goMatch := article(2, 10, []string{"go"}, true)
	rustMatch := article(3, 11, []string{"rust", "systems"}, true)
	trendingOnly := article(4, 12, []string{"cooking"}, true)
	draft := article(5, 13, []string{"go"}, false)

	src := &mockSource{
		users:        map[int64]*models.User{1: {ID: 1, Username: "reader"}},
		readArticles: map[int64][]models.Article{1: {*goRead}},
		byTags:       []models.Article{*goMatch, *rustMatch, *draft},
		trending:     []models.Article{*trendingOnly, *goMatch},
	}
	e := newTestEngine(t, src)

	got, err := e.PersonalizedFeed(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("PersonalizedFeed() error = %v", err)
	}

	ids := make(map[int64]bool, len(got))
	for _, s := range got {
		ids[s.ID] = true
	}

	if ids[1] {
		t.Error("feed includes an already-read article")
	}
	if ids[5] {
		t.Error("feed includes an unpublished article")
	}
	if !ids[2] || !ids[3] || !ids[4] {
		t.Errorf("feed missing expected candidates, got ids %v", ids)
	}
	if len(got) != 3 {
		t.Errorf("feed length = %d, want 3 (deduplicated)", len(got))
	}
}

func TestEngine_PersonalizedFeed_UnknownUser(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockSource{users: map[int64]*models.User{}})

	_, err := e.PersonalizedFeed(context.Background(), 42, 10)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("PersonalizedFeed() error = %v, want ErrNotFound", err)
	}
}

func TestEngine_PersonalizedFeed_NoHistoryFallsBackToTrending(t *testing.T) {
	t.Parallel()

	trending := article(7, 20, []string{"news"}, true)
	src := &mockSource{
		users:    map[int64]*models.User{1: {ID: 1}},
		trending: []models.Article{*trending},
	}
	e := newTestEngine(t, src)

	got, err := e.PersonalizedFeed(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("PersonalizedFeed() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("feed = %+v, want single trending article 7", got)
	}
}

func TestEngine_PersonalizedFeed_RanksInterestMatchAboveMismatch(t *testing.T) {
	t.Parallel()

	read := article(1, 10, []string{"go"}, true)
	match := article(2, 11, []string{"go"}, true)
	mismatch := article(3, 12, []string{"gardening"}, true)

	src := &mockSource{
		users:        map[int64]*models.User{1: {ID: 1}},
		readArticles: map[int64][]models.Article{1: {*read}},
		byTags:       []models.Article{*match},
		trending:     []models.Article{*mismatch},
	}
	e := newTestEngine(t, src)

	got, err := e.PersonalizedFeed(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("PersonalizedFeed() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("feed length = %d, want 2", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("top result = %d, want interest match 2", got[0].ID)
	}
}

func TestEngine_PersonalizedFeed_SourceError(t *testing.T) {
	t.Parallel()

	src := &mockSource{
		users:       map[int64]*models.User{1: {ID: 1}},
		trendingErr: errors.New("db down"),
	}
	e := newTestEngine(t, src)

	if _, err := e.PersonalizedFeed(context.Background(), 1, 10); err == nil {
		t.Fatal("PersonalizedFeed() error = nil, want trending fetch failure")
	}
}

// --- Test: MoreLikeThis ---

func TestEngine_MoreLikeThis(t *testing.T) {
	t.Parallel()

	source := article(1, 10, []string{"go", "systems"}, true)
	close1 := article(2, 11, []string{"go", "systems"}, true)
	far := article(3, 12, []string{"go", "web", "frontend"}, true)
	draft := article(4, 13, []string{"go"}, false)

	src := &mockSource{
		articles: map[int64]*models.Article{1: source},
		byTags:   []models.Article{*far, *close1, *draft, *source},
	}
	e := newTestEngine(t, src)

	got, err := e.MoreLikeThis(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("MoreLikeThis() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("results = %d, want 2 (source and draft excluded)", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("top result = %d, want closest match 2", got[0].ID)
	}
	for _, s := range got {
		if s.ID == 1 {
			t.Error("results include the source article")
		}
		if s.ID == 4 {
			t.Error("results include an unpublished article")
		}
	}
}

func TestEngine_MoreLikeThis_UnknownArticle(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockSource{articles: map[int64]*models.Article{}})

	_, err := e.MoreLikeThis(context.Background(), 99, 10)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("MoreLikeThis() error = %v, want ErrNotFound", err)
	}
}

func TestEngine_MoreLikeThis_UntaggedSource(t *testing.T) {
	t.Parallel()

	source := article(1, 10, nil, true)
	src := &mockSource{
		articles:  map[int64]*models.Article{1: source},
		byTagsErr: errors.New("should not be queried"),
	}
	e := newTestEngine(t, src)

	got, err := e.MoreLikeThis(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("MoreLikeThis() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %d, want 0 for untagged source", len(got))
	}
}

// --- Test: CollaborativeRecommendations ---

func TestEngine_CollaborativeRecommendations(t *testing.T) {
	t.Parallel()

	shared := article(1, 10, []string{"go"}, true)
	strong := article(2, 11, []string{"go"}, true)
	weak := article(3, 12, []string{"go"}, true)
	draft := article(4, 13, []string{"go"}, false)

	src := &mockSource{
		users: map[int64]*models.User{1: {ID: 1}, 2: {ID: 2}},
		articles: map[int64]*models.Article{
			1: shared, 2: strong, 3: weak, 4: draft,
		},
		readArticles: map[int64][]models.Article{
			1: {*shared},
			2: {*shared, *strong},
		},
		claps: map[int64][]models.Clap{
			2: {
				{UserID: 2, ArticleID: 2, Count: 10}, // strong
				{UserID: 2, ArticleID: 3, Count: 2},  // below threshold
				{UserID: 2, ArticleID: 4, Count: 20}, // strong but draft
			},
		},
		peerIDs: []int64{2},
	}
	e := newTestEngine(t, src)

	got, err := e.CollaborativeRecommendations(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("CollaborativeRecommendations() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("result = %d, want strongly clapped article 2", got[0].ID)
	}
}

func TestEngine_CollaborativeRecommendations_ExcludesRead(t *testing.T) {
	t.Parallel()

	read := article(1, 10, []string{"go"}, true)
	src := &mockSource{
		users:    map[int64]*models.User{1: {ID: 1}, 2: {ID: 2}},
		articles: map[int64]*models.Article{1: read},
		readArticles: map[int64][]models.Article{
			1: {*read},
			2: {*read},
		},
		claps: map[int64][]models.Clap{
			2: {{UserID: 2, ArticleID: 1, Count: 30}},
		},
		peerIDs: []int64{2},
	}
	e := newTestEngine(t, src)

	got, err := e.CollaborativeRecommendations(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("CollaborativeRecommendations() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %d, want 0 (peer's pick already read)", len(got))
	}
}

func TestEngine_CollaborativeRecommendations_UnknownUser(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockSource{users: map[int64]*models.User{}})

	_, err := e.CollaborativeRecommendations(context.Background(), 42, 10)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("CollaborativeRecommendations() error = %v, want ErrNotFound", err)
	}
}

func TestEngine_CollaborativeRecommendations_NoPeers(t *testing.T) {
	t.Parallel()

	src := &mockSource{
		users: map[int64]*models.User{1: {ID: 1}},
	}
	e := newTestEngine(t, src)

	got, err := e.CollaborativeRecommendations(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("CollaborativeRecommendations() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %d, want 0 with no peers", len(got))
	}
}
