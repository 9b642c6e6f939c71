package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestRepo(st *memStore) *Repository {
	r := NewRepository(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return r
}

func TestResolveFallsBackToID(t *testing.T) {
	ctx := context.Background()
	st := &memStore{movies: []Movie{
		{ID: "abc123", Title: "Legacy"},
		{ID: "def456", Slug: "iron-man-3", Title: "Iron Man 3"},
	}}
	r := newTestRepo(st)

	if m, ok := r.Resolve(ctx, "iron-man-3"); !ok || m.ID != "def456" {
		t.Errorf("slug resolve: %v %v", m.ID, ok)
	}
	if m, ok := r.Resolve(ctx, "abc123"); !ok || m.Title != "Legacy" {
		t.Errorf("id fallback: %v %v", m.Title, ok)
	}
	if _, ok := r.Resolve(ctx, "nothing-here"); ok {
		t.Error("unknown segment should not resolve")
	}
	if _, ok := r.Resolve(ctx, ""); ok {
		t.Error("empty segment should not resolve")
	}

	// Without a slug column, slug lookups fail soft and ids still work.
	st.noSlugColumn = true
	if m, ok := r.Resolve(ctx, "def456"); !ok || m.Title != "Iron Man 3" {
		t.Errorf("id fallback without slug column: %v %v", m.Title, ok)
	}
}

func TestRelatedCapsAndKeepsOrder(t *testing.T) {
	st := &memStore{}
	for i := 0; i < 12; i++ {
		m := movieN(i)
		m.Category = []string{"Hollywood"}
		if i == 3 {
			m.Category = []string{"Anime"}
		}
		st.movies = append(st.movies, m)
	}
	r := newTestRepo(st)

	got := r.Related(context.Background(), []string{"Hollywood", "South"}, "id-000")
	if len(got) != RelatedLimit {
		t.Fatalf("got %d related, want %d", len(got), RelatedLimit)
	}
	want := "Movie 1,Movie 2,Movie 4,Movie 5,Movie 6,Movie 7"
	if titles(got) != want {
		t.Errorf("got %q, want %q", titles(got), want)
	}
	for _, m := range got {
		if m.ID == "id-000" {
			t.Error("related includes the movie itself")
		}
	}

	if got := r.Related(context.Background(), nil, "id-000"); len(got) != 0 {
		t.Errorf("no categories should give nothing, got %d", len(got))
	}
}

func TestRelatedUnderFills(t *testing.T) {
	st := &memStore{}
	for i := 0; i < 20; i++ {
		m := movieN(i)
		m.Category = []string{"Bollywood"}
		if i >= 9 {
			m.Category = []string{"K-Drama"}
		}
		st.movies = append(st.movies, m)
	}
	r := newTestRepo(st)

	// Only the first ten others are fetched, and only two of them match.
	got := r.Related(context.Background(), []string{"K-Drama"}, "id-000")
	if len(got) != 2 {
		t.Errorf("got %d related, want 2", len(got))
	}
}

func TestCreateMovieRetriesWithoutSlug(t *testing.T) {
	ctx := context.Background()
	st := &memStore{noSlugColumn: true}
	r := newTestRepo(st)

	if !r.CreateMovie(ctx, Movie{ID: "m1", Title: "Iron Man 3!"}) {
		t.Fatal("create should succeed on the retry")
	}
	if len(st.writes) != 2 || st.writes[0].OmitSlug || !st.writes[1].OmitSlug {
		t.Errorf("writes = %+v", st.writes)
	}
	if _, ok := r.GetByID(ctx, "m1"); !ok {
		t.Error("movie not stored")
	}

	st.writes = nil
	if !r.UpdateMovie(ctx, Movie{ID: "m1", Title: "Iron Man 3"}) {
		t.Fatal("update should succeed on the retry")
	}
	if len(st.writes) != 2 {
		t.Errorf("update writes = %+v", st.writes)
	}
}

func TestCreateMovieComputesSlug(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	r := newTestRepo(st)

	m := Movie{
		ID:             "m1",
		Title:          "Iron Man 3!",
		Screenshots:    []string{"a.jpg", "", "  "},
		DownloadLinks:  []DownloadLink{{Quality: "720p", URL: "https://x"}, {Quality: "1080p"}},
		TrendingPoster: "wide.jpg",
	}
	if !r.CreateMovie(ctx, m) {
		t.Fatal("create failed")
	}
	if len(st.writes) != 1 {
		t.Errorf("expected a single write, got %d", len(st.writes))
	}
	got, ok := r.GetBySlug(ctx, "iron-man-3")
	if !ok {
		t.Fatal("slug not computed")
	}
	if len(got.Screenshots) != 1 || len(got.DownloadLinks) != 1 || got.TrendingPoster != "" {
		t.Errorf("blank entries kept: %+v", got)
	}
}

func TestSaveMovieCarriesCounters(t *testing.T) {
	ctx := context.Background()
	st := &memStore{movies: []Movie{{ID: "m1", Title: "Old", AddedAt: 42, DownloadCount: 9}}}
	r := newTestRepo(st)

	saved, ok := r.SaveMovie(ctx, Movie{ID: "m1", Title: "New"}, true)
	if !ok {
		t.Fatal("save failed")
	}
	if saved.AddedAt != 42 || saved.DownloadCount != 9 || saved.ID != "m1" {
		t.Errorf("edit reset fields: %+v", saved)
	}

	created, ok := r.SaveMovie(ctx, Movie{Title: "Fresh", DownloadCount: 77}, false)
	if !ok {
		t.Fatal("create failed")
	}
	if created.ID == "" || created.DownloadCount != 0 || created.AddedAt != 1_700_000_000_000 {
		t.Errorf("new record: %+v", created)
	}
}

func TestWriteFailureIsFalse(t *testing.T) {
	r := newTestRepo(&memStore{})
	r.store = failingStore{r.store}
	if r.CreateMovie(context.Background(), Movie{ID: "x", Title: "X"}) {
		t.Error("create should report failure")
	}
}

type failingStore struct{ Store }

func (failingStore) InsertMovie(context.Context, *Movie, WriteOptions) error { return errBackend }

func TestIncrementDownloadCount(t *testing.T) {
	ctx := context.Background()
	st := &memStore{movies: []Movie{{ID: "m1", Title: "X"}}}
	r := newTestRepo(st)

	for i := 0; i < 2; i++ {
		if !r.IncrementDownloadCount(ctx, "m1") {
			t.Fatal("increment failed")
		}
	}
	if m, _ := r.GetByID(ctx, "m1"); m.DownloadCount != 2 {
		t.Errorf("count = %d, want 2", m.DownloadCount)
	}
	if r.IncrementDownloadCount(ctx, "missing") {
		t.Error("increment of a missing movie should fail")
	}
}

func TestReadFailuresAreEmpty(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(&memStore{failReads: true, movies: []Movie{movieN(1)}})

	if got := r.ListMovies(ctx); got == nil || len(got) != 0 {
		t.Errorf("ListMovies = %#v", got)
	}
	if _, ok := r.GetByID(ctx, "id-001"); ok {
		t.Error("GetByID should be absent on failure")
	}
	if r.SaveSiteConfig(ctx, SiteConfig{TelegramURL: "t"}) {
		t.Error("SaveSiteConfig should not insert when the lookup fails")
	}
}

func TestDeleteMissingMovie(t *testing.T) {
	if !newTestRepo(&memStore{}).DeleteMovie(context.Background(), "nope") {
		t.Error("deleting a missing movie should succeed")
	}
}

func TestRequests(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	r := newTestRepo(st)

	if r.AddRequest(ctx, "   ") {
		t.Error("blank request accepted")
	}
	if !r.AddRequest(ctx, " Dune ") || !r.AddRequest(ctx, "Oppenheimer") {
		t.Fatal("add request failed")
	}
	reqs := r.ListRequests(ctx)
	if len(reqs) != 2 || reqs[0].MovieName != "Oppenheimer" || reqs[1].MovieName != "Dune" {
		t.Fatalf("requests = %+v", reqs)
	}
	if !r.DeleteRequest(ctx, reqs[0].ID) || len(r.ListRequests(ctx)) != 1 {
		t.Error("delete request failed")
	}
}

func TestSiteConfigSingleton(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	r := newTestRepo(st)

	if cfg := r.SiteConfig(ctx); cfg != (SiteConfig{}) {
		t.Errorf("unset config = %+v", cfg)
	}
	if !r.SaveSiteConfig(ctx, SiteConfig{TelegramURL: "https://t.me/a"}) {
		t.Fatal("first save failed")
	}
	if !r.SaveSiteConfig(ctx, SiteConfig{TelegramURL: "https://t.me/b", HowToDownloadURL: "https://h"}) {
		t.Fatal("second save failed")
	}
	if cfg := r.SiteConfig(ctx); cfg.TelegramURL != "https://t.me/b" || cfg.HowToDownloadURL != "https://h" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestBackfillSlugs(t *testing.T) {
	ctx := context.Background()
	st := &memStore{movies: []Movie{
		{ID: "a", Title: "The Matrix"},
		{ID: "b", Title: "Dune", Slug: "dune-2021"},
	}}
	r := newTestRepo(st)

	if updated, failed := r.BackfillSlugs(ctx); updated != 1 || failed != 0 {
		t.Errorf("updated %d failed %d", updated, failed)
	}
	if _, ok := r.GetBySlug(ctx, "the-matrix"); !ok {
		t.Error("slug not written")
	}
	if _, ok := r.GetBySlug(ctx, "dune-2021"); !ok {
		t.Error("existing slug changed")
	}
}
