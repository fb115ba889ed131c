package media_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/normafacile/backend/internal/media"
	"github.com/normafacile/backend/internal/models"
	"github.com/stretchr/testify/require"
)

type stubVideos struct {
	mu      sync.Mutex
	queries []string
	items   []models.MediaItem
	err     error
}

func (s *stubVideos) Search(_ context.Context, query string, max int) ([]models.MediaItem, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if len(s.items) > max {
		return s.items[:max], nil
	}
	return s.items, nil
}

type stubNews struct {
	items []models.NewsItem
	err   error
}

func (s *stubNews) Fetch(context.Context) ([]models.NewsItem, error) {
	return s.items, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVideoQuery(t *testing.T) {
	doc := models.Document{Title: "Incentivi startup A", Category: models.CategoryStartup}
	require.Equal(t, "Incentivi startup A startup innovazione normativa", media.VideoQuery(doc))
}

func TestCategorizeTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		item models.NewsItem
		want models.Category
		ok   bool
	}{
		{
			name: "startup news",
			item: models.NewsItem{Title: "Nuovi fondi startup", Description: "innovazione digitale"},
			want: models.CategoryStartup,
			ok:   true,
		},
		{
			name: "tax news",
			item: models.NewsItem{Title: "Fisco, nuove agevolazioni in arrivo", Description: ""},
			want: models.CategoryTax,
			ok:   true,
		},
		{
			name: "no overlap",
			item: models.NewsItem{Title: "Risultati del campionato", Description: "calcio"},
			ok:   false,
		},
	}

	cat := media.TokenOverlapCategorizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cat.Categorize(tt.item)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAugmentAllAttachesMedia(t *testing.T) {
	videos := &stubVideos{items: []models.MediaItem{
		{ID: "v1", URL: "https://www.youtube.com/watch?v=v1"},
		{ID: "v2", URL: "https://www.youtube.com/watch?v=v2"},
	}}
	news := &stubNews{items: []models.NewsItem{
		{Title: "Bando startup", Description: "innovazione", URL: "https://example.com/1"},
		{Title: "Partita di calcio", Description: "", URL: "https://example.com/2"},
	}}

	a := media.NewAugmenter(videos, news, nil, discard(), media.Config{})
	docs := []models.Document{
		{ID: "a", Title: "Incentivi startup", Category: models.CategoryStartup},
		{ID: "b", Title: "Decreto dogane", Category: models.CategoryTrade},
	}

	got := a.AugmentAll(context.Background(), docs)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)

	require.Len(t, got[0].Videos, 2)
	require.Len(t, got[0].Articles, 1)
	require.Equal(t, models.CategoryStartup, got[0].Articles[0].Category)

	// No feed item overlaps the trade category.
	require.Empty(t, got[1].Articles)
	require.Len(t, got[1].Videos, 2)
}

func TestAugmentAllCapsArticles(t *testing.T) {
	items := make([]models.NewsItem, 0, 5)
	for i := range 5 {
		items = append(items, models.NewsItem{
			Title:       "Novità startup e innovazione",
			URL:         fmt.Sprintf("https://example.com/%d", i),
			Description: "startup",
		})
	}

	a := media.NewAugmenter(nil, &stubNews{items: items}, nil, discard(), media.Config{MaxArticles: 3})
	got := a.AugmentAll(context.Background(), []models.Document{
		{ID: "a", Category: models.CategoryStartup},
	})

	require.Len(t, got[0].Articles, 3)
}

func TestAugmentAllDegradesOnFailure(t *testing.T) {
	a := media.NewAugmenter(
		&stubVideos{err: errors.New("quota exceeded")},
		&stubNews{err: errors.New("feed down")},
		nil, discard(), media.Config{},
	)

	got := a.AugmentAll(context.Background(), []models.Document{
		{ID: "a", Title: "Documento", Category: models.CategoryTax},
	})

	require.Len(t, got, 1)
	require.Empty(t, got[0].Videos)
	require.Empty(t, got[0].Articles)
}

func TestAugmentAllOverwritesExistingMedia(t *testing.T) {
	a := media.NewAugmenter(nil, nil, nil, discard(), media.Config{})

	doc := models.Document{
		ID:       "a",
		Category: models.CategoryTax,
		Videos:   []models.MediaItem{{ID: "stale"}},
		Articles: []models.NewsItem{{Title: "stale"}},
	}

	got := a.AugmentAll(context.Background(), []models.Document{doc})
	require.Empty(t, got[0].Videos)
	require.Empty(t, got[0].Articles)
}
