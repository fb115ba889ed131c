package media

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/normafacile/backend/internal/models"
)

// VideoSearcher finds external videos for a free-text query. A nil searcher
// on the augmenter simply leaves documents without videos.
type VideoSearcher interface {
	Search(ctx context.Context, query string, max int) ([]models.MediaItem, error)
}

// YouTubeSearcher implements VideoSearcher on top of the YouTube Data API v3,
// scoped to Italian-language results.
type YouTubeSearcher struct {
	svc *youtube.Service
}

// NewYouTubeSearcher builds a searcher authenticated with an API key.
func NewYouTubeSearcher(ctx context.Context, apiKey string) (*YouTubeSearcher, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init youtube service: %w", err)
	}
	return &YouTubeSearcher{svc: svc}, nil
}

func (s *YouTubeSearcher) Search(ctx context.Context, query string, max int) ([]models.MediaItem, error) {
	call := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(max)).
		RegionCode("IT").
		RelevanceLanguage("it")

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	items := make([]models.MediaItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Id == nil || it.Id.VideoId == "" || it.Snippet == nil {
			continue
		}
		items = append(items, models.MediaItem{
			ID:          it.Id.VideoId,
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Thumbnail:   thumbnailURL(it.Snippet.Thumbnails),
			URL:         "https://www.youtube.com/watch?v=" + it.Id.VideoId,
		})
	}
	return items, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	switch {
	case t == nil:
		return ""
	case t.High != nil:
		return t.High.Url
	case t.Medium != nil:
		return t.Medium.Url
	case t.Default != nil:
		return t.Default.Url
	default:
		return ""
	}
}

// VideoQuery builds the search query for a document: title plus category with
// underscores as spaces, anchored to the regulatory domain.
func VideoQuery(doc models.Document) string {
	category := strings.ReplaceAll(string(doc.Category), "_", " ")
	return doc.Title + " " + category + " normativa"
}
