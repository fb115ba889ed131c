package media

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/normafacile/backend/internal/models"
)

// Config bounds the augmentation fan-out and the attached media lists.
type Config struct {
	MaxVideos   int
	MaxArticles int
	Concurrency int
	Timeout     time.Duration
}

// Augmenter attaches related videos and news articles to documents. Either
// capability may be absent or failing; a document then keeps empty media
// lists and the pipeline carries on.
type Augmenter struct {
	videos VideoSearcher
	news   NewsProvider
	cat    Categorizer
	log    *slog.Logger
	cfg    Config
}

// NewAugmenter builds an augmenter. videos and news may be nil to disable the
// corresponding capability; a nil categorizer falls back to token overlap.
func NewAugmenter(videos VideoSearcher, news NewsProvider, cat Categorizer, log *slog.Logger, cfg Config) *Augmenter {
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = 3
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 3
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cat == nil {
		cat = TokenOverlapCategorizer{}
	}
	return &Augmenter{videos: videos, news: news, cat: cat, log: log, cfg: cfg}
}

// AugmentAll attaches media to every document and returns the batch in the
// same order. Media lists are overwritten, not appended, so re-running on an
// already augmented batch yields the same result.
func (a *Augmenter) AugmentAll(ctx context.Context, docs []models.Document) []models.Document {
	byCategory := a.articlesByCategory(ctx)

	out := make([]models.Document, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			doc.Videos = a.relatedVideos(ctx, doc)
			doc.Articles = relatedArticles(byCategory[doc.Category], a.cfg.MaxArticles)
			out[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (a *Augmenter) relatedVideos(ctx context.Context, doc models.Document) []models.MediaItem {
	if a.videos == nil {
		return []models.MediaItem{}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	items, err := a.videos.Search(callCtx, VideoQuery(doc), a.cfg.MaxVideos)
	if err != nil {
		a.log.Warn("video search failed",
			slog.String("id", doc.ID),
			slog.String("title", doc.Title),
			slog.Any("err", err),
		)
		return []models.MediaItem{}
	}
	if len(items) > a.cfg.MaxVideos {
		items = items[:a.cfg.MaxVideos]
	}
	return items
}

// articlesByCategory fetches the news feeds once per batch and groups the
// categorizable items.
func (a *Augmenter) articlesByCategory(ctx context.Context) map[models.Category][]models.NewsItem {
	grouped := make(map[models.Category][]models.NewsItem)
	if a.news == nil {
		return grouped
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	items, err := a.news.Fetch(callCtx)
	if err != nil {
		a.log.Warn("news fetch failed", slog.Any("err", err))
		return grouped
	}

	for _, item := range items {
		cat, ok := a.cat.Categorize(item)
		if !ok {
			continue
		}
		item.Category = cat
		grouped[cat] = append(grouped[cat], item)
	}
	return grouped
}

func relatedArticles(items []models.NewsItem, max int) []models.NewsItem {
	if len(items) > max {
		items = items[:max]
	}
	out := make([]models.NewsItem, len(items))
	copy(out, items)
	return out
}
