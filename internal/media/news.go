package media

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/normafacile/backend/internal/models"
)

// NewsProvider fetches candidate news items, not yet assigned to a category.
type NewsProvider interface {
	Fetch(ctx context.Context) ([]models.NewsItem, error)
}

// FeedProvider reads a fixed list of RSS feeds and returns the union of their
// items. A feed that fails to download or parse is logged and skipped.
type FeedProvider struct {
	parser *gofeed.Parser
	feeds  []string
	log    *slog.Logger
}

// NewFeedProvider builds a provider over the given feed endpoints.
func NewFeedProvider(feeds []string, log *slog.Logger) *FeedProvider {
	return &FeedProvider{parser: gofeed.NewParser(), feeds: feeds, log: log}
}

func (p *FeedProvider) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	var items []models.NewsItem
	for _, endpoint := range p.feeds {
		feed, err := p.parser.ParseURLWithContext(endpoint, ctx)
		if err != nil {
			p.log.Warn("news feed failed", slog.String("feed", endpoint), slog.Any("err", err))
			continue
		}

		source := feedHost(endpoint)
		for _, it := range feed.Items {
			if it.Link == "" {
				continue
			}
			item := models.NewsItem{
				Title:       it.Title,
				URL:         it.Link,
				Description: it.Description,
				Source:      source,
			}
			if it.PublishedParsed != nil {
				item.PublishedAt = models.Date{Time: *it.PublishedParsed}
			}
			items = append(items, item)
		}
		p.log.Info("fetched news feed", slog.String("feed", endpoint), slog.Int("items", len(feed.Items)))
	}
	return items, nil
}

func feedHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// Categorizer assigns a news item to the category it most likely belongs to.
// It is a pluggable strategy so a real classifier can replace the lexical
// heuristic without touching the augmenter.
type Categorizer interface {
	Categorize(item models.NewsItem) (models.Category, bool)
}

// TokenOverlapCategorizer scores each category by how many of its identifier
// tokens appear as substrings of the item's title and description. The best
// strictly positive score wins; ties at zero discard the item.
type TokenOverlapCategorizer struct{}

func (TokenOverlapCategorizer) Categorize(item models.NewsItem) (models.Category, bool) {
	text := strings.ToLower(item.Title + " " + item.Description)

	var best models.Category
	bestScore := 0
	for _, cat := range models.Categories() {
		score := 0
		for _, token := range strings.Split(string(cat), "_") {
			if strings.Contains(text, token) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return best, true
}
