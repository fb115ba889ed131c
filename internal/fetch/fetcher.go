package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/normafacile/backend/internal/dedupe"
	"github.com/normafacile/backend/internal/models"
)

// SourceDescriptor names one upstream publisher of normative documents.
type SourceDescriptor struct {
	Name     string `yaml:"name" json:"name"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Kind     string `yaml:"kind" json:"kind"`
}

// Client retrieves the raw documents one source currently publishes.
type Client interface {
	Fetch(ctx context.Context, src SourceDescriptor) ([]models.Document, error)
}

// Config bounds the fetch fan-out.
type Config struct {
	Concurrency    int
	Timeout        time.Duration
	DedupeCapacity int
	DedupeTTL      time.Duration
}

// Fetcher pulls raw documents from every configured source. Sources are
// independent: one failing or timing out is logged and skipped, and the batch
// is the union of whatever the remaining sources returned.
type Fetcher struct {
	client Client
	log    *slog.Logger
	cfg    Config
}

// NewFetcher builds a fetcher around the given source client.
func NewFetcher(client Client, log *slog.Logger, cfg Config) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DedupeCapacity <= 0 {
		cfg.DedupeCapacity = 10000
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 24 * time.Hour
	}
	return &Fetcher{client: client, log: log, cfg: cfg}
}

// FetchAll retrieves all sources with bounded concurrency and returns the
// deduplicated union, in source declaration order. It never fails; an empty
// result means every source failed or published nothing.
func (f *Fetcher) FetchAll(ctx context.Context, sources []SourceDescriptor) []models.Document {
	results := make([][]models.Document, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(f.cfg.Concurrency)

	for i, src := range sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			callCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
			defer cancel()

			docs, err := f.client.Fetch(callCtx, src)
			if err != nil {
				f.log.Warn("source fetch failed",
					slog.String("source", src.Name),
					slog.Any("err", err),
				)
				return nil
			}

			results[i] = docs
			f.log.Info("fetched source",
				slog.String("source", src.Name),
				slog.Int("documents", len(docs)),
			)
			return nil
		})
	}
	_ = g.Wait()

	seen := dedupe.NewCache(f.cfg.DedupeCapacity, f.cfg.DedupeTTL)
	var out []models.Document
	for i, docs := range results {
		src := sources[i]
		for _, doc := range docs {
			doc.Title = strings.TrimSpace(doc.Title)
			if doc.Source == "" {
				doc.Source = src.Name
			}
			if doc.Title == "" && strings.TrimSpace(doc.RawText) == "" {
				f.log.Debug("dropping empty document", slog.String("source", src.Name))
				continue
			}
			if _, ok := models.ParseCategory(string(doc.Category)); !ok {
				f.log.Warn("dropping document with unknown category",
					slog.String("source", src.Name),
					slog.String("title", doc.Title),
					slog.String("category", string(doc.Category)),
				)
				continue
			}
			if doc.ID == "" {
				doc.ID = models.DocumentID(doc.Title, doc.Source, doc.Date)
			}
			if seen.Seen(doc.ID) {
				f.log.Debug("duplicate document", slog.String("id", doc.ID), slog.String("title", doc.Title))
				continue
			}
			out = append(out, doc)
		}
	}
	return out
}
