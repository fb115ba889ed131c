package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/normafacile/backend/internal/corpus"
	"github.com/normafacile/backend/internal/fetch"
	"github.com/normafacile/backend/internal/models"
)

// ErrAborted means no documents survived the fetch stage. The previous corpus,
// if any, stays in place.
var ErrAborted = errors.New("pipeline aborted: no documents")

// State tracks where a pipeline run currently is.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateEnriching  State = "enriching"
	StateAugmenting State = "augmenting"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

// Fetcher pulls the raw batch from all configured sources.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []fetch.SourceDescriptor) []models.Document
}

// Enricher derives the per-document fields, dropping documents that fail.
type Enricher interface {
	EnrichAll(docs []models.Document) []models.Document
}

// Augmenter attaches related media to the enriched batch.
type Augmenter interface {
	AugmentAll(ctx context.Context, docs []models.Document) []models.Document
}

// BatchCache persists and restores a document batch.
type BatchCache interface {
	Load() ([]models.Document, error)
	Save(docs []models.Document) error
}

// Runner sequences fetch, enrich and augment, then swaps the corpus store.
// Only one run mutates the store at a time; readers keep seeing the previous
// corpus until the swap.
type Runner struct {
	mu sync.Mutex

	stateMu sync.Mutex
	state   State

	log       *slog.Logger
	sources   []fetch.SourceDescriptor
	fetcher   Fetcher
	enricher  Enricher
	augmenter Augmenter
	rawCache  BatchCache
	snapCache BatchCache
	store     *corpus.Store
}

// NewRunner wires the pipeline stages together. snapCache may be nil when the
// enriched corpus snapshot should not be persisted.
func NewRunner(
	log *slog.Logger,
	sources []fetch.SourceDescriptor,
	fetcher Fetcher,
	enricher Enricher,
	augmenter Augmenter,
	rawCache BatchCache,
	snapCache BatchCache,
	store *corpus.Store,
) *Runner {
	return &Runner{
		state:     StateIdle,
		log:       log,
		sources:   sources,
		fetcher:   fetcher,
		enricher:  enricher,
		augmenter: augmenter,
		rawCache:  rawCache,
		snapCache: snapCache,
		store:     store,
	}
}

// State returns the current pipeline state.
func (r *Runner) State() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.stateMu.Lock()
	r.state = s
	r.stateMu.Unlock()
}

// Run executes one full pipeline pass. With useCache set and a cached raw
// batch available, the live fetch is skipped entirely; enrichment and
// augmentation always run, so derived fields follow the current heuristics
// rather than whatever version produced the cache. On success the corpus
// store is swapped atomically to the new batch.
func (r *Runner) Run(ctx context.Context, useCache bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setState(StateFetching)
	raw, fromCache := r.rawBatch(ctx, useCache)

	if err := ctx.Err(); err != nil {
		r.setState(StateIdle)
		return err
	}
	if len(raw) == 0 {
		r.setState(StateFailed)
		return ErrAborted
	}

	if !fromCache && r.rawCache != nil {
		if err := r.rawCache.Save(raw); err != nil {
			r.log.Warn("persist raw batch failed", slog.Any("err", err))
		}
	}

	r.setState(StateEnriching)
	enriched := r.enricher.EnrichAll(raw)
	if err := ctx.Err(); err != nil {
		r.setState(StateIdle)
		return err
	}
	if len(enriched) == 0 {
		r.setState(StateFailed)
		return ErrAborted
	}

	r.setState(StateAugmenting)
	augmented := r.augmenter.AugmentAll(ctx, enriched)
	if err := ctx.Err(); err != nil {
		r.setState(StateIdle)
		return err
	}

	r.store.Replace(augmented)
	if r.snapCache != nil {
		if err := r.snapCache.Save(augmented); err != nil {
			r.log.Warn("persist corpus snapshot failed", slog.Any("err", err))
		}
	}

	r.setState(StateReady)
	r.log.Info("pipeline completed",
		slog.Bool("from_cache", fromCache),
		slog.Int("fetched", len(raw)),
		slog.Int("corpus", len(augmented)),
	)
	return nil
}

// rawBatch resolves the raw documents for this run, preferring the cache when
// asked to.
func (r *Runner) rawBatch(ctx context.Context, useCache bool) ([]models.Document, bool) {
	if useCache && r.rawCache != nil {
		cached, err := r.rawCache.Load()
		if err != nil {
			r.log.Warn("load cached batch failed", slog.Any("err", err))
		}
		if len(cached) > 0 {
			r.log.Info("using cached raw batch", slog.Int("documents", len(cached)))
			return cached, true
		}
	}
	return r.fetcher.FetchAll(ctx, r.sources), false
}
