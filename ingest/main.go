package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/normafacile/backend/internal/config"
	"github.com/normafacile/backend/internal/corpus"
	"github.com/normafacile/backend/internal/enrich"
	"github.com/normafacile/backend/internal/fetch"
	"github.com/normafacile/backend/internal/logger"
	"github.com/normafacile/backend/internal/media"
	"github.com/normafacile/backend/internal/pipeline"
)

// ingest runs one full pipeline pass and writes the corpus snapshot, so the
// corpus can be prepared out of band and served later from cache.
func main() {
	_ = godotenv.Load()

	log := logger.New("ingest")
	cfg, err := config.LoadPipeline()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Error("load sources", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	fetcher := fetch.NewFetcher(fetch.NewHTTPClient(), log, fetch.Config{
		Concurrency:    cfg.FetchConcurrency,
		Timeout:        cfg.FetchTimeout,
		DedupeCapacity: cfg.DedupeCapacity,
		DedupeTTL:      cfg.DedupeTTL,
	})

	var videos media.VideoSearcher
	if cfg.YouTubeAPIKey != "" {
		yt, err := media.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn("youtube searcher unavailable", slog.Any("err", err))
		} else {
			videos = yt
		}
	}

	var news media.NewsProvider
	if len(sources.Feeds) > 0 {
		news = media.NewFeedProvider(sources.Feeds, log)
	}

	augmenter := media.NewAugmenter(videos, news, nil, log, media.Config{
		MaxVideos:   cfg.MaxVideos,
		MaxArticles: cfg.MaxArticles,
		Concurrency: cfg.FetchConcurrency,
		Timeout:     cfg.MediaTimeout,
	})

	runner := pipeline.NewRunner(
		log,
		sources.Sources,
		fetcher,
		enrich.New(log, cfg.KeywordLimit, cfg.SummarySentences),
		augmenter,
		fetch.NewCache(cfg.RawBatchPath()),
		fetch.NewCache(cfg.CorpusPath()),
		corpus.NewStore(),
	)

	if err := runner.Run(ctx, cfg.UseCache); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("ingest cancelled")
			os.Exit(0)
		}
		log.Error("pipeline run failed", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("corpus snapshot written", slog.String("path", cfg.CorpusPath()))
}
