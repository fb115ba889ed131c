package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/normafacile/backend/internal/config"
	"github.com/normafacile/backend/internal/corpus"
	"github.com/normafacile/backend/internal/enrich"
	"github.com/normafacile/backend/internal/fetch"
	"github.com/normafacile/backend/internal/logger"
	"github.com/normafacile/backend/internal/media"
	"github.com/normafacile/backend/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
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

	store := corpus.NewStore()
	runner := buildRunner(ctx, log, cfg.Pipeline, sources, store)

	go func() {
		if err := runner.Run(ctx, cfg.UseCache); err != nil {
			log.Error("initial pipeline run failed", slog.Any("err", err))
		}
	}()

	if cfg.RefreshInterval > 0 {
		go refreshLoop(ctx, log, runner, cfg.RefreshInterval)
	}

	srv := &server{log: log, cfg: cfg, store: store, runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", srv.handleCategories)
		r.Get("/search", srv.handleSearch)
		r.Get("/document/{id}", srv.handleDocument)
		r.Get("/latest", srv.handleLatest)
		r.Post("/profile", srv.handleProfile)
		r.Post("/analyze", srv.handleAnalyze)
	})

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// buildRunner wires the pipeline stages from configuration. Missing media
// credentials degrade the corresponding capability instead of failing.
func buildRunner(ctx context.Context, log *slog.Logger, cfg config.Pipeline, sources *config.SourceList, store *corpus.Store) *pipeline.Runner {
	fetcher := fetch.NewFetcher(fetch.NewHTTPClient(), log, fetch.Config{
		Concurrency:    cfg.FetchConcurrency,
		Timeout:        cfg.FetchTimeout,
		DedupeCapacity: cfg.DedupeCapacity,
		DedupeTTL:      cfg.DedupeTTL,
	})

	enricher := enrich.New(log, cfg.KeywordLimit, cfg.SummarySentences)

	var videos media.VideoSearcher
	if cfg.YouTubeAPIKey == "" {
		log.Warn("YOUTUBE_API_KEY not set, documents will carry no related videos")
	} else {
		yt, err := media.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn("youtube searcher unavailable", slog.Any("err", err))
		} else {
			videos = yt
		}
	}

	var news media.NewsProvider
	if len(sources.Feeds) == 0 {
		log.Warn("no news feeds configured, documents will carry no related articles")
	} else {
		news = media.NewFeedProvider(sources.Feeds, log)
	}

	augmenter := media.NewAugmenter(videos, news, nil, log, media.Config{
		MaxVideos:   cfg.MaxVideos,
		MaxArticles: cfg.MaxArticles,
		Concurrency: cfg.FetchConcurrency,
		Timeout:     cfg.MediaTimeout,
	})

	return pipeline.NewRunner(
		log,
		sources.Sources,
		fetcher,
		enricher,
		augmenter,
		fetch.NewCache(cfg.RawBatchPath()),
		fetch.NewCache(cfg.CorpusPath()),
		store,
	)
}

// refreshLoop re-runs the pipeline live on a fixed interval so the corpus
// tracks upstream publications. Failed runs keep the previous corpus and are
// retried on the next tick.
func refreshLoop(ctx context.Context, log *slog.Logger, runner *pipeline.Runner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("refresh loop running", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := runner.Run(ctx, false); err != nil {
				log.Warn("scheduled refresh failed (will retry on next interval)", slog.Any("err", err))
			}
		}
	}
}
