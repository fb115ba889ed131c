package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/normafacile/backend/internal/config"
	"github.com/normafacile/backend/internal/corpus"
	"github.com/normafacile/backend/internal/fetch"
	"github.com/normafacile/backend/internal/models"
	"github.com/normafacile/backend/internal/pipeline"
)

type noopFetcher struct{}

func (noopFetcher) FetchAll(context.Context, []fetch.SourceDescriptor) []models.Document {
	return nil
}

type noopEnricher struct{}

func (noopEnricher) EnrichAll(docs []models.Document) []models.Document { return docs }

type noopAugmenter struct{}

func (noopAugmenter) AugmentAll(_ context.Context, docs []models.Document) []models.Document {
	return docs
}

func newTestServer(store *corpus.Store) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.API{
		Pipeline: config.Pipeline{
			KeywordLimit:     10,
			SummarySentences: 5,
		},
		LatestLimit: 5,
	}
	runner := pipeline.NewRunner(log, nil, noopFetcher{}, noopEnricher{}, noopAugmenter{}, nil, nil, store)
	srv := &server{log: log, cfg: cfg, store: store, runner: runner}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", srv.handleCategories)
		r.Get("/search", srv.handleSearch)
		r.Get("/document/{id}", srv.handleDocument)
		r.Get("/latest", srv.handleLatest)
		r.Post("/profile", srv.handleProfile)
		r.Post("/analyze", srv.handleAnalyze)
	})
	return r
}

func readyStore() *corpus.Store {
	videos := []models.MediaItem{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}}
	articles := []models.NewsItem{{Title: "n1"}, {Title: "n2"}, {Title: "n3"}}

	store := corpus.NewStore()
	store.Replace([]models.Document{
		{
			ID: "doc-a", Title: "Incentivi startup A", Category: models.CategoryStartup,
			Source: "Gazzetta Ufficiale", Date: models.NewDate(2024, time.January, 10),
			Summary: "Riassunto A.", Simplified: "Testo semplificato A.",
			Videos: videos, Articles: articles,
		},
		{
			ID: "doc-b", Title: "Decreto fiscale B", Category: models.CategoryTax,
			Source: "INPS", Date: models.NewDate(2024, time.June, 1),
			Summary: "Riassunto B.", Simplified: "Testo semplificato B.",
		},
	})
	return store
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearchMissingQuery(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchUnknownCategory(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/search?q=startup&category=sport", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchBeforeFirstRun(t *testing.T) {
	h := newTestServer(corpus.NewStore())
	rec := doRequest(t, h, http.MethodGet, "/api/search?q=startup", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleSearchCapsInlineMedia(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/search?q=startup&category=startup_innovazione", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []searchResult `json:"results"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "doc-a", resp.Results[0].ID)
	require.Len(t, resp.Results[0].Videos, 2)
	require.Len(t, resp.Results[0].Articles, 2)
}

func TestHandleDocumentDetailKeepsFullMedia(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/document/doc-a", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Videos, 3)
	require.Len(t, doc.Articles, 3)
}

func TestHandleDocumentNotFound(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/document/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleLatest(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []latestResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	require.Equal(t, "doc-b", resp.Results[0].ID)
	require.Equal(t, "doc-a", resp.Results[1].ID)
}

func TestHandleCategories(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []categoryInfo `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 5)
	require.Equal(t, models.CategoryStartup, resp.Categories[0].ID)
}

func TestHandleProfile(t *testing.T) {
	h := newTestServer(readyStore())

	rec := doRequest(t, h, http.MethodPost, "/api/profile", `{"nome":"Anna"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/profile", `{"email":"anna@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool   `json:"success"`
		ProfileID string `json:"profile_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.ProfileID)
}

func TestHandleAnalyze(t *testing.T) {
	h := newTestServer(readyStore())

	rec := doRequest(t, h, http.MethodPost, "/api/analyze", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"text":"Il decreto legislativo introduce incentivi per le startup innovative. Seconda frase."}`
	rec = doRequest(t, h, http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			Summary    string   `json:"riassunto"`
			Simplified string   `json:"testo_semplificato"`
			Keywords   []string `json:"parole_chiave"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Contains(t, resp.Analysis.Simplified, "legge")
	require.NotEmpty(t, resp.Analysis.Keywords)
	require.Equal(t, "Il legge introduce incentivi per le startup innovative.", resp.Analysis.Summary)
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(readyStore())
	rec := doRequest(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string `json:"status"`
		Pipeline  string `json:"pipeline"`
		Documents int    `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "idle", resp.Pipeline)
	require.Equal(t, 2, resp.Documents)
}
