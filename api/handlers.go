package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normafacile/backend/internal/config"
	"github.com/normafacile/backend/internal/corpus"
	"github.com/normafacile/backend/internal/enrich"
	"github.com/normafacile/backend/internal/models"
	"github.com/normafacile/backend/internal/pipeline"
)

// Related media shown inline on a search result; the document detail view
// returns the full lists.
const resultMediaLimit = 2

type server struct {
	log    *slog.Logger
	cfg    *config.API
	store  *corpus.Store
	runner *pipeline.Runner
}

type errorResponse struct {
	Error string `json:"error"`
}

type categoryInfo struct {
	ID          models.Category `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
}

var categories = []categoryInfo{
	{ID: models.CategoryStartup, Name: "Start-up e Innovazione", Icon: "🚀",
		Description: "Incentivi, fondi e requisiti per start-up innovative e progetti tecnologici."},
	{ID: models.CategoryTax, Name: "Fisco e Agevolazioni", Icon: "💰",
		Description: "Agevolazioni fiscali, crediti d'imposta e incentivi economici per le imprese."},
	{ID: models.CategoryLabor, Name: "Lavoro e Contratti", Icon: "👔",
		Description: "Normative sul lavoro, contratti, assunzioni e formazione professionale."},
	{ID: models.CategoryEnvironment, Name: "Ambiente e Sostenibilità", Icon: "🌱",
		Description: "Incentivi per la sostenibilità, economia circolare e transizione ecologica."},
	{ID: models.CategoryTrade, Name: "Import/Export e Mercati Esteri", Icon: "🌍",
		Description: "Normative doganali, incentivi all'export e internazionalizzazione."},
}

// searchResult is the list-view projection of a document, with media capped.
type searchResult struct {
	ID            string             `json:"id"`
	Title         string             `json:"titolo"`
	Category      models.Category    `json:"categoria"`
	Source        string             `json:"fonte"`
	Date          models.Date        `json:"data"`
	Summary       string             `json:"riassunto"`
	URL           string             `json:"url"`
	PracticalCase string             `json:"caso_pratico"`
	Videos        []models.MediaItem `json:"video_correlati"`
	Articles      []models.NewsItem  `json:"articoli_correlati"`
}

type latestResult struct {
	ID       string          `json:"id"`
	Title    string          `json:"titolo"`
	Category models.Category `json:"categoria"`
	Source   string          `json:"fonte"`
	Date     models.Date     `json:"data"`
	Summary  string          `json:"riassunto"`
	URL      string          `json:"url"`
}

func toSearchResult(doc models.Document) searchResult {
	return searchResult{
		ID:            doc.ID,
		Title:         doc.Title,
		Category:      doc.Category,
		Source:        doc.Source,
		Date:          doc.Date,
		Summary:       doc.Summary,
		URL:           doc.URL,
		PracticalCase: doc.PracticalCase,
		Videos:        capVideos(doc.Videos),
		Articles:      capArticles(doc.Articles),
	}
}

func capVideos(items []models.MediaItem) []models.MediaItem {
	if items == nil {
		return []models.MediaItem{}
	}
	if len(items) > resultMediaLimit {
		items = items[:resultMediaLimit]
	}
	return items
}

func capArticles(items []models.NewsItem) []models.NewsItem {
	if items == nil {
		return []models.NewsItem{}
	}
	if len(items) > resultMediaLimit {
		items = items[:resultMediaLimit]
	}
	return items
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"pipeline":  s.runner.State(),
		"documents": s.store.Size(),
	})
}

func (s *server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing search query"})
		return
	}

	category, ok := parseCategoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
		return
	}

	docs, err := s.store.Search(query, category)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	results := make([]searchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, toSearchResult(doc))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"count":    len(results),
		"query":    query,
		"category": category,
	})
}

func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.store.GetByID(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleLatest(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
		return
	}

	n := clampInt(r.URL.Query().Get("n"), s.cfg.LatestLimit, 20)

	docs, err := s.store.Latest(category, n)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	results := make([]latestResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, latestResult{
			ID:       doc.ID,
			Title:    doc.Title,
			Category: doc.Category,
			Source:   doc.Source,
			Date:     doc.Date,
			Summary:  doc.Summary,
			URL:      doc.URL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"count":    len(results),
		"category": category,
	})
}

type profileRequest struct {
	Email               string          `json:"email"`
	Nome                string          `json:"nome"`
	Cognome             string          `json:"cognome"`
	Azienda             string          `json:"azienda"`
	Settore             string          `json:"settore"`
	Dimensione          string          `json:"dimensione"`
	Interessi           []string        `json:"interessi"`
	PreferenzeNotifiche map[string]bool `json:"preferenze_notifiche"`
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "incomplete profile data"})
		return
	}

	// TODO: persist profiles once the notification service lands; for now the
	// frontend only needs an acknowledgement with a profile ID.
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"profile_id": uuid.NewString(),
		"message":    "Profilo salvato con successo",
	})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing text to analyze"})
		return
	}

	simplified := enrich.Simplify(req.Text, s.cfg.SummarySentences)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"analysis": map[string]any{
			"riassunto":          enrich.Summarize(simplified),
			"testo_semplificato": simplified,
			"parole_chiave":      enrich.Keywords(req.Text, s.cfg.KeywordLimit),
		},
	})
}

func (s *server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, corpus.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "corpus not ready"})
	case errors.Is(err, corpus.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "document not found"})
	case errors.Is(err, corpus.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing search query"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// parseCategoryParam reads the optional category query parameter. ok is false
// only for a non-empty unknown value.
func parseCategoryParam(r *http.Request) (*models.Category, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("category"))
	if raw == "" {
		return nil, true
	}
	cat, ok := models.ParseCategory(raw)
	if !ok {
		return nil, false
	}
	return &cat, true
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
