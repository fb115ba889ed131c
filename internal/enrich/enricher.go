package enrich

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/normafacile/backend/internal/models"
)

const summaryMaxLen = 150

// ErrEmptyText marks a document whose raw text carries nothing to derive from.
var ErrEmptyText = errors.New("empty raw text")

// Enricher derives summary, simplified text, keywords and a practical case
// from a document's raw text. Every derivation is a deterministic heuristic;
// a smarter model can replace this whole component without touching the
// pipeline.
type Enricher struct {
	log          *slog.Logger
	keywordLimit int
	maxSentences int
}

// New builds an enricher. Non-positive limits fall back to the defaults
// (10 keywords, 5 sentences).
func New(log *slog.Logger, keywordLimit, maxSentences int) *Enricher {
	if keywordLimit <= 0 {
		keywordLimit = 10
	}
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &Enricher{log: log, keywordLimit: keywordLimit, maxSentences: maxSentences}
}

// Enrich fills the derived fields of doc in place.
func (e *Enricher) Enrich(doc *models.Document) error {
	if strings.TrimSpace(doc.RawText) == "" {
		return ErrEmptyText
	}

	doc.Simplified = Simplify(doc.RawText, e.maxSentences)
	doc.Summary = Summarize(doc.Simplified)
	doc.Keywords = Keywords(doc.RawText, e.keywordLimit)
	doc.PracticalCase = PracticalCase(*doc)
	return nil
}

// EnrichAll enriches a batch. A document that fails derivation is logged and
// dropped; the rest of the batch goes through.
func (e *Enricher) EnrichAll(docs []models.Document) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		if err := e.Enrich(&doc); err != nil {
			e.log.Warn("skipping document",
				slog.String("id", doc.ID),
				slog.String("title", doc.Title),
				slog.Any("err", err),
			)
			continue
		}
		out = append(out, doc)
	}
	return out
}

// Summarize produces the short list-view summary: the first sentence of the
// simplified text, capped at 150 characters.
func Summarize(simplified string) string {
	sentences := SplitSentences(simplified)
	if len(sentences) == 0 {
		return ""
	}
	return models.Truncate(sentences[0], summaryMaxLen)
}
