package corpus

import (
	"sort"
	"strings"

	"github.com/normafacile/backend/internal/models"
)

const (
	titleWeight      = 3
	summaryWeight    = 2
	simplifiedWeight = 1

	latestSummaryLen = 150
)

// Search scores the corpus against a whitespace-tokenized query, optionally
// filtered by category, and returns matching documents by descending score.
// Documents with equal score keep their corpus order. The corpus itself is
// never mutated.
func (s *Store) Search(query string, category *models.Category) ([]models.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrUnavailable
	}

	terms := strings.Fields(strings.ToLower(query))

	type match struct {
		doc   models.Document
		score int
	}
	var matches []match
	for _, doc := range snap.docs {
		if category != nil && doc.Category != *category {
			continue
		}
		if score := scoreDocument(doc, terms); score > 0 {
			matches = append(matches, match{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]models.Document, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.doc)
	}
	return out, nil
}

// scoreDocument sums per-term weights: 3 for a title hit, 2 for a summary
// hit, 1 for a simplified-text hit. A term may hit all three fields at once.
func scoreDocument(doc models.Document, terms []string) int {
	title := strings.ToLower(doc.Title)
	summary := strings.ToLower(doc.Summary)
	simplified := strings.ToLower(doc.Simplified)

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(summary, term) {
			score += summaryWeight
		}
		if strings.Contains(simplified, term) {
			score += simplifiedWeight
		}
	}
	return score
}

// Latest returns the n most recently published documents, optionally filtered
// by category, with summaries truncated for list views. Ordering compares
// parsed dates, newest first.
func (s *Store) Latest(category *models.Category, n int) ([]models.Document, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrUnavailable
	}
	if n <= 0 {
		n = 5
	}

	var out []models.Document
	for _, doc := range snap.docs {
		if category != nil && doc.Category != *category {
			continue
		}
		out = append(out, doc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if len(out) > n {
		out = out[:n]
	}
	for i := range out {
		out[i].Summary = models.Truncate(out[i].Summary, latestSummaryLen)
	}
	return out, nil
}
