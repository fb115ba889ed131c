package models

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/google/uuid"
)

// Category is the closed set of regulatory categories a document can belong to.
// The identifiers double as the serialized form.
type Category string

const (
	CategoryStartup     Category = "startup_innovazione"
	CategoryTax         Category = "fisco_agevolazioni"
	CategoryLabor       Category = "lavoro_contratti"
	CategoryEnvironment Category = "ambiente_sostenibilita"
	CategoryTrade       Category = "importexport_esteri"
)

// Categories returns every known category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryStartup,
		CategoryTax,
		CategoryLabor,
		CategoryEnvironment,
		CategoryTrade,
	}
}

// ParseCategory validates a raw category identifier.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// Document is one regulatory document in the corpus. The fetcher fills the raw
// fields, the enricher derives summary/simplified/keywords/practical case, and
// the media augmenter attaches related videos and articles. After a document
// lands in the corpus store it must not be mutated.
type Document struct {
	ID            string      `json:"id"`
	Title         string      `json:"titolo"`
	Category      Category    `json:"categoria"`
	Source        string      `json:"fonte"`
	URL           string      `json:"url"`
	Date          Date        `json:"data"`
	RawText       string      `json:"testo"`
	Summary       string      `json:"riassunto"`
	Simplified    string      `json:"testo_semplificato"`
	Keywords      []string    `json:"parole_chiave"`
	PracticalCase string      `json:"caso_pratico"`
	Videos        []MediaItem `json:"video_correlati"`
	Articles      []NewsItem  `json:"articoli_correlati"`
}

// MediaItem is a related external video.
type MediaItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

// NewsItem is a related news article pulled from an external feed.
type NewsItem struct {
	Title       string   `json:"titolo"`
	URL         string   `json:"url"`
	Description string   `json:"descrizione"`
	PublishedAt Date     `json:"data_pubblicazione"`
	Source      string   `json:"fonte"`
	Category    Category `json:"categoria"`
}

// DocumentID derives a content-stable identifier from the fields that survive
// re-fetching. Two documents sharing title, source and date collide; that is a
// documented limitation of the identity scheme.
func DocumentID(title, source string, date Date) string {
	if title == "" && source == "" {
		return uuid.NewString()
	}
	s := sha1.Sum([]byte(title + "|" + source + "|" + date.String()))
	return hex.EncodeToString(s[:])
}

// Truncate cuts s to at most max runes, appending an ellipsis when anything
// was removed.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
