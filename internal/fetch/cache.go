package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/normafacile/backend/internal/models"
)

// Cache persists a document batch as a JSON file. The file is indented and
// keeps non-ASCII characters literal so operators can inspect it directly.
type Cache struct {
	path string
}

// NewCache builds a cache around the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load returns the cached batch, or (nil, nil) when no cache file exists yet.
func (c *Cache) Load() ([]models.Document, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache %s: %w", c.path, err)
	}

	var docs []models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", c.path, err)
	}
	return docs, nil
}

// Save writes the batch, creating parent directories as needed.
func (c *Cache) Save(docs []models.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", c.path, err)
	}
	return nil
}
