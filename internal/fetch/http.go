package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/normafacile/backend/internal/models"
)

// HTTPClient fetches a source endpoint that publishes its document listing as
// a JSON array. Real HTML scraping sits behind the same Client interface and
// can be plugged in per source kind.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient builds a source client on top of http.DefaultTransport.
// Per-call deadlines come from the request context.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{client: &http.Client{}}
}

func (c *HTTPClient) Fetch(ctx context.Context, src SourceDescriptor) ([]models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", src.Name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", src.Name, resp.StatusCode)
	}

	var docs []models.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Name, err)
	}
	return docs, nil
}
