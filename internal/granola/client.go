package granola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/mannaz/internal/apperr"
)

// DefaultAPIURL is the Granola get-documents endpoint.
const DefaultAPIURL = "https://api.granola.ai/v2/get-documents"

// Granola rejects requests without a recognizable client identity.
const clientVersion = "5.354.0"

// Client fetches documents from the Granola API. One POST per fetch;
// timeouts are the HTTP client's responsibility, there is no retry.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	pageLimit  int
	logger     *slog.Logger
}

// NewClient creates a Granola API client. url falls back to
// DefaultAPIURL and pageLimit to 200 when zero-valued.
func NewClient(url, token string, pageLimit int, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultAPIURL
	}
	if pageLimit <= 0 {
		pageLimit = 200
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		token:      token,
		pageLimit:  pageLimit,
		logger:     logger,
	}
}

// FetchDocuments requests the most recent documents, newest first.
// A 401 response yields apperr.ErrAuthentication; any other non-200
// status is a generic fetch error. Documents that fail to decode are
// logged and skipped, never fatal.
func (c *Client) FetchDocuments(ctx context.Context) ([]Document, error) {
	payload := map[string]any{
		"limit":                     c.pageLimit,
		"offset":                    0,
		"include_last_viewed_panel": true,
		"sort": map[string]string{
			"field": "created_at",
			"order": "desc",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("granola: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("granola: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", "Granola/"+clientVersion)
	req.Header.Set("X-Client-Version", clientVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("granola: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("granola: token rejected (status 401): %w", apperr.ErrAuthentication)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("granola: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("granola: read response: %w", err)
	}

	var result struct {
		Docs []json.RawMessage `json:"docs"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("granola: decode response: %w", err)
	}

	docs := make([]Document, 0, len(result.Docs))
	for i, raw := range result.Docs {
		doc, err := DecodeDocument(raw)
		if err != nil {
			c.logger.Warn("granola: skipping undecodable document",
				slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		docs = append(docs, doc)
	}
	c.logger.Debug("granola: fetched documents", slog.Int("count", len(docs)))
	return docs, nil
}
