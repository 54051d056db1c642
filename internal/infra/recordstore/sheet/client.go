// Package sheet implements the two spreadsheet-backed RecordStore deployment
// variants: a read/replace client that round-trips the whole table, and a
// read-only export client paired with an append-only write endpoint. The two
// variants carry different persistence guarantees and are not interchangeable.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"mousetrack/pkg/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to a tabular read/replace API: GET returns the whole table as
// CSV, PUT replaces it.
type Client struct {
	url   string
	httpc *http.Client
}

// ClientOption configures a sheet client.
type ClientOption func(*http.Client)

// WithHTTPClient overrides the underlying HTTP client (tests, custom TLS).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(dst *http.Client) { *dst = *c }
}

// NewClient constructs a read/replace sheet client for the given table URL.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("sheet url required")
	}
	httpc := &http.Client{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(httpc)
	}
	return &Client{url: url, httpc: httpc}, nil
}

// Load fetches and parses the whole table.
func (c *Client) Load(ctx context.Context) ([]domain.MouseRecord, error) {
	return fetchCSV(ctx, c.httpc, c.url)
}

// Save replaces the whole table with the supplied record set.
func (c *Client) Save(ctx context.Context, records []domain.MouseRecord) error {
	body, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/csv")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("replace sheet: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("replace sheet: unexpected status %s", resp.Status)
	}
	return nil
}

// Guarantee reports full durable persistence.
func (c *Client) Guarantee() domain.Guarantee { return domain.GuaranteeDurable }

func fetchCSV(ctx context.Context, httpc *http.Client, url string) ([]domain.MouseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %s", resp.Status)
	}
	records, err := parseRecords(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	return records, nil
}

var _ domain.RecordStore = (*Client)(nil)
