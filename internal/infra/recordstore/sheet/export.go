package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mousetrack/pkg/domain"
)

// ExportClient reads a plain CSV export URL and writes through a separate
// append-only endpoint accepting one record as JSON. The export is the read
// source of truth; deletions cannot be persisted, so Save is a no-op and the
// guarantee level is append-only.
type ExportClient struct {
	exportURL string
	appendURL string
	httpc     *http.Client
}

// NewExportClient constructs the export-variant client. appendURL may be
// empty for fully read-only deployments; Append then fails explicitly.
func NewExportClient(exportURL, appendURL string, opts ...ClientOption) (*ExportClient, error) {
	if exportURL == "" {
		return nil, fmt.Errorf("sheet export url required")
	}
	httpc := &http.Client{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(httpc)
	}
	return &ExportClient{exportURL: exportURL, appendURL: appendURL, httpc: httpc}, nil
}

// Load fetches and parses the CSV export.
func (c *ExportClient) Load(ctx context.Context) ([]domain.MouseRecord, error) {
	return fetchCSV(ctx, c.httpc, c.exportURL)
}

// Save is a no-op: the export backend has no replace API.
func (c *ExportClient) Save(context.Context, []domain.MouseRecord) error { return nil }

// Append posts one record to the append endpoint.
func (c *ExportClient) Append(ctx context.Context, record domain.MouseRecord) error {
	if c.appendURL == "" {
		return fmt.Errorf("append endpoint not configured")
	}
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.appendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	}
	return fmt.Errorf("append record: unexpected status %s", resp.Status)
}

// Guarantee reports the append-only persistence level.
func (c *ExportClient) Guarantee() domain.Guarantee { return domain.GuaranteeAppendOnly }

var (
	_ domain.RecordStore = (*ExportClient)(nil)
	_ domain.AppendStore = (*ExportClient)(nil)
)
