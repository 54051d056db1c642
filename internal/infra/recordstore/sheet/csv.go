package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"mousetrack/pkg/domain"
)

// Tabular backends are spreadsheets maintained by hand: column order and
// presence are untrusted. Headers are matched case-insensitively and
// order-insensitively, missing columns coerce to blank, and extra columns
// (left_photo, right_photo, anything else) are ignored.

func parseRecords(r io.Reader) ([]domain.MouseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows tolerated
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idIdx, remarkIdx, dateIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "mouse_id":
			idIdx = i
		case "remark":
			remarkIdx = i
		case "date_added", "date":
			dateIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("mouse_id column missing in header %v", header)
	}

	var records []domain.MouseRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		id := strings.TrimSpace(field(row, idIdx))
		if id == "" {
			continue
		}
		records = append(records, domain.MouseRecord{
			MouseID:   id,
			Remark:    field(row, remarkIdx),
			DateAdded: coerceDate(field(row, dateIdx)),
		})
	}
	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// coerceDate normalizes an ISO date and passes anything else through
// unchanged rather than failing the whole load.
func coerceDate(s string) domain.Date {
	s = strings.TrimSpace(s)
	if d, err := domain.ParseDate(s); err == nil {
		return d
	}
	return domain.Date(s)
}

func encodeRecords(records []domain.MouseRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"mouse_id", "remark", "date_added"}); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := writer.Write([]string{rec.MouseID, rec.Remark, string(rec.DateAdded)}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
