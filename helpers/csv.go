package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/schema"
)

// ============================================================================
// CSV HELPER — Parses a sales export into []engine.SalesRecord
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper maps the raw bytes onto SalesRecord through the schema
// catalogue. Unknown columns are ignored, malformed rows are skipped.
// ============================================================================

// ParseCSV parses CSV bytes with a header row into SalesRecords.
func ParseCSV(data []byte) ([]engine.SalesRecord, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	// Column index → catalogue column; nil for unmapped headers.
	mappings := make([]*schema.Column, len(headers))
	mapped := 0
	for i, h := range headers {
		if c, ok := schema.Resolve(h); ok {
			mappings[i] = &c
			mapped++
		} else {
			log.Debug().Str("header", h).Msg("csv column ignored")
		}
	}
	if mapped == 0 {
		return nil, fmt.Errorf("CSV header has no sales columns: %q", headers)
	}
	if missing := schema.Missing(headers); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("csv lacks required columns")
	}

	var records []engine.SalesRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue // skip malformed rows
		}

		var rec engine.SalesRecord
		for i, val := range row {
			if i >= len(mappings) {
				break
			}
			if m := mappings[i]; m != nil {
				assignString(&rec, *m, val)
			}
		}
		records = append(records, rec)
	}

	log.Debug().Int("records", len(records)).Int("skipped", skipped).Msg("csv parsed")
	return records, nil
}

// WriteCSV writes records back out under the upstream headers.
func WriteCSV(w io.Writer, records []engine.SalesRecord) error {
	cw := csv.NewWriter(w)

	headers := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		headers[i] = c.Header
	}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	row := make([]string, len(schema.Columns))
	for _, rec := range records {
		for i, c := range schema.Columns {
			row[i] = cell(&rec, c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
