package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/schema"
)

// ============================================================================
// JSON HELPER — Parses an array of sales objects
// ============================================================================
// Keys are resolved through the schema catalogue, so both the upstream
// headers ("Total Revenue (₹ Lakh)") and camelCase/snake_case names work.
// Document numbers may arrive as JSON numbers; they are kept as text.
// ============================================================================

// ParseJSON parses a JSON array of objects into SalesRecords.
func ParseJSON(data []byte) ([]engine.SalesRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("sales JSON must be an array of objects: %w", err)
	}

	ignored := map[string]bool{}
	records := make([]engine.SalesRecord, 0, len(rows))
	for _, row := range rows {
		var rec engine.SalesRecord
		for key, raw := range row {
			col, ok := schema.Resolve(key)
			if !ok {
				ignored[key] = true
				continue
			}
			assignValue(&rec, col, raw)
		}
		records = append(records, rec)
	}

	if len(ignored) > 0 {
		log.Debug().Int("keys", len(ignored)).Msg("json keys ignored")
	}
	log.Debug().Int("records", len(records)).Msg("json parsed")
	return records, nil
}

// assignValue coerces a decoded JSON value. null, booleans and nested
// values leave the field at its zero value.
func assignValue(rec *engine.SalesRecord, col schema.Column, raw any) {
	switch v := raw.(type) {
	case string:
		assignString(rec, col, v)
	case json.Number:
		if col.Kind != schema.KindNumber {
			// Keep the literal so large document numbers stay exact.
			assignString(rec, col, v.String())
			return
		}
		f, _ := v.Float64()
		assignNumber(rec, col, f)
	}
}
