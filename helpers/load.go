package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/spektr-org/salescope/engine"
)

// ParseMsgpack decodes records written with their msgpack tags, the same
// encoding `salescope --format msgpack` produces for record dumps.
func ParseMsgpack(data []byte) ([]engine.SalesRecord, error) {
	var records []engine.SalesRecord
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack records: %w", err)
	}
	return records, nil
}

// Parse picks a decoder by format name: "csv", "json" or "msgpack".
func Parse(format string, data []byte) ([]engine.SalesRecord, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ParseCSV(data)
	case "json":
		return ParseJSON(data)
	case "msgpack", "mp":
		return ParseMsgpack(data)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want csv, json or msgpack)", format)
	}
}

// LoadFile reads path and parses it according to its extension.
func LoadFile(path string) ([]engine.SalesRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	records, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}
