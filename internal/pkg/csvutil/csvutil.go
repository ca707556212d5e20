package csvutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Sanitize defends CSV exports against spreadsheet formula injection: any
// value starting with '=', '+', '-' or '@' is prefixed with a single quote
// so spreadsheet software imports it as text. Stripping the quote restores
// the original value.
func Sanitize(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@':
		return "'" + value
	}
	return value
}

// Marshal writes a header row followed by the given rows, sanitizing every
// cell.
func Marshal(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		sanitized := make([]string, len(row))
		for i, cell := range row {
			sanitized[i] = Sanitize(cell)
		}
		if err := w.Write(sanitized); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Unsanitize reverses Sanitize for a single cell.
func Unsanitize(value string) string {
	if strings.HasPrefix(value, "'") {
		return value[1:]
	}
	return value
}
