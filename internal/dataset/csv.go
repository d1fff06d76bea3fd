package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anton95i/device-insights/internal/domain"
)

// ReadCSV parses a CSV export into raw records. The first row is the
// header; each following row becomes a column-name → value map. Rows with
// the wrong field count are skipped rather than failing the whole load,
// matching the loader's "absent or malformed fields are optional" contract.
func ReadCSV(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line; skip and keep reading.
			continue
		}
		if len(row) > len(header) {
			row = row[:len(header)]
		}

		rec := make(domain.Record, len(header))
		for i, val := range row {
			rec[header[i]] = strings.TrimSpace(val)
		}
		records = append(records, rec)
	}

	return records, nil
}
