package view

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"nsefetch/pkg/dataset"
)

// ErrNoData is returned when an export is requested over zero records.
var ErrNoData = errors.New("no records to export")

// ExportCSV writes one header row from the first record's field order
// and one data row per record. Rich cells are flattened to their bare
// text; no display annotations leak into the export.
func ExportCSV(w io.Writer, records []dataset.Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	headers := records[0].Fields()

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(headers))
	for i, rec := range records {
		for j, h := range headers {
			cell, _ := rec.Get(h)
			row[j] = cell.ExportValue()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
