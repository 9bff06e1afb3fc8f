package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadCSV decodes a CSV stream into a table. The first row is the header.
// Ragged rows are tolerated and padded/truncated to the header width, since
// marketplace exports are frequently hand-edited.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	table := &Table{Columns: append([]string(nil), header...)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(table.Rows)+2, err)
		}
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		table.Rows = append(table.Rows, padRow(record, len(header)))
	}
	return table, nil
}

// ReadXLSX decodes the first sheet of an xlsx stream into a table.
func ReadXLSX(r io.Reader) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	table := &Table{Columns: append([]string(nil), header...)}
	for _, row := range rows[1:] {
		if len(row) > len(header) {
			row = row[:len(header)]
		}
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}
	return table, nil
}
