package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const csvBatchSize = 20

// CSVConverter handles CSV files. Rows are grouped into batches, each under
// its own heading, with one paragraph per row.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: baseTitle(filename)}
	if len(rows) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := rows[0]
	dataRows := rows[1:]

	var md mdBuilder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		md.heading(1, fmt.Sprintf("Rows %d-%d", i+2, end+1)) // 1-indexed, skip header
		for _, row := range dataRows[i:end] {
			md.paragraph(formatRow(headers, row))
		}
	}
	doc.Markdown = md.String()
	return doc, nil
}

func formatRow(headers, row []string) string {
	cells := make([]string, 0, len(row))
	for j, cell := range row {
		if j < len(headers) {
			cells = append(cells, headers[j]+": "+cell)
		} else {
			cells = append(cells, cell)
		}
	}
	return strings.Join(cells, ", ")
}
