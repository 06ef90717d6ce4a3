package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVParser parses bare documents from CSV format. CSV carries no span
// annotations; it is the bulk intake format for texts awaiting annotation.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed documents.
// Expected columns: id, text, external_id, status
func (p *CSVParser) Parse(r io.Reader) ([]RawDocument, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"id", "text"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawDocuments.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawDocument, error) {
	var docs []RawDocument
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		doc, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// parseRecord converts a CSV record to a RawDocument.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawDocument, error) {
	idStr := getColumn(record, colIndex, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return RawDocument{}, fmt.Errorf("line %d: invalid id value %q: %w", lineNum, idStr, err)
	}

	return RawDocument{
		ID:         id,
		Text:       getColumn(record, colIndex, "text"),
		ExternalID: getColumn(record, colIndex, "external_id"),
		Status:     getColumn(record, colIndex, "status"),
		LineNum:    lineNum,
	}, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
