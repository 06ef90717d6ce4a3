package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONLParser parses documents from line-delimited JSON, one record per
// line, as produced by the export endpoint.
type JSONLParser struct{}

// Parse reads JSONL from the reader and returns parsed documents.
func (p *JSONLParser) Parse(r io.Reader) ([]RawDocument, error) {
	var docs []RawDocument

	decoder := json.NewDecoder(r)
	for lineNum := 1; ; lineNum++ {
		var doc RawDocument
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: parsing JSON: %w", lineNum, err)
		}
		doc.LineNum = lineNum
		docs = append(docs, doc)
	}

	return docs, nil
}
