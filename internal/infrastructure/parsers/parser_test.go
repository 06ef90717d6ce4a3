package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Parser
	}{
		{"jsonl", &JSONLParser{}},
		{"JSONL", &JSONLParser{}},
		{"ndjson", &JSONLParser{}},
		{"csv", &CSVParser{}},
		{"xml", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, ForFormat(tt.format))
		})
	}
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONLParser{}, ForFile("export.jsonl"))
	assert.IsType(t, &JSONLParser{}, ForFile("export.NDJSON"))
	assert.IsType(t, &CSVParser{}, ForFile("documents.csv"))
	assert.Nil(t, ForFile("notes.txt"))
}

func TestJSONLParser(t *testing.T) {
	t.Run("full bundles", func(t *testing.T) {
		input := `{"document_id":1,"text":"The patient has diabetes","status":"reviewed","entities":[{"id":10,"start":16,"end":24,"label":"Disease"}],"relations":[{"source_entity_id":10,"target_entity_id":10,"predicate":"indicates"}]}
{"document_id":2,"text":"No complaints","status":"unannotated"}
`
		docs, err := (&JSONLParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, docs, 2)

		assert.Equal(t, int64(1), docs[0].ID)
		assert.Equal(t, 1, docs[0].LineNum)
		require.Len(t, docs[0].Entities, 1)
		assert.Equal(t, "Disease", docs[0].Entities[0].Label)
		require.Len(t, docs[0].Relations, 1)
		assert.Equal(t, "indicates", docs[0].Relations[0].Predicate)

		assert.Equal(t, int64(2), docs[1].ID)
		assert.Equal(t, 2, docs[1].LineNum)
		assert.Empty(t, docs[1].Entities)
	})

	t.Run("empty input", func(t *testing.T) {
		docs, err := (&JSONLParser{}).Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("malformed record reports its number", func(t *testing.T) {
		input := `{"document_id":1,"text":"ok"}
{not json}
`
		_, err := (&JSONLParser{}).Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record 2")
	})
}

func TestCSVParser(t *testing.T) {
	t.Run("documents with optional columns", func(t *testing.T) {
		input := `id,text,external_id,status
1,Patient reports chest pain.,chart-001,unannotated
2,Follow-up visit.,,reviewed
`
		docs, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, docs, 2)

		assert.Equal(t, int64(1), docs[0].ID)
		assert.Equal(t, "Patient reports chest pain.", docs[0].Text)
		assert.Equal(t, "chart-001", docs[0].ExternalID)
		assert.Equal(t, 2, docs[0].LineNum)

		assert.Equal(t, int64(2), docs[1].ID)
		assert.Empty(t, docs[1].ExternalID)
		assert.Equal(t, "reviewed", docs[1].Status)
	})

	t.Run("minimal header", func(t *testing.T) {
		docs, err := (&CSVParser{}).Parse(strings.NewReader("id,text\n7,some text\n"))
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, int64(7), docs[0].ID)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := (&CSVParser{}).Parse(strings.NewReader("id,status\n1,reviewed\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required column: text")
	})

	t.Run("invalid id reports its line", func(t *testing.T) {
		_, err := (&CSVParser{}).Parse(strings.NewReader("id,text\nabc,some text\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}
