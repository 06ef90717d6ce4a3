package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
	"github.com/medspan/medspan/internal/infrastructure/parsers"
)

// TestExportImportRoundTrip exports a fully annotated corpus as JSONL and
// imports it into a fresh database, verifying nothing semantic is lost.
func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := openTestRepo(t, "roundtrip-source")
	docs := services.NewDocumentService(source, 50, 200)
	ents := services.NewEntityService(source)
	rels := services.NewRelationService(source)

	_, err := docs.Create(ctx, 1, "Metformin controls blood glucose in diabetes", "chart-001", "reviewed")
	require.NoError(t, err)
	med, err := ents.Create(ctx, 1, services.EntityInput{Start: 0, End: 9, Label: entities.LabelMedication, CodeSystem: "RxNorm", Code: "6809"})
	require.NoError(t, err)
	dis, err := ents.Create(ctx, 1, services.EntityInput{Start: 36, End: 44, Label: entities.LabelDisease})
	require.NoError(t, err)
	_, err = rels.Create(ctx, 1, services.RelationInput{
		SourceEntityID: med.ID,
		TargetEntityID: dis.ID,
		Predicate:      entities.PredicateTreats,
		Annotator:      "alice",
	})
	require.NoError(t, err)

	_, err = docs.Create(ctx, 2, "No complaints today", "", "")
	require.NoError(t, err)

	// Export to JSONL
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	err = services.NewExportService(source).Export(ctx, services.ExportFilter{}, func(b *entities.Bundle) error {
		return enc.Encode(b)
	})
	require.NoError(t, err)

	// Import into a fresh database
	raws, err := (&parsers.JSONLParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	target := openTestRepo(t, "roundtrip-target")
	result, err := services.NewImportService(target).Import(ctx, raws, services.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	// The imported corpus must export identically modulo ids and timestamps
	doc, err := target.GetDocument(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Metformin controls blood glucose in diabetes", doc.Text)
	assert.Equal(t, "chart-001", doc.ExternalID)
	assert.Equal(t, "reviewed", doc.Status)

	imported, err := target.ListEntitiesByDocument(ctx, 1)
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, 0, imported[0].Start)
	assert.Equal(t, entities.LabelMedication, imported[0].Label)
	assert.Equal(t, "RxNorm", imported[0].CodeSystem)
	assert.Equal(t, 36, imported[1].Start)

	relations, err := target.ListRelationsByDocument(ctx, 1)
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, entities.PredicateTreats, relations[0].Predicate)
	assert.Equal(t, "alice", relations[0].Annotator)
	assert.Equal(t, imported[0].ID, relations[0].SourceEntityID)
	assert.Equal(t, imported[1].ID, relations[0].TargetEntityID)
}
