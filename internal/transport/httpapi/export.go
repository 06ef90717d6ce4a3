package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
)

type exportRequest struct {
	DocumentIDs []int64 `json:"document_ids,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// handleExport streams annotation bundles as line-delimited JSON, one
// bundle per document, flushing after each line so large exports never
// buffer fully in memory. An empty body means no filter: export everything.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, r, fmt.Errorf("%w: invalid request body: %v", entities.ErrValidation, err))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename=annotations.jsonl`)

	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	err := s.export.Export(r.Context(), services.ExportFilter{
		DocumentIDs: req.DocumentIDs,
		Status:      req.Status,
	}, func(b *entities.Bundle) error {
		if err := enc.Encode(b); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// Headers are already out; all we can do is log and cut the stream.
		s.log.ErrorContext(r.Context(), "export aborted", "error", err)
	}
}
