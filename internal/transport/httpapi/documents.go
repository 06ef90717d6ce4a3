package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
)

type createDocumentRequest struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	ExternalID string `json:"external_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

type updateDocumentRequest struct {
	Text   *string `json:"text,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID == 0 {
		s.writeError(w, r, fmt.Errorf("%w: document id is required", entities.ErrValidation))
		return
	}

	doc, err := s.documents.Create(r.Context(), req.ID, req.Text, req.ExternalID, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := services.DocumentListOptions{
		Status:   q.Get("status"),
		Query:    q.Get("q"),
		Page:     intParam(q.Get("page")),
		PageSize: intParam(q.Get("page_size")),
	}

	docs, err := s.documents.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.documents.Update(r.Context(), id, entities.DocumentPatch{
		Text:   req.Text,
		Status: req.Status,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric id path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", entities.ErrValidation, name, raw)
	}
	return id, nil
}

// intParam parses an optional numeric query parameter; 0 means unset.
func intParam(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}
