package httpapi

import (
	"net/http"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
)

type createEntityRequest struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Label      string `json:"label"`
	CodeSystem string `json:"code_system,omitempty"`
	Code       string `json:"code,omitempty"`
	Annotator  string `json:"annotator,omitempty"`
}

func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req createEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	label, err := entities.ParseEntityLabel(req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.entities.Create(r.Context(), documentID, services.EntityInput{
		Start:      req.Start,
		End:        req.End,
		Label:      label,
		CodeSystem: req.CodeSystem,
		Code:       req.Code,
		Annotator:  req.Annotator,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views, err := s.entities.List(r.Context(), documentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.entities.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
