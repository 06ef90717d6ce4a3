package httpapi

import (
	"net/http"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
)

type createRelationRequest struct {
	SourceEntityID int64  `json:"source_entity_id"`
	TargetEntityID int64  `json:"target_entity_id"`
	Predicate      string `json:"predicate"`
	Annotator      string `json:"annotator,omitempty"`
}

func (s *Server) handleCreateRelation(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req createRelationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	predicate, err := entities.ParseRelationPredicate(req.Predicate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rel, err := s.relations.Create(r.Context(), documentID, services.RelationInput{
		SourceEntityID: req.SourceEntityID,
		TargetEntityID: req.TargetEntityID,
		Predicate:      predicate,
		Annotator:      req.Annotator,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

func (s *Server) handleListRelations(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "documentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rels, err := s.relations.List(r.Context(), documentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "relationID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.relations.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
