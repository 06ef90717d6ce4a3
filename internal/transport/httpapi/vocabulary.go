package httpapi

import (
	"net/http"

	"github.com/medspan/medspan/internal/domain/entities"
)

func (s *Server) handleListEntityTypes(w http.ResponseWriter, r *http.Request) {
	labels := entities.EntityLabels()
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, string(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRelationTypes(w http.ResponseWriter, r *http.Request) {
	predicates := entities.RelationPredicates()
	out := make([]string, 0, len(predicates))
	for _, p := range predicates {
		out = append(out, string(p))
	}
	writeJSON(w, http.StatusOK, out)
}
