// Package httpapi exposes the annotation services over HTTP. It is a thin
// adapter: request shaping, pagination parameters and status mapping live
// here, all validation lives in the services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medspan/medspan/internal/domain/services"
)

// Options configures the HTTP server.
type Options struct {
	Logger      *slog.Logger
	Version     string
	DBPath      string
	CORSOrigins []string
}

// Server bundles the annotation services behind an HTTP router.
type Server struct {
	documents *services.DocumentService
	entities  *services.EntityService
	relations *services.RelationService
	export    *services.ExportService

	log     *slog.Logger
	version string
	dbPath  string
	origins []string
}

// NewServer creates a new Server.
func NewServer(
	documents *services.DocumentService,
	entities *services.EntityService,
	relations *services.RelationService,
	export *services.ExportService,
	opts Options,
) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		documents: documents,
		entities:  entities,
		relations: relations,
		export:    export,
		log:       log,
		version:   opts.Version,
		dbPath:    opts.DBPath,
		origins:   opts.CORSOrigins,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(cors(s.origins))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/documents", func(docs chi.Router) {
			docs.Post("/", s.handleCreateDocument)
			docs.Get("/", s.handleListDocuments)
			docs.Get("/{documentID}", s.handleGetDocument)
			docs.Patch("/{documentID}", s.handleUpdateDocument)
			docs.Delete("/{documentID}", s.handleDeleteDocument)

			docs.Post("/{documentID}/entities", s.handleCreateEntity)
			docs.Get("/{documentID}/entities", s.handleListEntities)
			docs.Post("/{documentID}/relations", s.handleCreateRelation)
			docs.Get("/{documentID}/relations", s.handleListRelations)
		})

		api.Delete("/entities/{entityID}", s.handleDeleteEntity)
		api.Delete("/relations/{relationID}", s.handleDeleteRelation)

		api.Get("/vocabulary/entity-types", s.handleListEntityTypes)
		api.Get("/vocabulary/relation-types", s.handleListRelationTypes)

		api.Post("/export", s.handleExport)
	})

	return r
}

// handleHealth reports liveness plus enough identity to spot a
// misconfigured deployment.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
		"db_path": s.dbPath,
	})
}
