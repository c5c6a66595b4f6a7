package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/mannaz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// runner, if non-nil, backs the POST /sync endpoint.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, runner SyncRunner, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, runner)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes (read + delete; notes are created by sync passes).
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// Graph.
	r.Get("/graph", h.Graph)

	// People.
	r.Get("/people", h.People)
	r.Get("/people/{name}/notes", h.PersonNotes)

	// On-demand sync.
	r.Post("/sync", h.SyncNow)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
