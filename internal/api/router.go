package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/zk/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *service.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/zettels", h.ListZettels)
	r.Post("/zettels", h.CreateZettel)
	r.Get("/zettels/{id}", h.GetZettel)

	r.Post("/sync", h.Sync)

	return r
}
