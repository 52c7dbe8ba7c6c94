package api

import (
	"github.com/starford/zk/internal/catalog"
	"github.com/starford/zk/internal/reconcile"
	"github.com/starford/zk/internal/service"
)

// CreateZettelRequest is the request body for creating a zettel. An empty
// title falls back to the default note title.
type CreateZettelRequest struct {
	Title string `json:"title" example:"my note"`
}

// CreateZettelResponse is returned after a zettel is written and indexed.
type CreateZettelResponse = service.Created

// ZettelDetail is the single-zettel response type (aliased from the domain layer).
type ZettelDetail = service.ZettelDetail

// ZettelListResponse wraps catalog listings.
type ZettelListResponse struct {
	Zettels []catalog.Row `json:"zettels"`
	Total   int           `json:"total" example:"42"`
}

// SyncResponse lists the renames detected by a reconcile run, in scan order.
// When a malformed note aborts the run, Error is set and Renames holds the
// changes saved before it.
type SyncResponse struct {
	Error   string             `json:"error,omitempty"`
	Renames []reconcile.Rename `json:"renames"`
}
