package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/catalog"
	"github.com/starford/zk/internal/reconcile"
	"github.com/starford/zk/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListZettels handles GET /api/zettels.
//
//	@Summary		List zettels from the catalog
//	@Tags			zettels
//	@Produce		json
//	@Param			sort	query		string	false	"Sort field"	Enums(created, modified, path, title)
//	@Param			q		query		string	false	"Title or path filter"
//	@Param			limit	query		int		false	"Max rows"
//	@Success		200		{object}	ZettelListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zettels [get]
func (h *Handler) ListZettels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	rows, total, err := h.svc.List(r.Context(), catalog.Query{
		Text:  q.Get("q"),
		Sort:  q.Get("sort"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, "list zettels", err)
		return
	}
	if rows == nil {
		rows = []catalog.Row{}
	}
	writeJSON(w, http.StatusOK, ZettelListResponse{Zettels: rows, Total: total})
}

// GetZettel handles GET /api/zettels/{id}.
//
//	@Summary		Get a single zettel by uuid
//	@Tags			zettels
//	@Produce		json
//	@Param			id	path		string	true	"Zettel uuid"
//	@Success		200	{object}	ZettelDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zettels/{id} [get]
func (h *Handler) GetZettel(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get zettel", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateZettel handles POST /api/zettels.
//
//	@Summary		Create a new zettel
//	@Tags			zettels
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateZettelRequest	true	"Zettel to create"
//	@Success		201		{object}	CreateZettelResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zettels [post]
func (h *Handler) CreateZettel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateZettelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c, err := h.svc.Create(r.Context(), req.Title)
	if err != nil {
		writeError(w, "create zettel", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Sync handles POST /api/sync.
//
//	@Summary		Reconcile the index with renamed notes
//	@Tags			zettels
//	@Produce		json
//	@Success		200	{object}	SyncResponse
//	@Failure		422	{object}	SyncResponse
//	@Security		BearerAuth
//	@Router			/sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	renames, err := h.svc.Sync(r.Context())
	if renames == nil {
		renames = []reconcile.Rename{}
	}
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedFrontmatter) {
			writeJSON(w, http.StatusUnprocessableEntity, SyncResponse{Error: err.Error(), Renames: renames})
			return
		}
		writeError(w, "sync", err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{Renames: renames})
}
