package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookmeta/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid book id",
		[]httpx.ErrorDetail{{Field: "id", Message: "id must be a positive integer"}})
}

func (h *HTTPHandler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
}

// List handles GET /books?cursor=&limit=&missing_cover=true
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cursor, err := DecodeCursor(query.Get("cursor"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid cursor", nil)
		return
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	books, err := h.service.List(r.Context(), ListParams{
		AfterID:          cursor.AfterID,
		Limit:            limit,
		MissingCoverOnly: query.Get("missing_cover") == "true",
	})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}

	meta := map[string]any{"limit": limit}
	if len(books) == limit {
		meta["next_cursor"] = EncodeCursor(CursorData{AfterID: books[len(books)-1].ID})
	}
	httpx.JSONSuccess(w, r, books, meta)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w, r)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Cover handles GET /books/{id}/cover
func (h *HTTPHandler) Cover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w, r)
		return
	}
	url, err := h.service.CoverFor(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"cover_url":   url,
		"placeholder": url == PlaceholderCoverURL,
	}, nil)
}

// Refresh handles POST /books/{id}/refresh
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w, r)
		return
	}
	out, err := h.service.Refresh(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}
