package resolver

import (
	"net/http"

	"bookmeta/internal/entity"
	"bookmeta/internal/httpx"
)

type HTTPHandler struct {
	service Service
}

func NewHTTPHandler(service Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type lookupParams struct {
	Title  string `query:"title" validate:"required_without=ISBN,max=500"`
	Author string `query:"author" validate:"max=500"`
	ISBN   string `query:"isbn" validate:"omitempty,isbn"`
}

func paramsFrom(r *http.Request) lookupParams {
	q := r.URL.Query()
	return lookupParams{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		ISBN:   q.Get("isbn"),
	}.clean()
}

func (p lookupParams) clean() lookupParams {
	c := entity.Query{Title: p.Title, Author: p.Author, ISBN: p.ISBN}.Clean()
	return lookupParams{Title: c.Title, Author: c.Author, ISBN: c.ISBN}
}

// ResolveResponse is the body of GET /resolve.
type ResolveResponse struct {
	entity.Resolution
	Found bool   `json:"found"`
	Link  string `json:"link"`
}

// Resolve handles GET /resolve?title=&author=&isbn=
func (h *HTTPHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	p := paramsFrom(r)
	if details := httpx.Validate(p); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid lookup parameters", details)
		return
	}

	res := h.service.Resolve(r.Context(), entity.Query{Title: p.Title, Author: p.Author, ISBN: p.ISBN})

	isbn := p.ISBN
	if isbn == "" {
		isbn = res.ISBN
	}
	httpx.JSONSuccess(w, r, ResolveResponse{
		Resolution: res,
		Found:      res.HasCover(),
		Link:       BuildReferenceLink(p.Title, p.Author, isbn),
	}, nil)
}

// Link handles GET /link?title=&author=&isbn=
func (h *HTTPHandler) Link(w http.ResponseWriter, r *http.Request) {
	p := paramsFrom(r)
	if details := httpx.Validate(p); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid lookup parameters", details)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"url": BuildReferenceLink(p.Title, p.Author, p.ISBN)}, nil)
}
