package refresh

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"bookmeta/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Start handles POST /refresh-runs. The body is optional.
func (h *HTTPHandler) Start(w http.ResponseWriter, r *http.Request) {
	var opts Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid request body", nil)
		return
	}
	if details := httpx.Validate(opts); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid refresh options", details)
		return
	}

	run, err := h.svc.Start(r.Context(), opts)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Could not start refresh run", nil)
		return
	}
	httpx.JSONCreated(w, r, run)
}

// Get handles GET /refresh-runs/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Refresh run not found", nil)
		return
	}

	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Refresh run not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}
