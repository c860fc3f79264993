package history

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"bookfinder/internal/httpx"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

type HTTPHandler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHTTPHandler(repo Repository, logger *zap.Logger) *HTTPHandler {
	if repo == nil {
		repo = NoopRepo{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{repo: repo, logger: logger}
}

// RegisterRoutes mounts the search history endpoints on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/searches/recent", h.Recent)
}

type recentResponse struct {
	Searches []Entry `json:"searches"`
}

// Recent handles GET /api/searches/recent
// @Summary Recent searches
// @Tags searches
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {object} recentResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/searches/recent [get]
func (h *HTTPHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	entries, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list recent searches",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Error listing recent searches", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	httpx.JSONOK(w, recentResponse{Searches: entries})
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultRecentLimit
	}
	return min(n, MaxRecentLimit)
}
