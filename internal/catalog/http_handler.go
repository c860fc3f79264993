package catalog

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bookfinder/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the book endpoints on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books/search", h.Search)
	mux.HandleFunc("GET /api/books/details/{workId...}", h.Details)
}

// Search handles GET /api/books/search
// @Summary Search the catalog
// @Description Search Open Library by title, author, language and first publish year
// @Tags books
// @Produce json
// @Param title query string false "Title filter"
// @Param author query string false "Author filter"
// @Param language query string false "Language code filter"
// @Param year query string false "First publish year filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} SearchResult
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := ParseSearchQuery(r.URL.Query())

	res, err := h.svc.Search(r.Context(), q)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrNoFilters):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest,
				"At least one search parameter is required (title, author, language, or year)", nil)
		case errors.As(err, &verr):
			details := make([]httpx.ErrorDetail, len(verr.Fields))
			for i, f := range verr.Fields {
				details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
			}
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid search parameters", details)
		default:
			h.logger.Error("search error",
				zap.String("request_id", httpx.RequestIDFrom(r)),
				zap.Error(err),
			)
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeUpstream, "Error searching books", nil)
		}
		return
	}

	httpx.JSONOK(w, res)
}

// Details handles GET /api/books/details/{workId}
// @Summary Get book details
// @Description Fetch a work with up to five resolved authors
// @Tags books
// @Produce json
// @Param workId path string true "Work ID, e.g. OL45804W"
// @Success 200 {object} BookDetail
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/details/{workId} [get]
func (h *HTTPHandler) Details(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Details(r.Context(), r.PathValue("workId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingWorkID):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Work ID is required", nil)
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		default:
			h.logger.Error("book details error",
				zap.String("request_id", httpx.RequestIDFrom(r)),
				zap.Error(err),
			)
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeUpstream, "Error fetching book details", nil)
		}
		return
	}

	httpx.JSONOK(w, detail)
}
