package httpx

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeUpstream    = "UPSTREAM_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	CodeTooLarge    = "REQUEST_TOO_LARGE"
)

type ErrorResponse struct {
	Message   string        `json:"message"`
	Code      string        `json:"code"`
	Details   []ErrorDetail `json:"details,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func JSONOK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	JSON(w, statusCode, ErrorResponse{
		Message:   message,
		Code:      code,
		Details:   details,
		RequestID: RequestIDFrom(r),
	})
}
