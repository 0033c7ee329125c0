package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/internal/database"
)

// ErrorBody is a single entry of an error response.
type ErrorBody struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse is the error response envelope.
type ErrorResponse struct {
	Errors []ErrorBody `json:"errors"`
}

// APIError is an error carrying the HTTP status it should be reported with.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// BadRequest wraps cause as a 400 error.
func BadRequest(message string, cause error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, cause)
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client facing message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.cause }

// StatusFor maps err to an HTTP status and title.
func StatusFor(err error) (int, string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code(), http.StatusText(apiErr.Code())
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case database.IsUniqueViolation(err):
		return http.StatusConflict, "Conflict"
	case database.IsNotNullViolation(err), errors.Is(err, product.ErrDimensionMismatch):
		return http.StatusBadRequest, "Validation Error"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// WriteError writes an error response. Server errors are logged and their
// detail withheld from the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	status, title := StatusFor(err)

	detail := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		detail = apiErr.Message()
		if apiErr.cause != nil {
			detail += ": " + apiErr.cause.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request error",
			"status", status,
			"error", err,
			"path", r.URL.Path,
		)
		detail = ""
	}

	resp := ErrorResponse{
		Errors: []ErrorBody{{
			Status: http.StatusText(status),
			Title:  title,
			Detail: detail,
			ID:     middleware.GetReqID(r.Context()),
		}},
	}
	WriteJSON(w, status, resp)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
