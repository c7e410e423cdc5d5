package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tadinve/p3-search/application/service"
	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/domain/search"
	"github.com/tadinve/p3-search/infrastructure/extractor"
	"github.com/tadinve/p3-search/internal/log"
)

// Sentinel errors for errors.Is matching.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrServer         = errors.New("server error")
)

// APIError is an error with an associated HTTP status code.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the error message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError indicates a failed authentication attempt.
type AuthenticationError struct {
	message string
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{message: message}
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.message)
}

// Is matches ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// ServerError indicates a server-side failure with a status code.
type ServerError struct {
	statusCode int
	message    string
}

// NewServerError creates a ServerError.
func NewServerError(statusCode int, message string) *ServerError {
	return &ServerError{statusCode: statusCode, message: message}
}

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int { return e.statusCode }

// Message returns the error message.
func (e *ServerError) Message() string { return e.message }

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.statusCode, e.message)
}

// Is matches ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps an error to an HTTP status code and writes a JSON
// error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain and service errors to HTTP status codes.
func statusFor(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code()
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode()
	}

	switch {
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, document.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotPDF),
		errors.Is(err, extractor.ErrEmptyDocument),
		errors.Is(err, extractor.ErrExtraction),
		errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, search.ErrInvalidLimit),
		errors.Is(err, search.ErrInvalidMinSimilarity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
