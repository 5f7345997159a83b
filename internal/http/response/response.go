// Package response writes the versioned JSON envelope for handlers that sit
// outside huma: router fallbacks and middleware rejections.
package response

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/listenupapp/bookrec/internal/errors"
)

// Version is the envelope format version carried in every response as "v".
const Version = 1

// Envelope wraps successful responses and simple errors.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope wraps coded errors.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// Success writes data in a 200 envelope.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	Write(w, http.StatusOK, Envelope{Version: Version, Success: true, Data: data}, logger)
}

// Error writes a coded error envelope.
func Error(w http.ResponseWriter, status int, code errors.Code, message string, logger *slog.Logger) {
	Write(w, status, ErrorEnvelope{
		Version: Version,
		Code:    string(code),
		Message: message,
	}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, errors.CodeNotFound, message, logger)
}

// MethodNotAllowed writes a 405 response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, errors.CodeInvalidQuery, message, logger)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, errors.CodeRateLimited, message, logger)
}

// HandleError maps a domain error to its status and code. Errors without a
// code become a generic 500 so internals are not leaked.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		Write(w, domainErr.HTTPStatus(), ErrorEnvelope{
			Version: Version,
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, errors.CodeInternal, "internal server error", logger)
}
