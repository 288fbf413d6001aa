// Package httpapi implements the TaskHub HTTP surface: the chi router,
// the authentication and rate-limiting middleware, and the task, health,
// and identity handlers.
//
// Every response body is a uniform envelope. Success responses carry
// `{"status": "success", "data": ...}` plus optional meta and message;
// error responses carry `{"status": "error", "code": ..., "message": ...}`
// with the HTTP status derived from the error code's category. The
// underlying cause of an error is logged, never serialized.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the uniform response body shape.
type envelope struct {
	Status  string         `json:"status"`
	Data    any            `json:"data,omitempty"`
	Meta    *meta          `json:"meta,omitempty"`
	Message string         `json:"message,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// meta carries collection metadata alongside list responses.
type meta struct {
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding an envelope of marshalable values cannot fail; the
	// header is already out by now anyway.
	_ = json.NewEncoder(w).Encode(body)
}

// writeData responds with a success envelope wrapping data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: statusSuccess, Data: data})
}

// writeDataMessage responds with a success envelope carrying a
// human-readable message alongside the data.
func writeDataMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Status: statusSuccess, Data: data, Message: message})
}

// writeList responds with a success envelope wrapping a list plus its
// total in meta.
func writeList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, envelope{
		Status: statusSuccess,
		Data:   data,
		Meta:   &meta{Total: total},
	})
}

// writeError maps err onto the error envelope. The HTTP status comes
// from the error code's category; authentication failures additionally
// carry a WWW-Authenticate challenge. Internal causes are logged and
// never leave the process.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	taskErr := taskerr.FromError(err)
	status := taskErr.HTTPStatus()

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", taskErr.Code.String()),
			slog.String("error", taskErr.Error()))
	}

	writeJSON(w, status, envelope{
		Status:  statusError,
		Code:    taskErr.Code.String(),
		Message: taskErr.Message,
		Details: taskErr.Details,
	})
}
