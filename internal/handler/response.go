// Package handler contains the HTTP layer: request decoding, response
// encoding, and the mapping from application errors to status codes.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-manager/internal/apperror"
)

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an error to its HTTP status and envelope body. Errors
// without a recognized shape degrade to a generic INTERNAL_ERROR; their
// detail goes to the server log only, never into the response.
func writeError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	appErr := apperror.From(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		cause := appErr.Message
		if appErr.Cause != nil {
			cause = appErr.Cause.Error()
		}
		logger.Error("request failed",
			slog.String("code", appErr.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", cause),
		)
	}

	writeJSON(w, appErr.HTTPStatus, appErr.Envelope())
}
