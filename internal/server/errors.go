package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	perrors "github.com/matzehuels/stackplot/pkg/errors"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

// toAPIError maps a pipeline error to a response. Caller input errors are
// 400s; a conversion the host cannot perform is a 501.
func toAPIError(err error) *APIError {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return &APIError{Status: http.StatusRequestEntityTooLarge, Code: "TOO_LARGE", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Status: http.StatusGatewayTimeout, Code: "TIMEOUT", Message: "render timed out"}
	case perrors.IsUserError(err):
		return &APIError{Status: http.StatusBadRequest, Code: string(perrors.GetCode(err)), Message: err.Error()}
	case perrors.Is(err, perrors.ErrCodeUnsupported):
		return &APIError{Status: http.StatusNotImplemented, Code: string(perrors.ErrCodeUnsupported), Message: perrors.UserMessage(err)}
	}
	return &APIError{Status: http.StatusInternalServerError, Code: string(perrors.ErrCodeInternal), Message: "an unexpected error occurred"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	apiErr.RequestID = requestIDFrom(r.Context())
	writeJSON(w, apiErr.Status, apiErr)
}
