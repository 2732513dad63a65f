package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	case code == errors.ErrCodeInvalidMidLanding, code == errors.ErrCodeCalculation:
		return http.StatusUnprocessableEntity
	}
	switch code {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidProfile, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
