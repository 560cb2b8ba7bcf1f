package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	apperrors "github.com/symbolscape/symbolscape/pkg/errors"
)

// errorResponse is the JSON error payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "err", err)
	}

	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	})
}
