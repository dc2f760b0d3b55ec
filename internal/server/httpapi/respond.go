package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freightdesk/presence/internal/common"
)

// errorResponse is the JSON body for every non-2xx reply. Clients branch on
// Kind, a closed enumeration, never on the human-readable message.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error kinds returned to clients.
const (
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindUnavailable  = "unavailable"
	KindInternal     = "internal"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error onto a status code and error kind.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: KindValidation, Message: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: KindUnauthorized, Message: "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Kind: KindNotFound, Message: "not found"})
	case errors.Is(err, common.ErrorUnavailable):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: KindUnavailable, Message: "storage unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: KindInternal, Message: "internal error"})
	}
}
