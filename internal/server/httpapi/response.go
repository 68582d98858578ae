package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

const (
	detailNotAuthenticated   = "Not authenticated"
	detailInvalidCredentials = "Could not validate credentials"
	detailBadLogin           = "Incorrect username or password"
	detailInactive           = "Inactive user"
	detailUsernameTaken      = "Username already registered"
	detailEmailTaken         = "Email already registered"
	detailInternal           = "Internal server error"
)

type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeDetail(w, http.StatusUnauthorized, detail)
}

// writeError maps the service error taxonomy onto status codes. Internal
// details never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		writeUnauthorized(w, detailNotAuthenticated)
	case errors.Is(err, common.ErrInvalidCredential):
		writeUnauthorized(w, detailInvalidCredentials)
	case errors.Is(err, common.ErrInactive):
		writeDetail(w, http.StatusBadRequest, detailInactive)
	case errors.Is(err, common.ErrDuplicateUsername):
		writeDetail(w, http.StatusBadRequest, detailUsernameTaken)
	case errors.Is(err, common.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, detailEmailTaken)
	case errors.Is(err, common.ErrInvalidInput):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, detailInternal)
	}
}
