package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
)

const welcomeMessage = "Welcome to the Simple Auth API. Visit /docs for API documentation."

// maxBodyBytes bounds request bodies on the public routes.
const maxBodyBytes = 1 << 20

type handler struct {
	svc IdentityService
	log logging.Logger
}

func newHandler(svc IdentityService, log logging.Logger) *handler {
	return &handler{svc: svc, log: log}
}

func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (h *handler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body", common.ErrInvalidInput))
		return
	}

	pub, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pub)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login accepts either an OAuth2-style form (username, password) or the same
// fields as a JSON object.
func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			writeUnauthorized(w, detailBadLogin)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (*loginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req := &loginRequest{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body", common.ErrInvalidInput)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: malformed form body", common.ErrInvalidInput)
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrInvalidInput)
	}
	return req, nil
}

func (h *handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	if caller == nil {
		h.log.Error(r.Context(), "guarded route reached without caller", "path", r.URL.Path)
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}
	writeJSON(w, http.StatusOK, caller)
}
