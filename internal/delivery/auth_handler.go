package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

type AuthHandler struct {
	auth ports.AuthService
	log  *logger.ZapLogger
}

func NewAuthHandler(auth ports.AuthService, log *logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if err := h.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			writeError(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, shared.ErrUserAlreadyExists):
			writeError(w, http.StatusConflict, "Username already exists")
		default:
			writeError(w, http.StatusInternalServerError, "Database operation failed")
		}
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "user registered",
		Fields:  map[string]any{"username": req.Username},
	})

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			writeError(w, http.StatusBadRequest, "Username and password are required")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "login success",
		Fields:  map[string]any{"username": req.Username},
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}

// Logout exists for symmetry with the original flow; tokens are stateless,
// the client just drops its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
