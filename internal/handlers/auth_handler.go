package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"illustraBack/internal/auth"
	"illustraBack/internal/models"
)

type AuthHandler struct {
	Gateway *auth.Gateway
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.Gateway.SignIn(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.SignOut(r.Context(), BearerToken(r)); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Gateway.Current(BearerToken(r))
	if !ok {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}
	writeJSON(w, http.StatusOK, id)
}
