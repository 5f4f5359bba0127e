package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/linkshare/internal/common"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "malformed request body")
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{Message: "user registered successfully", UserID: u.ID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "malformed request body")
		return
	}

	tokens, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			WriteError(w, http.StatusBadRequest, CodeInvalidCredentials, "invalid username or password")
			return
		}
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     req.Username,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "refreshToken is required")
		return
	}

	tokens, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrRefreshTokenExpired) {
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired refresh token")
			return
		}
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{Token: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}
