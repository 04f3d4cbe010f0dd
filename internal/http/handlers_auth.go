package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kakeibo/internal/auth"
)

const msgLoginFailed = "ログインに失敗しました"

type loginRequest struct {
	Passcode string `json:"passcode"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Failed to decode login body", "error", err)
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Passcode)
	switch {
	case errors.Is(err, auth.ErrPasscodeFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrWrongPasscode):
		writeError(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		slog.ErrorContext(r.Context(), "Login failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
	default:
		writeJSON(w, http.StatusOK, successEnvelope{Success: true, Session: session})
	}
}
