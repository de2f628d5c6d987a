package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/Simplici0/carte/internal/httpx"
	"github.com/Simplici0/carte/internal/log"
)

const sessionCookieName = "carte_session"

type contextKey string

const operatorKey contextKey = "operator"

// authService signs the operator name into a cookie. There are no accounts:
// any non-empty name opens a session.
type authService struct {
	sessionSecret []byte
}

func newAuthService(sessionSecret string) *authService {
	return &authService{sessionSecret: []byte(sessionSecret)}
}

func (a *authService) sign(payload string) []byte {
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func (a *authService) createSessionValue(operator string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(operator))
	return payload + "." + hex.EncodeToString(a.sign(payload))
}

func (a *authService) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, a.sign(payload)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}
	return string(decoded), true
}

func (a *authService) setSessionCookie(w http.ResponseWriter, operator string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(operator),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) operator(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return a.verifySessionValue(cookie.Value)
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, ok := s.auth.operator(r)
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), operatorKey, operator)))
	})
}

type loginRequest struct {
	Username string `json:"username"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "username is required")
		return
	}

	s.auth.setSessionCookie(w, username)
	log.Info(r.Context(), "operator logged in", "operator", username)
	httpx.JSON(w, http.StatusOK, map[string]string{"username": username})
}

func (s *server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
