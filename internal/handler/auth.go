package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/middleware"
	"github.com/dukerupert/homehub/internal/model"
	"github.com/dukerupert/homehub/internal/service"
)

type AuthHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewAuthHandler(svc *service.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Profile   model.Profile `json:"profile"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	p, err := h.svc.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, h.logger, "failed to sign up", err)
		return
	}

	sess, err := h.svc.StartSession(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, "failed to start session", err)
		return
	}

	setSessionCookie(w, r, sess)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, Profile: *p})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	sess, p, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, "failed to sign in", err)
		return
	}

	h.logger.Info("user logged in", "user_id", p.ID)
	setSessionCookie(w, r, sess)
	writeJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, Profile: *p})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if err := h.svc.Logout(r.Context(), ac.Token); err != nil {
		writeError(w, h.logger, "failed to sign out", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
