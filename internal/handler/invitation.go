package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/model"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/dukerupert/homehub/internal/websocket"
)

type InvitationHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewInvitationHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *InvitationHandler {
	return &InvitationHandler{svc: svc, hub: hub, logger: logger}
}

type invitationsResponse struct {
	Received []model.Invitation `json:"received"`
	Sent     []model.Invitation `json:"sent"`
}

// List returns pending invitations addressed to the caller and every
// invitation sent into the caller's household.
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	received, err := h.svc.PendingInvitations(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list invitations", err)
		return
	}
	sent, err := h.svc.SentInvitations(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list invitations", err)
		return
	}
	writeJSON(w, http.StatusOK, invitationsResponse{Received: received, Sent: sent})
}

// Create invites an email address into the caller's household. If the
// invitation is stored but the email is not sent, it responds 202.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	inv, err := h.svc.Invite(r.Context(), auth.UserID(r.Context()), req.Email)
	switch {
	case errors.Is(err, service.ErrPartialFailure) && inv != nil:
		h.logger.Warn("invitation email not sent", "invitation_id", inv.ID)
		broadcast(h.hub, r, websocket.NewMessage("invitation", "created", inv.ID, nil))
		writeJSON(w, http.StatusAccepted, inv)
		return
	case err != nil:
		writeError(w, h.logger, "failed to send invitation", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("invitation", "created", inv.ID, nil))
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	inv, err := h.svc.Accept(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, h.logger, "failed to accept invitation", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(inv.HouseholdID, websocket.NewMessage("member", "joined", userID, nil))
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvitationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Reject(r.Context(), r.PathValue("id"), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to reject invitation", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(inv.HouseholdID, websocket.NewMessage("invitation", "rejected", inv.ID, nil))
	}
	writeJSON(w, http.StatusOK, inv)
}
