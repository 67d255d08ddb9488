package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/dukerupert/homehub/internal/websocket"
)

// HouseholdHandler serves the caller's profile, household and its
// aggregate views.
type HouseholdHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewHouseholdHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{svc: svc, hub: hub, logger: logger}
}

func (h *HouseholdHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HouseholdHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch service.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		badJSON(w)
		return
	}

	p, err := h.svc.UpdateSettings(r.Context(), auth.UserID(r.Context()), patch)
	if err != nil {
		writeError(w, h.logger, "failed to update settings", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("member", "updated", p.ID, nil))
	writeJSON(w, http.StatusOK, p)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	hh, err := h.svc.Household(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to get household", err)
		return
	}
	writeJSON(w, http.StatusOK, hh)
}

func (h *HouseholdHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	hh, err := h.svc.RenameHousehold(r.Context(), auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, h.logger, "failed to rename household", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("household", "updated", hh.ID, nil))
	writeJSON(w, http.StatusOK, hh)
}

func (h *HouseholdHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Members(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list members", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *HouseholdHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.svc.Leave(r.Context(), userID); err != nil {
		writeError(w, h.logger, "failed to leave household", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("member", "left", userID, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *HouseholdHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Leaderboard(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to build leaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *HouseholdHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
