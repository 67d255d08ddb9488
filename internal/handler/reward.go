package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/dukerupert/homehub/internal/websocket"
)

type RewardHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRewardHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{svc: svc, hub: hub, logger: logger}
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.svc.ListRewards(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list rewards", err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RewardInput
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	reward, err := h.svc.CreateReward(r.Context(), auth.HouseholdID(r.Context()), req)
	if err != nil {
		writeError(w, h.logger, "failed to create reward", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("reward", "created", reward.ID, nil))
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteReward(r.Context(), auth.HouseholdID(r.Context()), id); err != nil {
		writeError(w, h.logger, "failed to delete reward", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("reward", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Redeem spends the caller's points on the reward.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	redemption, err := h.svc.Redeem(r.Context(), auth.HouseholdID(r.Context()), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, h.logger, "failed to redeem reward", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("reward", "redeemed", redemption.Entry.RewardID, map[string]any{
		"profile_id": userID,
		"balance":    redemption.Balance,
	}))
	writeJSON(w, http.StatusCreated, redemption)
}

func (h *RewardHandler) Redeemed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListRedeemed(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list redeemed rewards", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
