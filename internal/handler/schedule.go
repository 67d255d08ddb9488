package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/dukerupert/homehub/internal/websocket"
)

type ScheduleHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewScheduleHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, hub: hub, logger: logger}
}

// Week returns all seven days, Monday first, each with its entries.
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	week, err := h.svc.Week(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
		return
	}

	entries, err := h.svc.ByDay(r.Context(), auth.HouseholdID(r.Context()), day)
	if err != nil {
		writeError(w, h.logger, "failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ScheduledInput
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	entry, err := h.svc.AddScheduled(r.Context(), auth.HouseholdID(r.Context()), req)
	if err != nil {
		writeError(w, h.logger, "failed to add scheduled task", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("scheduled_task", "created", entry.ID, map[string]any{"day_of_week": entry.DayOfWeek}))
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.RemoveScheduled(r.Context(), auth.HouseholdID(r.Context()), id); err != nil {
		writeError(w, h.logger, "failed to remove scheduled task", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("scheduled_task", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
