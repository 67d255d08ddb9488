package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/dukerupert/homehub/internal/websocket"
)

type TaskHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTaskHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, hub: hub, logger: logger}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(r.Context(), auth.HouseholdID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "failed to list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.TaskInput
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	task, err := h.svc.CreateTask(r.Context(), auth.HouseholdID(r.Context()), req)
	if err != nil {
		writeError(w, h.logger, "failed to create task", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("task", "created", task.ID, nil))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.TaskInput
	if err := decodeJSON(r, &req); err != nil {
		badJSON(w)
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), auth.HouseholdID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, "failed to update task", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("task", "updated", task.ID, nil))
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteTask(r.Context(), auth.HouseholdID(r.Context()), id); err != nil {
		writeError(w, h.logger, "failed to delete task", err)
		return
	}

	broadcast(h.hub, r, websocket.NewMessage("task", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks a task done and credits its assignee. Completing an
// already completed task succeeds without a second credit.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CompleteTask(r.Context(), auth.HouseholdID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "failed to complete task", err)
		return
	}

	var extra map[string]any
	if c.Credit != nil {
		extra = map[string]any{
			"profile_id": c.Credit.ProfileID,
			"points":     c.Credit.Points,
			"balance":    c.Credit.Balance,
		}
	}
	broadcast(h.hub, r, websocket.NewMessage("task", "completed", c.Task.ID, extra))
	writeJSON(w, http.StatusOK, c)
}
