package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/video-analysis-service/internal/delivery/http/request"
	"github.com/user/video-analysis-service/internal/delivery/http/response"
	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
	"github.com/user/video-analysis-service/internal/usecase"
)

type Handler struct {
	taskManager usecase.TaskManager
}

func NewHandler(taskManager usecase.TaskManager) *Handler {
	return &Handler{
		taskManager: taskManager,
	}
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req request.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		h.writeJSONError(w, "URL is required", http.StatusBadRequest)
		return
	}

	taskID, err := h.taskManager.Submit(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnsupportedURL), errors.Is(err, usecase.ErrUnreachableURL):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("Failed to submit URL", "url", req.URL, "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.AnalyzeResponse{
		TaskID:  taskID,
		Status:  string(entity.StatusQueued),
		Message: "Analysis started. Poll /result/{task_id} for progress.",
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := h.taskManager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			h.writeJSONError(w, "Task not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to read task", "task_id", id, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := response.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
