package handlers

import (
	"net/http"
	"time"

	"taskapi/internal/handlers/dto"
	"taskapi/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	pingMessage = "pong"
	testMessage = "This is a test, this is only a test..."
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) Ping(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, dto.GenericResponse{Status: dto.StatusSuccess, Message: pingMessage})
}

func (h *TaskHandler) Test(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, dto.GenericResponse{Status: dto.StatusSuccess, Message: testMessage})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query, err := parseListQuery(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), query.Page, query.Limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Debug("HTTP_OUT: tasks listed",
		zap.Int("results", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: unsupported content type",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := decodeJSON(w, r, &request); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		handleServiceError(w, r, err)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), *request.Title, *request.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Debug("HTTP_OUT: task created",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.NewSingleTaskResponse(created))
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	found, err := h.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Debug("HTTP_OUT: task fetched",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.NewSingleTaskResponse(found))
}

func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: unsupported content type",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.UpdateTaskRequest
	if err := decodeJSON(w, r, &request); err != nil {
		handleServiceError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.TaskService.UpdateTask(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Debug("HTTP_OUT: task updated",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.NewSingleTaskResponse(updated))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Debug("HTTP_OUT: task deleted",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// SaveFile is the file upload placeholder; the service always rejects it.
func (h *TaskHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := h.TaskService.SaveFile(r.Context()); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
