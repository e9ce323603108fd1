package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/quizchain-api/internal/api/shared"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/phrazzld/quizchain-api/internal/service"
)

// TaskHandler serves the quiz chain endpoints.
type TaskHandler struct {
	taskService service.TaskService
	links       LinkBuilder
	finalLink   string
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. finalLink is returned to clients
// that answer the last task of the chain correctly.
func NewTaskHandler(
	taskService service.TaskService,
	links LinkBuilder,
	finalLink string,
	logger *slog.Logger,
) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		links:       links,
		finalLink:   finalLink,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Start handles GET /start. It creates the first task of a fresh chain and
// redirects the client to it.
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := h.taskService.Start(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	location := h.links.TaskLink(r, id)
	log.Debug("quiz started", slog.String("task_id", id))

	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusFound)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := getTaskID(r)
	if !ok {
		shared.RespondWithStatus(w, r, http.StatusNotFound)
		return
	}

	view, err := h.taskService.Fetch(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(view, h.links.TaskLink(r, view.ID)))
}

// SubmitAnswer handles POST /tasks/{id}. A wrong answer is a normal 200
// response with checkResult false; the client may retry while the task lives.
func (h *TaskHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := getTaskID(r)
	if !ok {
		shared.RespondWithStatus(w, r, http.StatusNotFound)
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
				GetSafeErrorMessage(err), err, shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("invalid answer submission", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := h.taskService.Submit(r.Context(), id, *req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := CheckResultResponse{CheckResult: outcome.Accepted}
	switch {
	case !outcome.Accepted:
	case outcome.Finished:
		resp.NextTaskLink = h.finalLink
		log.Info("quiz chain finished", slog.String("task_id", id))
	default:
		resp.NextTaskLink = h.links.TaskLink(r, outcome.NextTaskID)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Preflight answers CORS preflight requests. The CORS middleware sets the headers.
func (h *TaskHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
