package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskstream/backend/api/transport"
	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/pkg/httpcontext"
	"github.com/taskstream/backend/usecase/lifecycle"
)

type TaskHandler struct {
	baseHandler
	engine *lifecycle.Engine
}

func NewTaskHandler(engine *lifecycle.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Derived task view
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	filter, err := lifecycle.ParseFilter(string(ctx.QueryArgs().Peek("filter")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.engine.SetFilter(filter)
	h.engine.SetSearch(string(ctx.QueryArgs().Peek("q")))

	h.respondSuccess(ctx, http.StatusOK, h.engine.View())
}

// @Summary Submit a new task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) SubmitTask(ctx *fasthttp.RequestCtx) {
	input, ok := h.parseSubmit(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Submit(stdCtx, input); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, nil)
}

// @Summary Edit an existing task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	input, ok := h.parseSubmit(ctx)
	if !ok {
		return
	}

	if _, err := h.engine.BeginEdit(id); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Submit(stdCtx, input); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleCompleted(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.ToggleCompleted(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Toggle priority
// @Tags tasks
// @Router /api/v1/tasks/{id}/priority [post]
func (h *TaskHandler) TogglePriority(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.TogglePriority(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *TaskHandler) parseSubmit(ctx *fasthttp.RequestCtx) (lifecycle.SubmitInput, bool) {
	var req transport.TaskSubmitRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return lifecycle.SubmitInput{}, false
	}

	input := lifecycle.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid due date", nil))
			return lifecycle.SubmitInput{}, false
		}
		input.DueAt = &due
	}
	return input, true
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return "", false
	}
	return id, true
}
