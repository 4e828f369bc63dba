package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandler) List(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetUintQuery(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	if dealID == nil {
		respondBadRequest(ctx, "deal_id query parameter is required")
		return
	}

	opts := services.TaskListOptions{
		DealID:      *dealID,
		IncludeDone: ctx.Query("include_done") == "true",
	}

	if raw := ctx.Query("due_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid due_before")
			return
		}
		opts.DueBefore = &t
	}

	if raw := ctx.Query("due_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid due_after")
			return
		}
		opts.DueAfter = &t
	}

	opts.Limit, opts.Offset = utils.GetPagination(ctx)

	tasks, total, err := h.svc.List(orgID, opts)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, ListResponse[TaskResponse]{Items: items, Total: total})
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetUintQuery(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	if dealID == nil {
		respondBadRequest(ctx, "deal_id query parameter is required")
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	task, err := h.svc.Create(orgID, userID, role, *dealID, services.TaskInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid task ID")
		return
	}

	task, err := h.svc.Get(orgID, taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid task ID")
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	task, err := h.svc.Update(orgID, userID, role, taskID, services.TaskUpdate{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) MarkDone(ctx *gin.Context) {
	h.setDone(ctx, true)
}

func (h *TaskHandler) MarkUndone(ctx *gin.Context) {
	h.setDone(ctx, false)
}

func (h *TaskHandler) setDone(ctx *gin.Context, done bool) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid task ID")
		return
	}

	task, err := h.svc.SetDone(orgID, userID, role, taskID, done)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid task ID")
		return
	}

	if err := h.svc.Delete(orgID, userID, role, taskID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TaskHandler) OverdueCount(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetUintQuery(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	if dealID == nil {
		respondBadRequest(ctx, "deal_id query parameter is required")
		return
	}

	count, err := h.svc.OverdueCount(orgID, *dealID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deal_id": *dealID, "count": count})
}
