package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ActivityHandler) ListForDeal(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetIDParam(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid deal ID")
		return
	}

	opts := services.ActivityListOptions{}

	if raw := ctx.Query("type"); raw != "" {
		activityType := models.ActivityType(raw)
		opts.Type = &activityType
	}

	opts.Limit, opts.Offset = utils.GetPagination(ctx)

	activities, total, err := h.svc.ListForDeal(orgID, dealID, opts)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]ActivityResponse, 0, len(activities))

	for i := range activities {
		items = append(items, toActivityResponse(&activities[i]))
	}

	ctx.JSON(http.StatusOK, ListResponse[ActivityResponse]{Items: items, Total: total})
}

func (h *ActivityHandler) CreateComment(ctx *gin.Context) {
	userID, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetIDParam(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid deal ID")
		return
	}

	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	activity, err := h.svc.CreateComment(orgID, userID, dealID, body.Text)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toActivityResponse(activity))
}
