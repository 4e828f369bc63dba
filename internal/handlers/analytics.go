package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/services"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Summary(ctx *gin.Context) {
	_, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	report, err := h.svc.Summary(orgID, role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Funnel(ctx *gin.Context) {
	_, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	report, err := h.svc.Funnel(orgID, role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}
