package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type DealHandler struct {
	svc *services.DealService
}

func NewDealHandler(svc *services.DealService) *DealHandler {
	return &DealHandler{svc: svc}
}

type CreateDealRequest struct {
	ContactID uint            `json:"contact_id" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

type UpdateDealRequest struct {
	Title    *string            `json:"title"`
	Amount   *decimal.Decimal   `json:"amount"`
	Currency *string            `json:"currency"`
	Status   *models.DealStatus `json:"status"`
	Stage    *models.DealStage  `json:"stage"`
}

func (h *DealHandler) List(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	opts, ok := h.parseListOptions(ctx)

	if !ok {
		return
	}

	limit, offset := utils.GetPagination(ctx)
	opts.Limit = limit
	opts.Offset = offset

	deals, total, err := h.svc.List(orgID, userID, role, opts)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]DealResponse, 0, len(deals))

	for i := range deals {
		items = append(items, toDealResponse(&deals[i]))
	}

	ctx.JSON(http.StatusOK, ListResponse[DealResponse]{Items: items, Total: total})
}

func (h *DealHandler) parseListOptions(ctx *gin.Context) (services.DealListOptions, bool) {
	var opts services.DealListOptions

	ownerID, err := utils.GetUintQuery(ctx, "owner_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return opts, false
	}

	contactID, err := utils.GetUintQuery(ctx, "contact_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return opts, false
	}

	opts.OwnerID = ownerID
	opts.ContactID = contactID
	opts.Search = ctx.Query("search")

	// statuses is a comma-separated set, e.g. ?statuses=new,in_progress
	if raw := ctx.Query("statuses"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.DealStatus(strings.TrimSpace(part))
			if !status.Valid() {
				respondBadRequest(ctx, "Invalid status filter: "+string(status))
				return opts, false
			}
			opts.Statuses = append(opts.Statuses, status)
		}
	}

	if raw := ctx.Query("stage"); raw != "" {
		stage := models.DealStage(raw)
		if !stage.Valid() {
			respondBadRequest(ctx, "Invalid stage filter: "+raw)
			return opts, false
		}
		opts.Stage = &stage
	}

	if raw := ctx.Query("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid min_amount")
			return opts, false
		}
		opts.MinAmount = &amount
	}

	if raw := ctx.Query("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid max_amount")
			return opts, false
		}
		opts.MaxAmount = &amount
	}

	opts.SortBy = ctx.DefaultQuery("sort", "created_at")
	opts.SortDesc = ctx.DefaultQuery("order", "desc") == "desc"

	return opts, true
}

func (h *DealHandler) Create(ctx *gin.Context) {
	userID, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	var body CreateDealRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	deal, err := h.svc.Create(orgID, userID, services.DealInput{
		ContactID: body.ContactID,
		Title:     body.Title,
		Amount:    body.Amount,
		Currency:  body.Currency,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toDealResponse(deal))
}

func (h *DealHandler) Get(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetIDParam(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid deal ID")
		return
	}

	deal, err := h.svc.Get(orgID, dealID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toDealResponse(deal))
}

func (h *DealHandler) Update(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetIDParam(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid deal ID")
		return
	}

	var body UpdateDealRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	deal, err := h.svc.Update(orgID, userID, role, dealID, services.DealUpdate{
		Title:    body.Title,
		Amount:   body.Amount,
		Currency: body.Currency,
		Status:   body.Status,
		Stage:    body.Stage,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toDealResponse(deal))
}

func (h *DealHandler) Delete(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	dealID, err := utils.GetIDParam(ctx, "deal_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid deal ID")
		return
	}

	if err := h.svc.Delete(orgID, userID, role, dealID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
