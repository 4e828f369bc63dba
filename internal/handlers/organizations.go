package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type OrganizationHandler struct {
	svc *services.OrganizationService
}

func NewOrganizationHandler(svc *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

type UpdateOrganizationRequest struct {
	Name            *string `json:"name"`
	DefaultCurrency *string `json:"default_currency"`
}

type AddMemberRequest struct {
	Email string            `json:"email" binding:"required,email"`
	Role  models.MemberRole `json:"role" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role models.MemberRole `json:"role" binding:"required"`
}

func (h *OrganizationHandler) ListMine(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondUnauthenticated(ctx)
		return
	}

	memberships, err := h.svc.ListMine(userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MembershipResponse, 0, len(memberships))

	for _, member := range memberships {
		response = append(response, toMembershipResponse(member))
	}

	ctx.JSON(http.StatusOK, response)
}

// scope resolves the path organization and the caller's role in it.
func (h *OrganizationHandler) scope(ctx *gin.Context) (orgID uint, userID uint, role models.MemberRole, ok bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondUnauthenticated(ctx)
		return 0, 0, "", false
	}

	orgID, err = utils.GetIDParam(ctx, "org_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid organization ID")
		return 0, 0, "", false
	}

	role, err = h.svc.RequireMembership(orgID, userID)

	if err != nil {
		respondError(ctx, err)
		return 0, 0, "", false
	}

	return orgID, userID, role, true
}

func (h *OrganizationHandler) Get(ctx *gin.Context) {
	orgID, _, _, ok := h.scope(ctx)

	if !ok {
		return
	}

	org, err := h.svc.Get(orgID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toOrganizationResponse(org))
}

func (h *OrganizationHandler) Update(ctx *gin.Context) {
	orgID, _, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	var body UpdateOrganizationRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	org, err := h.svc.Update(orgID, role, services.OrganizationUpdate{
		Name:            body.Name,
		DefaultCurrency: body.DefaultCurrency,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toOrganizationResponse(org))
}

func (h *OrganizationHandler) Delete(ctx *gin.Context) {
	orgID, _, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	if err := h.svc.Delete(orgID, role); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *OrganizationHandler) ListMembers(ctx *gin.Context) {
	orgID, _, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	members, err := h.svc.ListMembers(orgID, role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MemberResponse, 0, len(members))

	for _, member := range members {
		response = append(response, toMemberResponse(member))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *OrganizationHandler) AddMember(ctx *gin.Context) {
	orgID, _, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	member, err := h.svc.AddMember(orgID, role, body.Email, body.Role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toMemberResponse(*member))
}

func (h *OrganizationHandler) UpdateMemberRole(ctx *gin.Context) {
	orgID, userID, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	targetUserID, err := utils.GetIDParam(ctx, "user_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid user ID")
		return
	}

	var body UpdateMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	member, err := h.svc.UpdateMemberRole(orgID, userID, role, targetUserID, body.Role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberResponse(*member))
}

func (h *OrganizationHandler) RemoveMember(ctx *gin.Context) {
	orgID, userID, role, ok := h.scope(ctx)

	if !ok {
		return
	}

	targetUserID, err := utils.GetIDParam(ctx, "user_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid user ID")
		return
	}

	if err := h.svc.RemoveMember(orgID, userID, role, targetUserID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
