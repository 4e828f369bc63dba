package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

type UpdateContactRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// requestScope pulls the authenticated user and the resolved organization
// scope out of the context. Both middlewares have already run on these
// routes.
func requestScope(ctx *gin.Context) (userID, orgID uint, role models.MemberRole, ok bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondUnauthenticated(ctx)
		return 0, 0, "", false
	}

	orgID, role, err = utils.GetOrgScope(ctx)

	if err != nil {
		respondUnauthenticated(ctx)
		return 0, 0, "", false
	}

	return userID, orgID, role, true
}

func (h *ContactHandler) List(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	ownerID, err := utils.GetUintQuery(ctx, "owner_id")

	if err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	limit, offset := utils.GetPagination(ctx)

	contacts, total, err := h.svc.List(orgID, userID, role, services.ContactListOptions{
		OwnerID: ownerID,
		Search:  ctx.Query("search"),
		Limit:   limit,
		Offset:  offset,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]ContactResponse, 0, len(contacts))

	for i := range contacts {
		items = append(items, toContactResponse(&contacts[i]))
	}

	ctx.JSON(http.StatusOK, ListResponse[ContactResponse]{Items: items, Total: total})
}

func (h *ContactHandler) Create(ctx *gin.Context) {
	userID, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	var body CreateContactRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	contact, err := h.svc.Create(orgID, userID, services.ContactInput{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toContactResponse(contact))
}

func (h *ContactHandler) Get(ctx *gin.Context) {
	_, orgID, _, ok := requestScope(ctx)

	if !ok {
		return
	}

	contactID, err := utils.GetIDParam(ctx, "contact_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid contact ID")
		return
	}

	contact, err := h.svc.Get(orgID, contactID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) Update(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	contactID, err := utils.GetIDParam(ctx, "contact_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid contact ID")
		return
	}

	var body UpdateContactRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	contact, err := h.svc.Update(orgID, userID, role, contactID, services.ContactUpdate{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) Delete(ctx *gin.Context) {
	userID, orgID, role, ok := requestScope(ctx)

	if !ok {
		return
	}

	contactID, err := utils.GetIDParam(ctx, "contact_id")

	if err != nil {
		respondBadRequest(ctx, "Invalid contact ID")
		return
	}

	if err := h.svc.Delete(orgID, userID, role, contactID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
