package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/services"
	"github.com/pipedesk/pipedesk/internal/utils"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	OrganizationName string `json:"organization_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	user, org, tokens, err := h.svc.Register(body.Name, body.Email, body.Password, body.OrganizationName)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":         toUserResponse(user),
		"organization": toOrganizationResponse(org),
		"tokens":       tokens,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	user, memberships, tokens, err := h.svc.Login(body.Email, body.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	organizations := make([]MembershipResponse, 0, len(memberships))

	for _, member := range memberships {
		organizations = append(organizations, toMembershipResponse(member))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"organizations": organizations,
		"tokens":        tokens,
	})
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var body RefreshRequest

	if err := ctx.BindJSON(&body); err != nil {
		respondBadRequest(ctx, "Invalid request")
		return
	}

	tokens, err := h.svc.Refresh(body.RefreshToken)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondUnauthenticated(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}
