package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/internal/middleware"
	"github.com/pipedesk/pipedesk/internal/models"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(middleware.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetOrgScope returns the organization and role resolved by
// OrgContextMiddleware.
func GetOrgScope(ctx *gin.Context) (uint, models.MemberRole, error) {
	orgValue, exists := ctx.Get(middleware.ContextOrgKey)

	if !exists {
		return 0, "", fmt.Errorf("organization context not resolved")
	}

	roleValue, exists := ctx.Get(middleware.ContextRoleKey)

	if !exists {
		return 0, "", fmt.Errorf("organization context not resolved")
	}

	orgID, ok := orgValue.(uint)

	if !ok {
		return 0, "", fmt.Errorf("invalid organization ID in context")
	}

	role, ok := roleValue.(models.MemberRole)

	if !ok {
		return 0, "", fmt.Errorf("invalid role in context")
	}

	return orgID, role, nil
}

func GetRequestID(ctx *gin.Context) string {
	if id, exists := ctx.Get(middleware.ContextRequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
