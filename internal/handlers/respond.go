package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/utils"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation:      http.StatusBadRequest,
	apperrors.KindUnauthenticated: http.StatusUnauthorized,
	apperrors.KindForbidden:       http.StatusForbidden,
	apperrors.KindNotFound:        http.StatusNotFound,
	apperrors.KindConflict:        http.StatusConflict,
	apperrors.KindInternal:        http.StatusInternalServerError,
}

// respondError maps a service error onto the uniform envelope. The handler
// layer does no business interpretation here, only kind → status mapping;
// unclassified errors are logged with a correlation id and never leak
// detail to the client.
func respondError(ctx *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok && appErr.Kind != apperrors.KindInternal {
		body := gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		}

		if appErr.Field != "" {
			body["fields"] = gin.H{appErr.Field: appErr.Message}
		}

		ctx.JSON(kindStatus[appErr.Kind], body)
		return
	}

	errorID := utils.GetRequestID(ctx)

	if errorID == "" {
		errorID = uuid.NewString()
	}

	log.Printf("[ERROR %s] %s %s: %v", errorID, ctx.Request.Method, ctx.Request.URL.Path, err)

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"code":     "INTERNAL_ERROR",
		"message":  "An internal server error occurred",
		"error_id": errorID,
	})
}

func respondBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    "VALIDATION_ERROR",
		"message": message,
	})
}

func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{
		"code":    "AUTHENTICATION_FAILED",
		"message": "User not authenticated",
	})
}
