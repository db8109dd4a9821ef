package handler

import (
	"errors"
	"net/http"

	"github.com/Jigden18/portal-backend/internal/transport/httpdto"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto distinct HTTP statuses and
// machine-checkable codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, portal_errors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, portal_errors.ErrInvalidState):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "INVALID_STATE"))
	case errors.Is(err, portal_errors.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_OPERATION"))
	case errors.Is(err, portal_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, portal_errors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse(err.Error(), "VALIDATION_FAILED"))
	case errors.Is(err, portal_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "ALREADY_EXISTS"))
	case errors.Is(err, portal_errors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(err.Error(), "RATE_LIMITED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid "+name, "INVALID_REQUEST"))
		return 0, false
	}
	return id, true
}

func authedUser(c *gin.Context) (int64, bool) {
	userID, err := userIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return 0, false
	}
	return userID, true
}
