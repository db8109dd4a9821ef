package handler

import (
	"net/http"

	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type CallHandler struct {
	service *services.CallService
}

func NewCallHandler(service *services.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// StartCall serves POST /api/conversations/:id/call/start.
func (h *CallHandler) StartCall(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.StartCall(c.Request.Context(), userID, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(session))
}

// EndCall serves POST /api/conversations/:id/call/end.
func (h *CallHandler) EndCall(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.EndCall(c.Request.Context(), userID, conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Video call ended"))
}

// GetInterview serves GET /api/applications/:id/interview.
func (h *CallHandler) GetInterview(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetInterview(c.Request.Context(), userID, applicationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(session))
}
