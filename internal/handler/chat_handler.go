package handler

import (
	"context"
	"net/http"

	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// ListConversations serves GET /api/conversations?filter=all|archived|unread.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	filter := c.DefaultQuery("filter", services.FilterAll)

	items, err := h.service.ListConversations(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ConversationListResponse[services.ConversationSummary]{
		Success:       true,
		Filter:        filter,
		Conversations: items,
	})
}

// StartConversation serves POST /api/conversations/:id, where id is
// the recipient's user id.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	recipientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.service.StartConversation(c.Request.Context(), userID, recipientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(conv))
}

// GetMessages serves GET /api/conversations/:id/messages. Fetching
// transitions unread counter-party messages to read.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), userID, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(messages))
}

// SendMessage serves POST /api/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), userID, services.SendMessageInput{
		ConversationID: req.ConversationID,
		Body:           req.Message,
		Kind:           chat.MessageKind(req.Type),
		Payload:        req.Payload,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(msg))
}

func (h *ChatHandler) Archive(c *gin.Context) {
	h.mutateConversation(c, h.service.ArchiveConversation, "Conversation archived")
}

func (h *ChatHandler) Unarchive(c *gin.Context) {
	h.mutateConversation(c, h.service.UnarchiveConversation, "Conversation unarchived")
}

func (h *ChatHandler) MarkUnread(c *gin.Context) {
	h.mutateConversation(c, h.service.MarkConversationUnread, "Conversation marked as unread")
}

// DeleteConversation serves DELETE /api/conversations/:id. Hides every
// message on the caller's side only.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	h.mutateConversation(c, h.service.DeleteConversation, "Conversation deleted for you")
}

// DeleteMessageForMe serves DELETE /api/messages/:id.
func (h *ChatHandler) DeleteMessageForMe(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteMessageForMe(c.Request.Context(), userID, messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Message deleted for you"))
}

// DeleteMessageForEveryone serves DELETE /api/messages/:id/everyone.
func (h *ChatHandler) DeleteMessageForEveryone(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteMessageForEveryone(c.Request.Context(), userID, messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Message deleted for everyone"))
}

// UnreadCount serves GET /api/chat/unread-count.
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadCountResponse{UnreadCount: count}))
}

func (h *ChatHandler) mutateConversation(c *gin.Context, op func(ctx context.Context, userID, conversationID int64) error, okMessage string) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), userID, conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(okMessage))
}
