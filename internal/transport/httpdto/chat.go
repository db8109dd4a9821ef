package httpdto

// SendMessageRequest is used for POST /api/messages. Either message or
// payload must be present.
type SendMessageRequest struct {
	ConversationID int64                  `json:"conversation_id" binding:"required"`
	Message        string                 `json:"message"`
	Type           string                 `json:"type"`
	Payload        map[string]interface{} `json:"payload"`
}

// ConversationListResponse wraps GET /api/conversations.
type ConversationListResponse[T any] struct {
	Success       bool   `json:"success"`
	Filter        string `json:"filter"`
	Conversations []T    `json:"conversations"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type SearchResponse[T any] struct {
	Results []T `json:"results"`
}
