package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jigden18/portal-backend/internal/events"
	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"
	"github.com/Jigden18/portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// subscribeFrame is the only inbound frame clients send: channel
// subscription management.
type subscribeFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type Handler struct {
	auth       *services.AuthService
	hub        *Hub
	authorizer *ChannelAuthorizer
	log        *logger.Logger
}

func NewHandler(auth *services.AuthService, hub *Hub, authorizer *ChannelAuthorizer, log *logger.Logger) *Handler {
	return &Handler{auth: auth, hub: hub, authorizer: authorizer, log: log}
}

// Connect serves GET /ws. The bearer token rides in the token query
// parameter since browsers cannot set headers on websocket upgrades.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	userID, err := h.auth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	// Every connection implicitly joins its own user channel.
	h.hub.Subscribe(client, events.UserChannel(userID))

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		h.handleFrame(c.Request.Context(), client, data)
	}

	h.hub.Unregister(client)
}

func (h *Handler) handleFrame(ctx context.Context, client *Client, data []byte) {
	var frame subscribeFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return
	}

	switch frame.Action {
	case "subscribe":
		allowed, err := h.authorizer.CanSubscribe(ctx, client.UserID, frame.Channel)
		if err != nil {
			h.log.Warnf("authorize %s for user %d: %v", frame.Channel, client.UserID, err)
			return
		}
		if allowed {
			h.hub.Subscribe(client, frame.Channel)
		}
	case "unsubscribe":
		h.hub.Unsubscribe(client, frame.Channel)
	}
}
