package websocket

import (
	"context"
	"errors"

	"github.com/Jigden18/portal-backend/internal/events"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
)

// ChannelAuthorizer decides whether a user may subscribe to a private
// channel: their own user channel, or a conversation they take part in.
type ChannelAuthorizer struct {
	conversationRepo repository.ConversationRepository
}

func NewChannelAuthorizer(conversationRepo repository.ConversationRepository) *ChannelAuthorizer {
	return &ChannelAuthorizer{conversationRepo: conversationRepo}
}

func (a *ChannelAuthorizer) CanSubscribe(ctx context.Context, userID int64, channel string) (bool, error) {
	kind, id, ok := events.ParseChannel(channel)
	if !ok {
		return false, nil
	}

	switch kind {
	case events.ChannelUser:
		return id == userID, nil
	case events.ChannelConversation:
		conv, err := a.conversationRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, portal_errors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return conv.HasParticipant(userID), nil
	}
	return false, nil
}
