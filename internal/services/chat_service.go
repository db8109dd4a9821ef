package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain"
	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/events"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
)

const MaxMessageLength = 5000

// Conversation list filters.
const (
	FilterAll      = "all"
	FilterArchived = "archived"
	FilterUnread   = "unread"
)

type ChatService struct {
	convRepo    repository.ConversationRepository
	messageRepo repository.MessageRepository
	identity    *IdentityService
	notifier    *Notifier
}

func NewChatService(convRepo repository.ConversationRepository, messageRepo repository.MessageRepository, identity *IdentityService, notifier *Notifier) *ChatService {
	return &ChatService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		identity:    identity,
		notifier:    notifier,
	}
}

type SendMessageInput struct {
	ConversationID int64
	Body           string
	Kind           chat.MessageKind
	Payload        domain.JSONMap
}

type MessagePreview struct {
	ID        int64            `json:"id"`
	Body      string           `json:"message"`
	Kind      chat.MessageKind `json:"type"`
	SenderID  int64            `json:"sender_id"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at"`
}

type MessageView struct {
	ID             int64            `json:"id"`
	ConversationID int64            `json:"conversation_id"`
	Body           string           `json:"message"`
	Kind           chat.MessageKind `json:"type"`
	Payload        domain.JSONMap   `json:"payload,omitempty"`
	Sender         DisplayIdentity  `json:"sender"`
	CreatedAt      time.Time        `json:"created_at"`
	ReadAt         *time.Time       `json:"read_at"`
}

type ConversationSummary struct {
	ID          int64           `json:"id"`
	OtherUser   DisplayIdentity `json:"other_user"`
	IsArchived  bool            `json:"is_archived"`
	UnreadCount int64           `json:"unread_count"`
	LastMessage *MessagePreview `json:"last_message"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type StartedConversation struct {
	ID        int64           `json:"id"`
	OtherUser DisplayIdentity `json:"other_user"`
}

// MessageDeletedPayload is broadcast on delete-for-everyone. It carries
// ids only, never the original body.
type MessageDeletedPayload struct {
	MessageID      int64     `json:"message_id"`
	ConversationID int64     `json:"conversation_id"`
	DeleterID      int64     `json:"deleter_id"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// Resolve normalizes a user pair to its single conversation record,
// creating it on first contact. (x,y) and (y,x) always resolve to the
// same row; x == y is rejected.
func (s *ChatService) Resolve(ctx context.Context, userX, userY int64) (chat.Conversation, error) {
	if userX == userY {
		return chat.Conversation{}, portal_errors.ErrInvalidOperation
	}
	u1, u2 := chat.OrderPair(userX, userY)
	return s.convRepo.FindOrCreate(ctx, u1, u2)
}

// StartConversation resolves (actor, recipient) and returns the
// conversation with the counter-party's display identity.
func (s *ChatService) StartConversation(ctx context.Context, actorID, recipientID int64) (StartedConversation, error) {
	conv, err := s.Resolve(ctx, actorID, recipientID)
	if err != nil {
		return StartedConversation{}, err
	}
	other, err := s.identity.Resolve(ctx, conv.OtherParticipant(actorID))
	if err != nil {
		return StartedConversation{}, err
	}
	return StartedConversation{ID: conv.ID, OtherUser: other}, nil
}

// ListConversations returns the viewer's conversation list for one of
// the three filters. A conversation is listed only when it has at least
// one message the viewer can still see.
func (s *ChatService) ListConversations(ctx context.Context, userID int64, filter string) ([]ConversationSummary, error) {
	switch filter {
	case "":
		filter = FilterAll
	case FilterAll, FilterArchived, FilterUnread:
	default:
		return nil, portal_errors.ErrValidation
	}

	convs, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for i := range convs {
		conv := convs[i]
		side := conv.SideOf(userID)

		visible, err := s.messageRepo.HasVisible(ctx, conv.ID, side)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}

		if filter == FilterArchived && !conv.IsArchivedFor(side) {
			continue
		}

		unread, err := s.messageRepo.CountUnread(ctx, conv.ID, side, userID)
		if err != nil {
			return nil, err
		}
		// A cleared last-read marker forces the conversation to show as
		// unread even when every message has been read.
		if !conv.LastReadFor(side).Valid && unread == 0 {
			unread = 1
		}
		if filter == FilterUnread && unread == 0 {
			continue
		}

		other, err := s.identity.Resolve(ctx, conv.OtherParticipant(userID))
		if err != nil {
			return nil, err
		}

		var preview *MessagePreview
		last, err := s.messageRepo.LatestVisible(ctx, conv.ID, side)
		if err == nil {
			preview = &MessagePreview{
				ID:        last.ID,
				Body:      nullStr(last.Body),
				Kind:      last.Kind,
				SenderID:  last.SenderID,
				CreatedAt: last.CreatedAt,
				ReadAt:    nullTimePtr(last.ReadAt),
			}
		} else if !errors.Is(err, portal_errors.ErrNotFound) {
			return nil, err
		}

		summaries = append(summaries, ConversationSummary{
			ID:          conv.ID,
			OtherUser:   other,
			IsArchived:  conv.IsArchivedFor(side),
			UnreadCount: unread,
			LastMessage: preview,
			UpdatedAt:   conv.UpdatedAt,
		})
	}
	return summaries, nil
}

// SendMessage validates and persists a message, un-archives the
// sender's side, bumps the conversation and notifies the counter-party.
func (s *ChatService) SendMessage(ctx context.Context, senderID int64, in SendMessageInput) (MessageView, error) {
	if in.Body == "" && len(in.Payload) == 0 {
		return MessageView{}, portal_errors.ErrValidation
	}
	if len(in.Body) > MaxMessageLength {
		return MessageView{}, portal_errors.ErrValidation
	}
	if in.Kind == "" {
		in.Kind = chat.KindUserMessage
	}
	if !chat.ValidKind(in.Kind) {
		return MessageView{}, portal_errors.ErrValidation
	}

	conv, err := s.convRepo.GetByID(ctx, in.ConversationID)
	if err != nil {
		return MessageView{}, err
	}
	side := conv.SideOf(senderID)
	if side == chat.SideNone {
		return MessageView{}, portal_errors.ErrUnauthorized
	}

	// An outgoing message un-archives the sender's own side only.
	if conv.IsArchivedFor(side) {
		if err := s.convRepo.SetArchived(ctx, conv.ID, side, false); err != nil {
			return MessageView{}, err
		}
	}

	msg := chat.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           toNullString(in.Body),
		Kind:           in.Kind,
		Payload:        in.Payload,
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return MessageView{}, err
	}
	if err := s.convRepo.Touch(ctx, conv.ID); err != nil {
		return MessageView{}, err
	}
	// Sending counts as having seen the conversation, which also cancels
	// any forced-unread state on the sender's side.
	if err := s.convRepo.SetLastRead(ctx, conv.ID, side, sql.NullTime{Time: time.Now(), Valid: true}); err != nil {
		return MessageView{}, err
	}

	sender, err := s.identity.Resolve(ctx, senderID)
	if err != nil {
		return MessageView{}, err
	}
	view := toMessageView(msg, sender)

	s.notifier.Notify(events.ConversationChannel(conv.ID), events.EventNewMessage, senderID, view)
	return view, nil
}

// GetMessages returns the viewer-visible messages oldest first and, as
// a side effect, transitions every unread counter-party message to read
// and emits one read receipt per transitioned message. Re-invoking with
// nothing left to read emits no events.
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID int64) ([]MessageView, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	side := conv.SideOf(userID)
	if side == chat.SideNone {
		return nil, portal_errors.ErrUnauthorized
	}

	now := time.Now()
	transitioned, err := s.messageRepo.MarkReadBatch(ctx, conv.ID, side, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.convRepo.SetLastRead(ctx, conv.ID, side, sql.NullTime{Time: now, Valid: true}); err != nil {
		return nil, err
	}

	identities := map[int64]DisplayIdentity{}
	resolve := func(id int64) (DisplayIdentity, error) {
		if ident, ok := identities[id]; ok {
			return ident, nil
		}
		ident, err := s.identity.Resolve(ctx, id)
		if err != nil {
			return DisplayIdentity{}, err
		}
		identities[id] = ident
		return ident, nil
	}

	for i := range transitioned {
		sender, err := resolve(transitioned[i].SenderID)
		if err != nil {
			return nil, err
		}
		s.notifier.Notify(events.ConversationChannel(conv.ID), events.EventMessageRead, userID, toMessageView(transitioned[i], sender))
	}

	msgs, err := s.messageRepo.ListVisible(ctx, conv.ID, side)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		sender, err := resolve(msgs[i].SenderID)
		if err != nil {
			return nil, err
		}
		views = append(views, toMessageView(msgs[i], sender))
	}
	return views, nil
}

// MarkConversationUnread clears only the viewer's conversation-level
// last-read marker. No message read_at is touched.
func (s *ChatService) MarkConversationUnread(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	side := conv.SideOf(userID)
	if side == chat.SideNone {
		return portal_errors.ErrUnauthorized
	}
	return s.convRepo.SetLastRead(ctx, conv.ID, side, sql.NullTime{})
}

// ArchiveConversation sets the viewer's archive flag. Idempotent.
func (s *ChatService) ArchiveConversation(ctx context.Context, userID, conversationID int64) error {
	return s.setArchived(ctx, userID, conversationID, true)
}

// UnarchiveConversation clears the viewer's archive flag. Idempotent.
func (s *ChatService) UnarchiveConversation(ctx context.Context, userID, conversationID int64) error {
	return s.setArchived(ctx, userID, conversationID, false)
}

func (s *ChatService) setArchived(ctx context.Context, userID, conversationID int64, archived bool) error {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	side := conv.SideOf(userID)
	if side == chat.SideNone {
		return portal_errors.ErrUnauthorized
	}
	return s.convRepo.SetArchived(ctx, conv.ID, side, archived)
}

// DeleteConversation hides every message of the conversation on the
// viewer's side. The counter-party's view and the stored rows are
// untouched.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	side := conv.SideOf(userID)
	if side == chat.SideNone {
		return portal_errors.ErrUnauthorized
	}
	return s.messageRepo.SetDeletedForConversation(ctx, conv.ID, side)
}

// DeleteMessageForMe hides one message on the viewer's side.
func (s *ChatService) DeleteMessageForMe(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	conv, err := s.convRepo.GetByID(ctx, msg.ConversationID)
	if err != nil {
		return err
	}
	side := conv.SideOf(userID)
	if side == chat.SideNone {
		return portal_errors.ErrUnauthorized
	}
	return s.messageRepo.SetDeletedFor(ctx, msg.ID, side)
}

// DeleteMessageForEveryone tombstones a message for both participants.
// Only the sender may retract, and only while the message is unread;
// the read check and the tombstone write are one atomic step, so a
// concurrent read wins or loses cleanly.
func (s *ChatService) DeleteMessageForEveryone(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return portal_errors.ErrUnauthorized
	}
	if err := s.messageRepo.Tombstone(ctx, msg.ID); err != nil {
		return err
	}
	s.notifier.Notify(events.ConversationChannel(msg.ConversationID), events.EventMessageDeleted, userID, MessageDeletedPayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		DeleterID:      userID,
		DeletedAt:      time.Now(),
	})
	return nil
}

// UnreadCount returns the user's global visible-unread total across all
// conversations, for the badge.
func (s *ChatService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.messageRepo.CountUnreadForUser(ctx, userID)
}

func toMessageView(m chat.Message, sender DisplayIdentity) MessageView {
	return MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Body:           nullStr(m.Body),
		Kind:           m.Kind,
		Payload:        m.Payload,
		Sender:         sender,
		CreatedAt:      m.CreatedAt,
		ReadAt:         nullTimePtr(m.ReadAt),
	}
}
