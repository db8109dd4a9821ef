package chat

import (
	"database/sql"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain"

	"gorm.io/gorm"
)

// MessageKind enumerates the message type column.
type MessageKind string

const (
	KindUserMessage    MessageKind = "user_message"
	KindStatusUpdate   MessageKind = "status_update"
	KindSystem         MessageKind = "system"
	KindVideoCallStart MessageKind = "video_call_start"
	KindVideoCallEnd   MessageKind = "video_call_end"
)

func ValidKind(k MessageKind) bool {
	switch k {
	case KindUserMessage, KindStatusUpdate, KindSystem, KindVideoCallStart, KindVideoCallEnd:
		return true
	}
	return false
}

// Side identifies which of the two fixed participant slots a user
// occupies in a conversation.
type Side int

const (
	SideNone Side = iota
	SideOne
	SideTwo
)

// Other returns the opposite slot.
func (s Side) Other() Side {
	switch s {
	case SideOne:
		return SideTwo
	case SideTwo:
		return SideOne
	}
	return SideNone
}

// Conversation represents the conversations table. The two participant
// slots are canonically ordered: user1_id < user2_id, always.
type Conversation struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	User1ID         int64 `gorm:"column:user1_id;not null;uniqueIndex:idx_conversations_pair,priority:1"`
	User2ID         int64 `gorm:"column:user2_id;not null;uniqueIndex:idx_conversations_pair,priority:2"`
	ArchivedByUser1 bool  `gorm:"column:is_archived_by_user1;not null;default:false"`
	ArchivedByUser2 bool  `gorm:"column:is_archived_by_user2;not null;default:false"`
	User1LastReadAt sql.NullTime
	User2LastReadAt sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
	DeletedAt       gorm.DeletedAt
}

// OrderPair returns the two user ids in canonical slot order.
func OrderPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// SideOf reports the slot a user occupies, or SideNone.
func (c *Conversation) SideOf(userID int64) Side {
	switch userID {
	case c.User1ID:
		return SideOne
	case c.User2ID:
		return SideTwo
	}
	return SideNone
}

func (c *Conversation) HasParticipant(userID int64) bool {
	return c.SideOf(userID) != SideNone
}

// OtherParticipant returns the counter-party of userID. Callers must
// check participancy first.
func (c *Conversation) OtherParticipant(userID int64) int64 {
	if userID == c.User1ID {
		return c.User2ID
	}
	return c.User1ID
}

func (c *Conversation) IsArchivedFor(side Side) bool {
	if side == SideOne {
		return c.ArchivedByUser1
	}
	return c.ArchivedByUser2
}

// LastReadFor returns the conversation-level last-read marker for a
// slot. An invalid value means forced-unread (or never read).
func (c *Conversation) LastReadFor(side Side) sql.NullTime {
	if side == SideOne {
		return c.User1LastReadAt
	}
	return c.User2LastReadAt
}

// Message represents the messages table.
type Message struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	ConversationID int64 `gorm:"not null;index:idx_messages_conversation_created,priority:1"`
	SenderID       int64 `gorm:"not null"`
	Body           sql.NullString `gorm:"column:message;type:text"`
	Kind           MessageKind    `gorm:"column:type;not null;default:user_message"`
	Payload        domain.JSONMap `gorm:"type:jsonb"`
	ReadAt         sql.NullTime
	DeletedByUser1 bool `gorm:"not null;default:false"`
	DeletedByUser2 bool `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created,priority:2"`
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt // delete-for-everyone tombstone
}

// DeletedFor reports whether the viewer on the given slot has hidden
// this message for themselves.
func (m *Message) DeletedFor(side Side) bool {
	if side == SideOne {
		return m.DeletedByUser1
	}
	return m.DeletedByUser2
}

// VisibleTo implements the visibility rule: not tombstoned and not
// hidden by the viewer's own delete flag.
func (m *Message) VisibleTo(side Side) bool {
	return !m.DeletedAt.Valid && !m.DeletedFor(side)
}

// UnreadFor reports whether this message counts as unread for a viewer:
// visible, sent by the counter-party, never read.
func (m *Message) UnreadFor(side Side, viewerID int64) bool {
	return m.VisibleTo(side) && m.SenderID != viewerID && !m.ReadAt.Valid
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Message) TableName() string {
	return "messages"
}
