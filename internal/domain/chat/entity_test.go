package chat

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gorm.io/gorm"
)

func TestOrderPair(t *testing.T) {
	a, b := OrderPair(7, 3)
	assert.EqualValues(t, 3, a)
	assert.EqualValues(t, 7, b)

	a, b = OrderPair(3, 7)
	assert.EqualValues(t, 3, a)
	assert.EqualValues(t, 7, b)
}

func TestConversation_Sides(t *testing.T) {
	c := Conversation{User1ID: 3, User2ID: 7}

	assert.Equal(t, SideOne, c.SideOf(3))
	assert.Equal(t, SideTwo, c.SideOf(7))
	assert.Equal(t, SideNone, c.SideOf(5))

	assert.True(t, c.HasParticipant(3))
	assert.False(t, c.HasParticipant(5))

	assert.EqualValues(t, 7, c.OtherParticipant(3))
	assert.EqualValues(t, 3, c.OtherParticipant(7))

	assert.Equal(t, SideTwo, SideOne.Other())
	assert.Equal(t, SideOne, SideTwo.Other())
	assert.Equal(t, SideNone, SideNone.Other())
}

func TestConversation_PerSideState(t *testing.T) {
	now := sql.NullTime{Time: time.Now(), Valid: true}
	c := Conversation{
		User1ID:         3,
		User2ID:         7,
		ArchivedByUser1: true,
		User2LastReadAt: now,
	}

	assert.True(t, c.IsArchivedFor(SideOne))
	assert.False(t, c.IsArchivedFor(SideTwo))

	assert.False(t, c.LastReadFor(SideOne).Valid)
	assert.True(t, c.LastReadFor(SideTwo).Valid)
}

func TestValidKind(t *testing.T) {
	for _, k := range []MessageKind{KindUserMessage, KindStatusUpdate, KindSystem, KindVideoCallStart, KindVideoCallEnd} {
		assert.True(t, ValidKind(k))
	}
	assert.False(t, ValidKind("bogus"))
	assert.False(t, ValidKind(""))
}

func TestMessage_Visibility(t *testing.T) {
	t.Run("plain message visible to both sides", func(t *testing.T) {
		m := Message{}
		assert.True(t, m.VisibleTo(SideOne))
		assert.True(t, m.VisibleTo(SideTwo))
	})

	t.Run("per-side delete hides one side only", func(t *testing.T) {
		m := Message{DeletedByUser1: true}
		assert.False(t, m.VisibleTo(SideOne))
		assert.True(t, m.VisibleTo(SideTwo))
	})

	t.Run("tombstone hides both sides", func(t *testing.T) {
		m := Message{DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true}}
		assert.False(t, m.VisibleTo(SideOne))
		assert.False(t, m.VisibleTo(SideTwo))
	})
}

func TestMessage_UnreadFor(t *testing.T) {
	unread := Message{SenderID: 3}

	// Counts for the counter-party, never for the sender.
	assert.True(t, unread.UnreadFor(SideTwo, 7))
	assert.False(t, unread.UnreadFor(SideOne, 3))

	read := unread
	read.ReadAt = sql.NullTime{Time: time.Now(), Valid: true}
	assert.False(t, read.UnreadFor(SideTwo, 7))

	hidden := unread
	hidden.DeletedByUser2 = true
	assert.False(t, hidden.UnreadFor(SideTwo, 7))
}
