package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/chat"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id int64) (chat.Message, error) {
	var m chat.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Message{}, portal_errors.ErrNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) ListVisible(ctx context.Context, conversationID int64, side chat.Side) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND "+deletedColumn(side)+" = false", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkReadBatch selects the qualifying messages and flips read_at in a
// single UPDATE inside one transaction. The read_at IS NULL guard in
// the UPDATE makes a racing double-invocation harmless.
func (r *PostgresMessageRepository) MarkReadBatch(ctx context.Context, conversationID int64, side chat.Side, viewerID int64, at time.Time) ([]chat.Message, error) {
	var updated []chat.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []chat.Message
		if err := tx.
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL AND "+deletedColumn(side)+" = false",
				conversationID, viewerID).
			Order("created_at ASC").
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(pending))
		for _, m := range pending {
			ids = append(ids, m.ID)
		}
		if err := tx.Model(&chat.Message{}).
			Where("id IN ? AND read_at IS NULL", ids).
			UpdateColumn("read_at", at).Error; err != nil {
			return err
		}

		for i := range pending {
			pending[i].ReadAt = sql.NullTime{Time: at, Valid: true}
		}
		updated = pending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresMessageRepository) SetDeletedFor(ctx context.Context, messageID int64, side chat.Side) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("id = ?", messageID).
		Update(deletedColumn(side), true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) SetDeletedForConversation(ctx context.Context, conversationID int64, side chat.Side) error {
	return r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ?", conversationID).
		Update(deletedColumn(side), true).Error
}

// Tombstone is the delete-for-everyone write. The read_at IS NULL guard
// makes the read-state check and the tombstone one atomic statement: if
// a concurrent reader wins, zero rows are affected and the caller gets
// ErrInvalidState instead of partial state.
func (r *PostgresMessageRepository) Tombstone(ctx context.Context, messageID int64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("id = ? AND read_at IS NULL", messageID).
		UpdateColumn("deleted_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Classify the failure: already read, or gone entirely.
	var m chat.Message
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", messageID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return portal_errors.ErrNotFound
		}
		return err
	}
	if m.DeletedAt.Valid {
		return portal_errors.ErrNotFound
	}
	if m.ReadAt.Valid {
		return portal_errors.ErrInvalidState
	}
	return portal_errors.ErrNotFound
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, conversationID int64, side chat.Side, viewerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL AND "+deletedColumn(side)+" = false",
			conversationID, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id AND conversations.deleted_at IS NULL").
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", userID).
		Where("(conversations.user1_id = ? AND messages.deleted_by_user1 = false) OR (conversations.user2_id = ? AND messages.deleted_by_user2 = false)",
			userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) LatestVisible(ctx context.Context, conversationID int64, side chat.Side) (chat.Message, error) {
	var m chat.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND "+deletedColumn(side)+" = false", conversationID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Message{}, portal_errors.ErrNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) HasVisible(ctx context.Context, conversationID int64, side chat.Side) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ? AND "+deletedColumn(side)+" = false", conversationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
