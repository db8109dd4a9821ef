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

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// FindOrCreate implements the atomic insert-or-fetch on the ordered
// pair. A concurrent first-contact from the other participant loses the
// insert race on the unique pair index and falls back to fetching the
// winner's row.
func (r *PostgresConversationRepository) FindOrCreate(ctx context.Context, user1ID, user2ID int64) (chat.Conversation, error) {
	c, err := r.getByPair(ctx, user1ID, user2ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, portal_errors.ErrNotFound) {
		return chat.Conversation{}, err
	}

	c = chat.Conversation{User1ID: user1ID, User2ID: user2ID}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return r.getByPair(ctx, user1ID, user2ID)
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) getByPair(ctx context.Context, user1ID, user2ID int64) (chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Conversation{}, portal_errors.ErrNotFound
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id int64) (chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Conversation{}, portal_errors.ErrNotFound
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) ListForUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *PostgresConversationRepository) Touch(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) SetArchived(ctx context.Context, id int64, side chat.Side, archived bool) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("id = ?", id).
		Update(archivedColumn(side), archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) SetLastRead(ctx context.Context, id int64, side chat.Side, at sql.NullTime) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("id = ?", id).
		Update(lastReadColumn(side), at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}
