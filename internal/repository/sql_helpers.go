package repository

import (
	"errors"

	"github.com/Jigden18/portal-backend/internal/domain/chat"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Column names for the two fixed participant slots.

func archivedColumn(side chat.Side) string {
	if side == chat.SideOne {
		return "is_archived_by_user1"
	}
	return "is_archived_by_user2"
}

func lastReadColumn(side chat.Side) string {
	if side == chat.SideOne {
		return "user1_last_read_at"
	}
	return "user2_last_read_at"
}

func deletedColumn(side chat.Side) string {
	if side == chat.SideOne {
		return "deleted_by_user1"
	}
	return "deleted_by_user2"
}

// isUniqueViolation detects duplicate-key failures both through gorm's
// translated error and the raw postgres error code.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
