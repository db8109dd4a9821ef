package services

import (
	"database/sql"
	"time"
)

func nullStr(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
