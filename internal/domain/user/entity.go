package user

import (
	"database/sql"
	"time"
)

// User represents the users table. A user owns at most one Profile
// (job seeker) or one Organization (employer); both relations are
// optional and drive display-identity resolution.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	Profile      *Profile      `gorm:"foreignKey:UserID"`
	Organization *Organization `gorm:"foreignKey:UserID"`
}

// Profile represents the profiles table (job seekers)
type Profile struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"uniqueIndex;not null"`
	FullName    string `gorm:"not null"`
	Email       sql.NullString
	DateOfBirth sql.NullTime
	Address     sql.NullString
	Occupation  sql.NullString
	PhotoURL    sql.NullString
	PhotoKey    sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Organization represents the organizations table (employers)
type Organization struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	UserID          int64  `gorm:"uniqueIndex;not null"`
	Name            string `gorm:"not null"`
	Email           sql.NullString
	EstablishedDate sql.NullTime
	Country         sql.NullString
	Address         sql.NullString
	LogoURL         sql.NullString
	LogoKey         sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "profiles"
}

func (Organization) TableName() string {
	return "organizations"
}
