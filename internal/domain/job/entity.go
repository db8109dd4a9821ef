package job

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain"
)

// Vacancy statuses
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// Application statuses
const (
	ApplicationSubmitted   = "Submitted"
	ApplicationUnderReview = "Under review"
	ApplicationInterview   = "Scheduled for interview"
	ApplicationAccepted    = "Accepted"
	ApplicationRejected    = "Rejected"
)

func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationInterview,
		ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Vacancy represents the job_vacancies table
type Vacancy struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64  `gorm:"not null;index"`
	Position       string `gorm:"not null"`
	Field          sql.NullString
	Salary         sql.NullFloat64
	Currency       sql.NullString
	Location       sql.NullString
	Type           sql.NullString // e.g. Full-time, Part-time, Contract
	Requirements   domain.StringList `gorm:"type:jsonb"`
	Status         string            `gorm:"not null;default:Open"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InferField guesses a category field from the position title, mirroring
// the keyword table used when an employer omits the field.
func InferField(position string) string {
	p := strings.ToLower(position)
	for field, keywords := range fieldKeywords {
		for _, kw := range keywords {
			if strings.Contains(p, kw) {
				return field
			}
		}
	}
	return ""
}

var fieldKeywords = map[string][]string{
	"Programmer":       {"developer", "engineer", "programmer", "software"},
	"Art & Design":     {"designer", "artist", "creative"},
	"Finance":          {"accountant", "finance", "auditor"},
	"Human Resources":  {"hr", "recruiter", "human resource"},
	"Content Writer":   {"writer", "editor", "content"},
	"Customer Service": {"support", "customer", "service desk"},
}

// Application represents the job_applications table. JobseekerID is the
// applicant's profile id.
type Application struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	JobID         int64  `gorm:"not null;uniqueIndex:idx_applications_job_seeker,priority:1"`
	JobseekerID   int64  `gorm:"not null;uniqueIndex:idx_applications_job_seeker,priority:2"`
	PDFPath       string `gorm:"not null"`
	Status        string `gorm:"not null;default:Submitted"`
	Message       sql.NullString
	InterviewDate sql.NullTime
	InterviewTime sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Relationships
	Job *Vacancy `gorm:"foreignKey:JobID"`
}

// Bookmark represents the job_bookmarks table
type Bookmark struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProfileID int64 `gorm:"not null;uniqueIndex:idx_bookmarks_profile_job,priority:1"`
	JobID     int64 `gorm:"not null;uniqueIndex:idx_bookmarks_profile_job,priority:2"`
	CreatedAt time.Time
}

// Category represents the job_categories table
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
	Icon string
}

// Preference represents the job_preferences table: a seeker's chosen
// categories.
type Preference struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ProfileID  int64 `gorm:"not null;uniqueIndex:idx_preferences_profile_category,priority:1"`
	CategoryID int64 `gorm:"not null;uniqueIndex:idx_preferences_profile_category,priority:2"`
	CreatedAt  time.Time
}

// Currency represents the currencies table
type Currency struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Code   string `gorm:"uniqueIndex;not null;size:3"`
	Symbol string `gorm:"not null"`
}

func (Vacancy) TableName() string {
	return "job_vacancies"
}

func (Application) TableName() string {
	return "job_applications"
}

func (Bookmark) TableName() string {
	return "job_bookmarks"
}

func (Category) TableName() string {
	return "job_categories"
}

func (Preference) TableName() string {
	return "job_preferences"
}

func (Currency) TableName() string {
	return "currencies"
}
