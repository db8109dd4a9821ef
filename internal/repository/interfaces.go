package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, p *user.Profile) error
	GetByID(ctx context.Context, id int64) (user.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (user.Profile, error)
	SearchByName(ctx context.Context, words []string, limit int) ([]user.Profile, error)
}

type OrganizationRepository interface {
	Upsert(ctx context.Context, o *user.Organization) error
	GetByID(ctx context.Context, id int64) (user.Organization, error)
	GetByUserID(ctx context.Context, userID int64) (user.Organization, error)
	SearchByName(ctx context.Context, words []string, limit int) ([]user.Organization, error)
}

// ConversationRepository persists the canonical dyadic conversation
// records. FindOrCreate expects the pair already in slot order and must
// be safe under concurrent first-contact requests.
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, user1ID, user2ID int64) (chat.Conversation, error)
	GetByID(ctx context.Context, id int64) (chat.Conversation, error)
	ListForUser(ctx context.Context, userID int64) ([]chat.Conversation, error)
	Touch(ctx context.Context, id int64) error
	SetArchived(ctx context.Context, id int64, side chat.Side, archived bool) error
	SetLastRead(ctx context.Context, id int64, side chat.Side, at sql.NullTime) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	GetByID(ctx context.Context, id int64) (chat.Message, error)
	// ListVisible returns the viewer-visible messages of a conversation,
	// oldest first.
	ListVisible(ctx context.Context, conversationID int64, side chat.Side) ([]chat.Message, error)
	// MarkReadBatch sets read_at on every visible unread message not
	// sent by the viewer, in one batch, and returns the messages it
	// transitioned. An empty result means nothing qualified.
	MarkReadBatch(ctx context.Context, conversationID int64, side chat.Side, viewerID int64, at time.Time) ([]chat.Message, error)
	SetDeletedFor(ctx context.Context, messageID int64, side chat.Side) error
	SetDeletedForConversation(ctx context.Context, conversationID int64, side chat.Side) error
	// Tombstone performs delete-for-everyone as one atomic
	// check-then-act: it fails with ErrInvalidState when the message was
	// already read, ErrNotFound when it does not exist or is already
	// tombstoned.
	Tombstone(ctx context.Context, messageID int64) error
	CountUnread(ctx context.Context, conversationID int64, side chat.Side, viewerID int64) (int64, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int64, error)
	LatestVisible(ctx context.Context, conversationID int64, side chat.Side) (chat.Message, error)
	HasVisible(ctx context.Context, conversationID int64, side chat.Side) (bool, error)
}

type VacancySearchFilter struct {
	Keyword   string
	Field     string
	Type      string
	Location  string
	MinSalary float64
	MaxSalary float64
	Status    string
	Limit     int
	Offset    int
}

type VacancyRepository interface {
	Create(ctx context.Context, v *job.Vacancy) error
	Update(ctx context.Context, v job.Vacancy) error
	GetByID(ctx context.Context, id int64) (job.Vacancy, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]job.Vacancy, error)
	Search(ctx context.Context, f VacancySearchFilter) ([]job.Vacancy, int64, error)
	ListCategories(ctx context.Context) ([]job.Category, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *job.Application) error
	Update(ctx context.Context, a job.Application) error
	GetByID(ctx context.Context, id int64) (job.Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]job.Application, error)
	ListByJobseeker(ctx context.Context, profileID int64) ([]job.Application, error)
	// ListDueInterviews returns interview-scheduled applications whose
	// interview date falls on the given day.
	ListDueInterviews(ctx context.Context, day time.Time) ([]job.Application, error)
}

type BookmarkRepository interface {
	// Toggle flips the bookmark for (profile, job) and reports whether
	// the job is bookmarked afterwards.
	Toggle(ctx context.Context, profileID, jobID int64) (bool, error)
	ListJobs(ctx context.Context, profileID int64) ([]job.Vacancy, error)
}

type PreferenceRepository interface {
	Replace(ctx context.Context, profileID int64, categoryIDs []int64) error
	ListByProfile(ctx context.Context, profileID int64) ([]job.Preference, error)
}
