package services

import (
	"context"
	"database/sql"

	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
)

// JobService covers the vacancy lifecycle on the employer side and
// search, bookmarks and preferences on the seeker side.
type JobService struct {
	vacancies repository.VacancyRepository
	bookmarks repository.BookmarkRepository
	prefs     repository.PreferenceRepository
	orgs      repository.OrganizationRepository
	profiles  repository.ProfileRepository
}

func NewJobService(
	vacancies repository.VacancyRepository,
	bookmarks repository.BookmarkRepository,
	prefs repository.PreferenceRepository,
	orgs repository.OrganizationRepository,
	profiles repository.ProfileRepository,
) *JobService {
	return &JobService{
		vacancies: vacancies,
		bookmarks: bookmarks,
		prefs:     prefs,
		orgs:      orgs,
		profiles:  profiles,
	}
}

type VacancyInput struct {
	Position     string
	Field        string
	Salary       *float64
	Currency     string
	Location     string
	Type         string
	Requirements []string
}

// CreateVacancy opens a vacancy under the caller's organization. A
// missing field is inferred from the position title.
func (s *JobService) CreateVacancy(ctx context.Context, userID int64, in VacancyInput) (job.Vacancy, error) {
	if in.Position == "" {
		return job.Vacancy{}, portal_errors.ErrValidation
	}
	org, err := s.orgs.GetByUserID(ctx, userID)
	if err != nil {
		return job.Vacancy{}, err
	}

	field := in.Field
	if field == "" {
		field = job.InferField(in.Position)
	}

	v := job.Vacancy{
		OrganizationID: org.ID,
		Position:       in.Position,
		Field:          toNullString(field),
		Currency:       toNullString(in.Currency),
		Location:       toNullString(in.Location),
		Type:           toNullString(in.Type),
		Requirements:   in.Requirements,
		Status:         job.StatusOpen,
	}
	if in.Salary != nil {
		v.Salary = sql.NullFloat64{Float64: *in.Salary, Valid: true}
	}
	if err := s.vacancies.Create(ctx, &v); err != nil {
		return job.Vacancy{}, err
	}
	return v, nil
}

func (s *JobService) UpdateVacancy(ctx context.Context, userID, vacancyID int64, in VacancyInput) (job.Vacancy, error) {
	v, err := s.ownedVacancy(ctx, userID, vacancyID)
	if err != nil {
		return job.Vacancy{}, err
	}
	if in.Position != "" {
		v.Position = in.Position
	}
	if in.Field != "" {
		v.Field = toNullString(in.Field)
	}
	if in.Salary != nil {
		v.Salary = sql.NullFloat64{Float64: *in.Salary, Valid: true}
	}
	if in.Currency != "" {
		v.Currency = toNullString(in.Currency)
	}
	if in.Location != "" {
		v.Location = toNullString(in.Location)
	}
	if in.Type != "" {
		v.Type = toNullString(in.Type)
	}
	if in.Requirements != nil {
		v.Requirements = in.Requirements
	}
	if err := s.vacancies.Update(ctx, v); err != nil {
		return job.Vacancy{}, err
	}
	return v, nil
}

// ToggleVacancyStatus flips a vacancy between Open and Closed.
func (s *JobService) ToggleVacancyStatus(ctx context.Context, userID, vacancyID int64) (job.Vacancy, error) {
	v, err := s.ownedVacancy(ctx, userID, vacancyID)
	if err != nil {
		return job.Vacancy{}, err
	}
	if v.Status == job.StatusOpen {
		v.Status = job.StatusClosed
	} else {
		v.Status = job.StatusOpen
	}
	if err := s.vacancies.Update(ctx, v); err != nil {
		return job.Vacancy{}, err
	}
	return v, nil
}

func (s *JobService) ListOrganizationVacancies(ctx context.Context, userID int64) ([]job.Vacancy, error) {
	org, err := s.orgs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.vacancies.ListByOrganization(ctx, org.ID)
}

func (s *JobService) GetVacancy(ctx context.Context, id int64) (job.Vacancy, error) {
	return s.vacancies.GetByID(ctx, id)
}

// SearchVacancies runs the seeker-side filtered search. Only open
// vacancies are returned unless the filter says otherwise.
func (s *JobService) SearchVacancies(ctx context.Context, f repository.VacancySearchFilter) ([]job.Vacancy, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Status == "" {
		f.Status = job.StatusOpen
	}
	return s.vacancies.Search(ctx, f)
}

func (s *JobService) ListCategories(ctx context.Context) ([]job.Category, error) {
	return s.vacancies.ListCategories(ctx)
}

// ToggleBookmark flips the caller's bookmark on a job and reports the
// resulting state.
func (s *JobService) ToggleBookmark(ctx context.Context, userID, jobID int64) (bool, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.vacancies.GetByID(ctx, jobID); err != nil {
		return false, err
	}
	return s.bookmarks.Toggle(ctx, prof.ID, jobID)
}

func (s *JobService) ListBookmarkedJobs(ctx context.Context, userID int64) ([]job.Vacancy, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.bookmarks.ListJobs(ctx, prof.ID)
}

// SetPreferences replaces the caller's chosen job categories.
func (s *JobService) SetPreferences(ctx context.Context, userID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return portal_errors.ErrValidation
	}
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.prefs.Replace(ctx, prof.ID, categoryIDs)
}

func (s *JobService) ListPreferences(ctx context.Context, userID int64) ([]job.Preference, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.prefs.ListByProfile(ctx, prof.ID)
}

func (s *JobService) ownedVacancy(ctx context.Context, userID, vacancyID int64) (job.Vacancy, error) {
	org, err := s.orgs.GetByUserID(ctx, userID)
	if err != nil {
		return job.Vacancy{}, err
	}
	v, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return job.Vacancy{}, err
	}
	if v.OrganizationID != org.ID {
		return job.Vacancy{}, portal_errors.ErrUnauthorized
	}
	return v, nil
}
