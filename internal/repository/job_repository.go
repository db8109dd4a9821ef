package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Jigden18/portal-backend/internal/domain/job"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"gorm.io/gorm"
)

type PostgresVacancyRepository struct {
	db *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) VacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

func (r *PostgresVacancyRepository) Create(ctx context.Context, v *job.Vacancy) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *PostgresVacancyRepository) Update(ctx context.Context, v job.Vacancy) error {
	res := r.db.WithContext(ctx).Save(&v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresVacancyRepository) GetByID(ctx context.Context, id int64) (job.Vacancy, error) {
	var v job.Vacancy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.Vacancy{}, portal_errors.ErrNotFound
		}
		return job.Vacancy{}, err
	}
	return v, nil
}

func (r *PostgresVacancyRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]job.Vacancy, error) {
	var vacancies []job.Vacancy
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&vacancies).Error
	if err != nil {
		return nil, err
	}
	return vacancies, nil
}

func (r *PostgresVacancyRepository) Search(ctx context.Context, f VacancySearchFilter) ([]job.Vacancy, int64, error) {
	q := r.db.WithContext(ctx).Model(&job.Vacancy{})

	status := f.Status
	if status == "" {
		status = job.StatusOpen
	}
	q = q.Where("status = ?", status)

	if f.Keyword != "" {
		q = q.Where("LOWER(position) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.Field != "" {
		q = q.Where("field = ?", f.Field)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.MinSalary > 0 {
		q = q.Where("salary >= ?", f.MinSalary)
	}
	if f.MaxSalary > 0 {
		q = q.Where("salary <= ?", f.MaxSalary)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	var vacancies []job.Vacancy
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(limit).Find(&vacancies).Error; err != nil {
		return nil, 0, err
	}
	return vacancies, total, nil
}

func (r *PostgresVacancyRepository) ListCategories(ctx context.Context) ([]job.Category, error) {
	var categories []job.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) Toggle(ctx context.Context, profileID, jobID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("profile_id = ? AND job_id = ?", profileID, jobID).
		Delete(&job.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	b := job.Bookmark{ProfileID: profileID, JobID: jobID}
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		if isUniqueViolation(err) {
			// Concurrent toggle already bookmarked it.
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PostgresBookmarkRepository) ListJobs(ctx context.Context, profileID int64) ([]job.Vacancy, error) {
	var vacancies []job.Vacancy
	err := r.db.WithContext(ctx).
		Model(&job.Vacancy{}).
		Joins("JOIN job_bookmarks ON job_bookmarks.job_id = job_vacancies.id").
		Where("job_bookmarks.profile_id = ?", profileID).
		Order("job_bookmarks.created_at DESC").
		Find(&vacancies).Error
	if err != nil {
		return nil, err
	}
	return vacancies, nil
}

type PostgresPreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) Replace(ctx context.Context, profileID int64, categoryIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&job.Preference{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		prefs := make([]job.Preference, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			prefs = append(prefs, job.Preference{ProfileID: profileID, CategoryID: id})
		}
		return tx.Create(&prefs).Error
	})
}

func (r *PostgresPreferenceRepository) ListByProfile(ctx context.Context, profileID int64) ([]job.Preference, error) {
	var prefs []job.Preference
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
