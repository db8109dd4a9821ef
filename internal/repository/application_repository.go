package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/job"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"gorm.io/gorm"
)

type PostgresApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a *job.Application) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return portal_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, a job.Application) error {
	res := r.db.WithContext(ctx).Omit("Job").Save(&a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id int64) (job.Application, error) {
	var a job.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.Application{}, portal_errors.ErrNotFound
		}
		return job.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]job.Application, error) {
	var applications []job.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *PostgresApplicationRepository) ListByJobseeker(ctx context.Context, profileID int64) ([]job.Application, error) {
	var applications []job.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("jobseeker_id = ?", profileID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *PostgresApplicationRepository) ListDueInterviews(ctx context.Context, day time.Time) ([]job.Application, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var applications []job.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("status = ? AND interview_date >= ? AND interview_date < ?",
			job.ApplicationInterview, start, end).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}
