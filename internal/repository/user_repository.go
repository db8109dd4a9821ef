package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Jigden18/portal-backend/internal/domain/user"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"gorm.io/gorm"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return portal_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Organization").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, portal_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, portal_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

type PostgresProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p *user.Profile) error {
	if p.ID != 0 {
		return r.db.WithContext(ctx).Save(p).Error
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return portal_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id int64) (user.Profile, error) {
	var p user.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Profile{}, portal_errors.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (user.Profile, error) {
	var p user.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Profile{}, portal_errors.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) SearchByName(ctx context.Context, words []string, limit int) ([]user.Profile, error) {
	q := r.db.WithContext(ctx).Model(&user.Profile{})
	for _, w := range words {
		q = q.Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(w)+"%")
	}
	var profiles []user.Profile
	if err := q.Order("full_name ASC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

type PostgresOrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

func (r *PostgresOrganizationRepository) Upsert(ctx context.Context, o *user.Organization) error {
	if o.ID != 0 {
		return r.db.WithContext(ctx).Save(o).Error
	}
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		if isUniqueViolation(err) {
			return portal_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id int64) (user.Organization, error) {
	var o user.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Organization{}, portal_errors.ErrNotFound
		}
		return user.Organization{}, err
	}
	return o, nil
}

func (r *PostgresOrganizationRepository) GetByUserID(ctx context.Context, userID int64) (user.Organization, error) {
	var o user.Organization
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Organization{}, portal_errors.ErrNotFound
		}
		return user.Organization{}, err
	}
	return o, nil
}

func (r *PostgresOrganizationRepository) SearchByName(ctx context.Context, words []string, limit int) ([]user.Organization, error) {
	q := r.db.WithContext(ctx).Model(&user.Organization{})
	for _, w := range words {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(w)+"%")
	}
	var orgs []user.Organization
	if err := q.Order("name ASC").Limit(limit).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}
