package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/repository"
	"github.com/Jigden18/portal-backend/internal/storage"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
	"github.com/Jigden18/portal-backend/pkg/logger"
)

const maxAvatarBytes = 2 << 20

// ProfileService manages job-seeker profiles and employer organization
// records, including their S3-hosted photo and logo.
type ProfileService struct {
	profiles repository.ProfileRepository
	orgs     repository.OrganizationRepository
	store    storage.ObjectStore
	log      *logger.Logger
}

func NewProfileService(profiles repository.ProfileRepository, orgs repository.OrganizationRepository, store storage.ObjectStore, log *logger.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, orgs: orgs, store: store, log: log}
}

type ProfileInput struct {
	FullName    string
	Email       string
	DateOfBirth *time.Time
	Address     string
	Occupation  string
	Photo       *FileUpload
}

type OrganizationInput struct {
	Name            string
	Email           string
	EstablishedDate *time.Time
	Country         string
	Address         string
	Logo            *FileUpload
	RemoveLogo      bool
}

// FileUpload carries one already-read multipart file.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f *FileUpload) validateImage() error {
	if len(f.Data) == 0 || int64(len(f.Data)) > maxAvatarBytes {
		return portal_errors.ErrValidation
	}
	switch f.ContentType {
	case "image/jpeg", "image/png":
		return nil
	}
	return portal_errors.ErrValidation
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (user.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// SaveProfile creates or updates the caller's job-seeker profile. A
// fresh photo replaces the stored one; without any photo ever uploaded
// the profile gets an initials avatar.
func (s *ProfileService) SaveProfile(ctx context.Context, userID int64, in ProfileInput) (user.Profile, error) {
	if in.FullName == "" {
		return user.Profile{}, portal_errors.ErrValidation
	}

	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, portal_errors.ErrNotFound) {
		return user.Profile{}, err
	}

	prof := existing
	prof.UserID = userID
	prof.FullName = in.FullName
	prof.Email = toNullString(in.Email)
	prof.Address = toNullString(in.Address)
	prof.Occupation = toNullString(in.Occupation)
	if in.DateOfBirth != nil {
		prof.DateOfBirth = sql.NullTime{Time: *in.DateOfBirth, Valid: true}
	}

	if in.Photo != nil {
		if err := in.Photo.validateImage(); err != nil {
			return user.Profile{}, err
		}
		key := storage.ObjectKey("profile_photos", in.Photo.Filename)
		photoURL, err := s.store.Put(ctx, key, in.Photo.ContentType, in.Photo.Data)
		if err != nil {
			return user.Profile{}, err
		}
		if existing.PhotoKey.Valid {
			if err := s.store.Delete(ctx, existing.PhotoKey.String); err != nil {
				s.log.Warnf("delete old profile photo %s: %v", existing.PhotoKey.String, err)
			}
		}
		prof.PhotoURL = toNullString(photoURL)
		prof.PhotoKey = toNullString(key)
	} else if !prof.PhotoURL.Valid {
		prof.PhotoURL = toNullString(initialsAvatarURL(in.FullName))
	}

	if err := s.profiles.Upsert(ctx, &prof); err != nil {
		return user.Profile{}, err
	}
	return prof, nil
}

func (s *ProfileService) GetOrganization(ctx context.Context, userID int64) (user.Organization, error) {
	return s.orgs.GetByUserID(ctx, userID)
}

// SaveOrganization creates or updates the caller's organization record.
func (s *ProfileService) SaveOrganization(ctx context.Context, userID int64, in OrganizationInput) (user.Organization, error) {
	if in.Name == "" {
		return user.Organization{}, portal_errors.ErrValidation
	}

	existing, err := s.orgs.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, portal_errors.ErrNotFound) {
		return user.Organization{}, err
	}

	org := existing
	org.UserID = userID
	org.Name = in.Name
	org.Email = toNullString(in.Email)
	org.Country = toNullString(in.Country)
	org.Address = toNullString(in.Address)
	if in.EstablishedDate != nil {
		org.EstablishedDate = sql.NullTime{Time: *in.EstablishedDate, Valid: true}
	}

	switch {
	case in.Logo != nil:
		if err := in.Logo.validateImage(); err != nil {
			return user.Organization{}, err
		}
		key := storage.ObjectKey("organization_logos", in.Logo.Filename)
		logoURL, err := s.store.Put(ctx, key, in.Logo.ContentType, in.Logo.Data)
		if err != nil {
			return user.Organization{}, err
		}
		if existing.LogoKey.Valid {
			if err := s.store.Delete(ctx, existing.LogoKey.String); err != nil {
				s.log.Warnf("delete old organization logo %s: %v", existing.LogoKey.String, err)
			}
		}
		org.LogoURL = toNullString(logoURL)
		org.LogoKey = toNullString(key)
	case in.RemoveLogo:
		if existing.LogoKey.Valid {
			if err := s.store.Delete(ctx, existing.LogoKey.String); err != nil {
				s.log.Warnf("delete organization logo %s: %v", existing.LogoKey.String, err)
			}
		}
		org.LogoURL = toNullString(initialsAvatarURL(in.Name))
		org.LogoKey = sql.NullString{}
	case !org.LogoURL.Valid:
		org.LogoURL = toNullString(initialsAvatarURL(in.Name))
	}

	if err := s.orgs.Upsert(ctx, &org); err != nil {
		return user.Organization{}, err
	}
	return org, nil
}

// initialsAvatarURL builds the placeholder avatar used when no image
// was uploaded.
func initialsAvatarURL(name string) string {
	words := strings.Fields(name)
	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(w[:1]))
	}
	initials := b.String()
	if initials == "" {
		initials = "?"
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(initials))
}
