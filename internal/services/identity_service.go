package services

import (
	"context"
	"errors"

	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
)

// DisplayIdentity is the name/email pair shown for a user anywhere in
// the chat UI and carried on realtime event payloads.
type DisplayIdentity struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// IdentityService resolves a user id to its display identity through
// the fallback chain organization -> profile -> raw account email.
type IdentityService struct {
	userRepo repository.UserRepository
	profiles repository.ProfileRepository
	orgs     repository.OrganizationRepository
}

func NewIdentityService(userRepo repository.UserRepository, profiles repository.ProfileRepository, orgs repository.OrganizationRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo, profiles: profiles, orgs: orgs}
}

func (s *IdentityService) Resolve(ctx context.Context, userID int64) (DisplayIdentity, error) {
	if org, err := s.orgs.GetByUserID(ctx, userID); err == nil {
		email := nullStr(org.Email)
		if email == "" {
			if u, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
				email = u.Email
			}
		}
		return DisplayIdentity{UserID: userID, Name: org.Name, Email: email, Avatar: nullStr(org.LogoURL)}, nil
	} else if !errors.Is(err, portal_errors.ErrNotFound) {
		return DisplayIdentity{}, err
	}

	if prof, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		email := nullStr(prof.Email)
		if email == "" {
			if u, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
				email = u.Email
			}
		}
		return DisplayIdentity{UserID: userID, Name: prof.FullName, Email: email, Avatar: nullStr(prof.PhotoURL)}, nil
	} else if !errors.Is(err, portal_errors.ErrNotFound) {
		return DisplayIdentity{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return DisplayIdentity{}, err
	}
	return DisplayIdentity{UserID: userID, Name: u.Email, Email: u.Email}, nil
}
