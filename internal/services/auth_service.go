package services

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"time"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type AccessClaims struct {
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateCredentials(in.Email, in.Password); err != nil {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	newUser := &user.User{
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}
	return s.issue(newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, portal_errors.ErrValidation
	}

	u, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, portal_errors.ErrNotFound) {
			return AuthResponse{}, portal_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, portal_errors.ErrUnauthorized
	}
	return s.issue(&u)
}

// Me returns the authenticated user's account info.
func (s *AuthService) Me(ctx context.Context, userID int64) (UserInfo, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return UserInfo{}, err
	}
	return UserInfo{ID: u.ID, Email: u.Email}, nil
}

// ParseToken validates a bearer token and returns the user id it names.
func (s *AuthService) ParseToken(tokenString string) (int64, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, portal_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, portal_errors.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, portal_errors.ErrUnauthorized
	}
	return userID, nil
}

func (s *AuthService) issue(u *user.User) (AuthResponse, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        UserInfo{ID: u.ID, Email: u.Email},
	}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return portal_errors.ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return portal_errors.ErrValidation
	}
	if len(password) < 8 {
		return portal_errors.ErrValidation
	}
	return nil
}
