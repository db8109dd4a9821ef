package services

import (
	"context"
	"testing"

	"github.com/Jigden18/portal-backend/config"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryMin: 60}
	return NewAuthService(users, cfg), users
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		resp, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.EqualValues(t, 3600, resp.ExpiresIn)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		cases := []RegisterInput{
			{Email: "", Password: "supersecret"},
			{Email: "not-an-email", Password: "supersecret"},
			{Email: "alice@example.com", Password: ""},
			{Email: "alice@example.com", Password: "short"},
		}
		for _, in := range cases {
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, portal_errors.ErrValidation)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, portal_errors.ErrAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)
	_, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrongwrong"})
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})

	t.Run("unknown email maps to unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{})
		assert.ErrorIs(t, err, portal_errors.ErrValidation)
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)
	resp, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		userID, err := svc.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, userID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(newFakeUserRepo(), &config.Config{JWTSecret: "different", JWTExpiryMin: 60})
		_, err := other.ParseToken(resp.AccessToken)
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})
}
