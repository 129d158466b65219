package auth_test

import (
	"context"
	"testing"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	users map[string]*domain.User
}

var _ auth.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*domain.User{}}
}

func (s *memUserStore) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, found := s.users[username]
	if !found {
		return nil, errors.Wrapf(domain.ErrNotFound, "user %s", username)
	}
	return user, nil
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	s.users[user.Username] = user
	return nil
}

func (s *memUserStore) TouchLastLogin(ctx context.Context, id int64) error {
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(newMemUserStore())

	t.Run("Success", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, domain.RoleCustomer, user.Role)
		assert.NotEqual(t, "s3cret", user.Password, "password must be stored hashed")
	})

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other", "other@example.com")
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("Always creates customer role", func(t *testing.T) {
		// admin accounts come from the bootstrap, never from registration
		user, err := svc.Register(ctx, "bob", "pw", "")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, user.Role)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "pw", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "carol", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(newMemUserStore())

	user, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		principal, err := svc.Authenticate(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.UserID)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, domain.RoleCustomer, principal.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "pw")
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})
}

func TestRequireRole(t *testing.T) {
	admin := auth.Principal{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
	customer := auth.Principal{UserID: 2, Username: "alice", Role: domain.RoleCustomer}

	assert.NoError(t, auth.RequireRole(admin, domain.RoleAdmin))
	assert.NoError(t, auth.RequireRole(customer, domain.RoleCustomer))
	assert.ErrorIs(t, auth.RequireRole(customer, domain.RoleAdmin), domain.ErrForbidden)
	assert.ErrorIs(t, auth.RequireRole(admin, domain.RoleCustomer), domain.ErrForbidden)
}

func TestTokenRoundTrip(t *testing.T) {
	const secret = "unit-test-secret"
	principal := auth.Principal{UserID: 77, Username: "alice", Role: domain.RoleCustomer}

	token, err := auth.IssueToken(secret, principal)
	require.NoError(t, err)

	claims := new(auth.Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, principal, claims.Principal())
}
