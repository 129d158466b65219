package auth

import (
	"context"
	"strings"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service implements registration and credential verification.
// Authorization decisions happen elsewhere; this only answers
// "who is calling" with a Principal.
type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Register creates a CUSTOMER user with a bcrypt password hash.
// Duplicate usernames fail with ErrAlreadyExists. Admin accounts are
// never self-provisioned; they come from the bootstrap.
func (s *Service) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "username and password are required")
	}

	if _, err := s.users.ByUsername(ctx, username); err == nil {
		return nil, errors.Wrapf(domain.ErrAlreadyExists, "username %s", username)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        common.UUIDint64(),
		Username:  username,
		Password:  string(hashed),
		Email:     strings.TrimSpace(email),
		Role:      domain.RoleCustomer,
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	zap.L().Info("user registered", zap.String("username", username))
	return user, nil
}

// Authenticate verifies the credentials and returns the caller Principal.
// Unknown usernames and wrong passwords report the same ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	user, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return Principal{}, domain.ErrBadCredentials
	}
	if err != nil {
		return Principal{}, err
	}
	if user.Status != common.ENABLED {
		return Principal{}, errors.Wrap(domain.ErrForbidden, "account disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Principal{}, domain.ErrBadCredentials
	}

	_ = s.users.TouchLastLogin(ctx, user.ID)
	return Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
