package auth

import (
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/pkg/errors"
)

// Principal is the resolved identity of the caller for one request.
// It is threaded explicitly into every service call; nothing in the
// services reads ambient request state.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

// RequireRole fails with ErrForbidden unless the principal carries the
// expected role. It has no side effects.
func RequireRole(p Principal, role string) error {
	if p.Role != role {
		return errors.Wrapf(domain.ErrForbidden, "requires role %s", role)
	}
	return nil
}
