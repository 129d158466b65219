package ordering

import (
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/pkg/errors"
)

// ValidateStatusTransition enforces the two fulfillment rules:
// a cancelled order never changes again, and a confirmed order cannot
// fall back to CREATED. Every other pair is allowed, including setting
// the current status again.
func ValidateStatusTransition(current, requested string) error {
	if current == domain.OrderStatusCancelled {
		return errors.Wrap(domain.ErrInvalidTransition, "order is cancelled")
	}
	if current == domain.OrderStatusConfirmed && requested == domain.OrderStatusCreated {
		return errors.Wrap(domain.ErrInvalidTransition, "cannot reverse to an earlier stage")
	}
	return nil
}
