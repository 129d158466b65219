package ordering

import (
	"context"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/metrics"
	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ItemRequest is one (product, quantity) pair of a placement request.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// Service orchestrates order placement and fulfillment. Every operation
// takes the caller Principal explicitly and checks it before touching
// any state.
type Service struct {
	store Store
	bus   evbus.Bus
}

func NewService(store Store, bus evbus.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// PlaceOrder reserves stock for every requested item, snapshots unit
// prices, computes the total and persists the order in CREATED status.
// The whole reservation batch and the insert run in one transaction:
// either all of it lands or none of it does.
func (s *Service) PlaceOrder(ctx context.Context, p auth.Principal, items []ItemRequest) (*domain.Order, error) {
	if err := auth.RequireRole(p, domain.RoleCustomer); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "invalid quantity %d for product %d", item.Quantity, item.ProductID)
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:        common.UUIDint64(),
		UserID:    p.UserID,
		Status:    domain.OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.WithinTx(ctx, func(tx Store) error {
		var total float64
		for _, item := range items {
			price, err := tx.ReserveStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, domain.OrderItem{
				ID:        common.UUIDint64(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
			})
			total += price * float64(item.Quantity)
		}
		order.TotalAmount = total
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.CounterInc(metrics.StockConflicts)
		}
		metrics.CounterInc(metrics.OrdersRejected)
		return nil, err
	}

	metrics.CounterInc(metrics.OrdersPlaced)
	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("username", p.Username),
		zap.Float64("total", order.TotalAmount),
		zap.Int("items", len(order.Items)))
	s.bus.Publish(TopicOrderCreated, OrderCreatedEvent{Order: order, Username: p.Username})
	return order, nil
}

// GetMyOrders returns the caller's orders in persistence order.
func (s *Service) GetMyOrders(ctx context.Context, p auth.Principal) ([]domain.Order, error) {
	if err := auth.RequireRole(p, domain.RoleCustomer); err != nil {
		return nil, err
	}
	return s.store.OrdersByUser(ctx, p.UserID)
}

// GetAllOrders returns every order; admin only.
func (s *Service) GetAllOrders(ctx context.Context, p auth.Principal) ([]domain.Order, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.AllOrders(ctx)
}

// GetOrderByID returns one order. Customers may only read their own;
// admins may read any.
func (s *Service) GetOrderByID(ctx context.Context, p auth.Principal, id int64) (*domain.Order, error) {
	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role == domain.RoleCustomer && order.UserID != p.UserID {
		return nil, errors.Wrap(domain.ErrForbidden, "not the order owner")
	}
	return order, nil
}

// UpdateOrderStatus validates and applies a fulfillment transition;
// admin only.
func (s *Service) UpdateOrderStatus(ctx context.Context, p auth.Principal, id int64, status string) (*domain.Order, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateStatusTransition(order.Status, status); err != nil {
		return nil, err
	}
	// guarded write: if another operator changed the status since the
	// read above, the update misses and fails instead of clobbering
	// the concurrent change.
	if err := s.store.SetOrderStatus(ctx, id, order.Status, status); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = status
	order.UpdatedAt = time.Now()
	zap.L().Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("from", from),
		zap.String("to", status),
		zap.String("operator", p.Username))
	s.bus.Publish(TopicOrderStatusChanged, OrderStatusChangedEvent{
		OrderID:    id,
		UserID:     order.UserID,
		FromStatus: from,
		ToStatus:   status,
	})
	return order, nil
}
