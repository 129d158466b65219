package ordering

import (
	"context"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is the persistence surface of the order workflow.
//
// ReserveStock is the inventory ledger: one atomic conditional decrement
// per call. WithinTx runs fn against a transactional view of the store;
// an error from fn rolls back every reservation applied inside it.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	ReserveStock(ctx context.Context, productID int64, quantity int) (unitPrice float64, err error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	OrderByID(ctx context.Context, id int64) (*domain.Order, error)
	OrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, id int64, fromStatus, toStatus string) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// ReserveStock decrements stock with a single guarded UPDATE so that two
// concurrent reservations can never drive the count negative. The price
// snapshot is read inside the same transaction.
func (s *gormStore) ReserveStock(ctx context.Context, productID int64, quantity int) (float64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ?", productID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, errors.Wrapf(domain.ErrNotFound, "product %d", productID)
		}
		return 0, errors.Wrapf(domain.ErrInsufficientStock, "product %d", productID)
	}

	var product domain.Product
	if err := s.db.WithContext(ctx).Select("price").
		Where("id = ?", productID).First(&product).Error; err != nil {
		return 0, err
	}
	return product.Price, nil
}

func (s *gormStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *gormStore) OrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "order %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *gormStore) OrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("id").Find(&orders).Error
	return orders, err
}

func (s *gormStore) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).Preload("Items").Order("id").Find(&orders).Error
	return orders, err
}

// SetOrderStatus applies the transition with a guarded UPDATE so a
// concurrent status change cannot be overwritten; the caller validated
// the transition against fromStatus.
func (s *gormStore) SetOrderStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	res := s.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{"status": toStatus, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current domain.Order
		err := s.db.WithContext(ctx).Select("status").Where("id = ?", id).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(domain.ErrNotFound, "order %d", id)
		}
		if err != nil {
			return err
		}
		return errors.Wrapf(domain.ErrInvalidTransition, "order %d is %s, not %s", id, current.Status, fromStatus)
	}
	return nil
}
