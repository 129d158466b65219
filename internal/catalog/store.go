package catalog

import (
	"context"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is the persistence surface of the catalog. Lookups by id report
// ErrNotFound for missing rows.
type Store interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	SaveCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryByID(ctx context.Context, id int64) (*domain.Category, error)

	CreateProduct(ctx context.Context, product *domain.Product) error
	SaveProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *gormStore) SaveCategory(ctx context.Context, category *domain.Category) error {
	return s.db.WithContext(ctx).Save(category).Error
}

func (s *gormStore) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.Category{}, id).Error
}

func (s *gormStore) CategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "category %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *gormStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *gormStore) SaveProduct(ctx context.Context, product *domain.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *gormStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (s *gormStore) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "product %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	var products []domain.Product
	err := s.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id").Find(&products).Error
	return products, err
}
