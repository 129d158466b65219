package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/pkg/errors"
)

// Service is the catalog directory: category and product CRUD with
// admin-gated writes and open reads.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CategoryInput struct {
	Name        string
	Description string
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  int64
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return errors.Wrap(domain.ErrInvalidInput, "product name is required")
	}
	if in.Price < 0 {
		return errors.Wrap(domain.ErrInvalidInput, "price must not be negative")
	}
	if in.Stock < 0 {
		return errors.Wrap(domain.ErrInvalidInput, "stock must not be negative")
	}
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, p auth.Principal, in CategoryInput) (*domain.Category, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "category name is required")
	}
	now := time.Now()
	category := &domain.Category{
		ID:          common.UUIDint64(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, p auth.Principal, id int64, in CategoryInput) (*domain.Category, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "category name is required")
	}
	category, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = in.Name
	category.Description = strings.TrimSpace(in.Description)
	category.UpdatedAt = time.Now()
	if err := s.store.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, p auth.Principal, id int64) error {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.store.CategoryByID(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, id)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.store.CategoryByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p auth.Principal, in ProductInput) (*domain.Product, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.CategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &domain.Product{
		ID:          common.UUIDint64(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryId:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p auth.Principal, id int64, in ProductInput) (*domain.Product, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.CategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.Description = strings.TrimSpace(in.Description)
	product.Price = in.Price
	product.Stock = in.Stock
	product.CategoryId = in.CategoryID
	product.UpdatedAt = time.Now()
	if err := s.store.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, p auth.Principal, id int64) error {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.store.ProductByID(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.ProductByID(ctx, id)
}

func (s *Service) ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if _, err := s.store.CategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.store.ProductsByCategory(ctx, categoryID)
}
