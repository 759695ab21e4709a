package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prakasa-labs/products-api/internal/apperr"
	"github.com/prakasa-labs/products-api/internal/model"
	"github.com/prakasa-labs/products-api/internal/repository"
	"github.com/prakasa-labs/products-api/pkg/optional"
	"github.com/prakasa-labs/products-api/pkg/validator"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for a unique constraint
// violation.
const uniqueViolationCode = "23505"

type ListProductsParams struct {
	Search    *string
	MinPrice  *float64 `validate:"omitempty,gte=0"`
	MaxPrice  *float64 `validate:"omitempty,gte=0"`
	IsActive  *bool
	SortBy    string
	SortOrder string
	Limit     int32 `validate:"gte=1,lte=200"`
	Offset    int32 `validate:"gte=0"`
}

type CreateProductParams struct {
	Sku         string  `validate:"required,min=1,max=64"`
	Name        string  `validate:"required,min=1,max=200"`
	Description *string `validate:"omitempty,max=2000"`
	Price       float64 `validate:"gte=0"`
	Currency    string  `validate:"omitempty,len=3"`
	Stock       int     `validate:"gte=0"`
	IsActive    *bool
}

type UpdateProductParams struct {
	Sku         *string `validate:"omitempty,min=1,max=64"`
	Name        *string `validate:"omitempty,min=1,max=200"`
	Description optional.Optional[string]
	Price       *float64 `validate:"omitempty,gte=0"`
	Currency    *string  `validate:"omitempty,len=3"`
	Stock       *int     `validate:"omitempty,gte=0"`
	IsActive    *bool
}

type ProductService interface {
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	validator   validator.Validator
}

func NewProductService(
	productRepo repository.ProductRepository,
	validator validator.Validator,
) ProductService {
	return &productService{
		productRepo: productRepo,
		validator:   validator,
	}
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	// An inverted price range (min > max) is passed through as-is and
	// simply yields an empty page.
	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Search:    params.Search,
		MinPrice:  params.MinPrice,
		MaxPrice:  params.MaxPrice,
		IsActive:  params.IsActive,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("product repository get product by id: %w", err)
	}

	return product, nil
}

func (s *productService) GetProductBySku(ctx context.Context, sku string) (model.Product, error) {
	product, err := s.productRepo.GetProductBySku(ctx, sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("product repository get product by sku: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}
	isActive := true
	if params.IsActive != nil {
		isActive = *params.IsActive
	}

	// Uniqueness is enforced by the store constraint, not a pre-check, so
	// there is no race between check and insert.
	product, err := s.productRepo.CreateProduct(ctx, repository.CreateProductParams{
		ID:          id,
		Sku:         params.Sku,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Currency:    currency,
		Stock:       params.Stock,
		IsActive:    isActive,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Product{}, apperr.SkuAlreadyExistsErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	product, err := s.productRepo.UpdateProduct(ctx, id, repository.UpdateProductParams{
		Sku:         params.Sku,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Currency:    params.Currency,
		Stock:       params.Stock,
		IsActive:    params.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		if isUniqueViolation(err) {
			return model.Product{}, apperr.SkuAlreadyExistsErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	affected, err := s.productRepo.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("product repository delete product: %w", err)
	}
	if affected == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
