package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prakasa-labs/products-api/internal/apperr"
	"github.com/prakasa-labs/products-api/internal/model"
	"github.com/prakasa-labs/products-api/internal/repository"
	"github.com/prakasa-labs/products-api/internal/service"
	"github.com/prakasa-labs/products-api/internal/storage/db"
	"github.com/prakasa-labs/products-api/pkg/ptr"
	"github.com/prakasa-labs/products-api/pkg/validator"
)

type fakeProductRepo struct {
	listFn   func(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error)
	getFn    func(ctx context.Context, id uuid.UUID) (model.Product, error)
	getSkuFn func(ctx context.Context, sku string) (model.Product, error)
	createFn func(ctx context.Context, params repository.CreateProductParams) (model.Product, error)
	updateFn func(ctx context.Context, id uuid.UUID, params repository.UpdateProductParams) (model.Product, error)
	deleteFn func(ctx context.Context, id uuid.UUID) (int64, error)
}

func (f *fakeProductRepo) WithDB(_ db.DB) repository.ProductRepository { return f }

func (f *fakeProductRepo) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	return f.listFn(ctx, params)
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return f.getFn(ctx, id)
}

func (f *fakeProductRepo) GetProductBySku(ctx context.Context, sku string) (model.Product, error) {
	return f.getSkuFn(ctx, sku)
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, params repository.CreateProductParams) (model.Product, error) {
	return f.createFn(ctx, params)
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, id uuid.UUID, params repository.UpdateProductParams) (model.Product, error) {
	return f.updateFn(ctx, id, params)
}

func (f *fakeProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.deleteFn(ctx, id)
}

func newService(repo repository.ProductRepository) service.ProductService {
	return service.NewProductService(repo, validator.NewDefaultValidator())
}

func uniqueViolation() error {
	return fmt.Errorf("create product: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "products_sku_key",
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and generates id", func(t *testing.T) {
		var got repository.CreateProductParams
		repo := &fakeProductRepo{
			createFn: func(_ context.Context, params repository.CreateProductParams) (model.Product, error) {
				got = params
				return model.Product{ID: params.ID, Sku: params.Sku}, nil
			},
		}

		_, err := newService(repo).CreateProduct(ctx, service.CreateProductParams{
			Sku:   "X1",
			Name:  "n",
			Price: 9.99,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, got.ID)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, 0, got.Stock)
		assert.True(t, got.IsActive)
		assert.Nil(t, got.Description)
	})

	t.Run("explicit fields override defaults", func(t *testing.T) {
		var got repository.CreateProductParams
		repo := &fakeProductRepo{
			createFn: func(_ context.Context, params repository.CreateProductParams) (model.Product, error) {
				got = params
				return model.Product{}, nil
			},
		}

		_, err := newService(repo).CreateProduct(ctx, service.CreateProductParams{
			Sku:      "X1",
			Name:     "n",
			Price:    9.99,
			Currency: "EUR",
			Stock:    3,
			IsActive: ptr.New(false),
		})

		require.NoError(t, err)
		assert.Equal(t, "EUR", got.Currency)
		assert.Equal(t, 3, got.Stock)
		assert.False(t, got.IsActive)
	})

	t.Run("unique violation becomes duplicate sku error", func(t *testing.T) {
		repo := &fakeProductRepo{
			createFn: func(context.Context, repository.CreateProductParams) (model.Product, error) {
				return model.Product{}, uniqueViolation()
			},
		}

		_, err := newService(repo).CreateProduct(ctx, service.CreateProductParams{
			Sku:   "DUP",
			Name:  "n",
			Price: 1,
		})

		assert.ErrorContains(t, err, apperr.SkuAlreadyExistsCode)
	})

	t.Run("validation failures never reach the repository", func(t *testing.T) {
		repo := &fakeProductRepo{
			createFn: func(context.Context, repository.CreateProductParams) (model.Product, error) {
				t.Fatal("repository should not be called")
				return model.Product{}, nil
			},
		}
		svc := newService(repo)

		tests := []struct {
			name   string
			params service.CreateProductParams
		}{
			{"missing sku", service.CreateProductParams{Name: "n", Price: 1}},
			{"sku too long", service.CreateProductParams{Sku: longString(65), Name: "n", Price: 1}},
			{"missing name", service.CreateProductParams{Sku: "X1", Price: 1}},
			{"name too long", service.CreateProductParams{Sku: "X1", Name: longString(201), Price: 1}},
			{"negative price", service.CreateProductParams{Sku: "X1", Name: "n", Price: -0.01}},
			{"bad currency", service.CreateProductParams{Sku: "X1", Name: "n", Price: 1, Currency: "EURO"}},
			{"negative stock", service.CreateProductParams{Sku: "X1", Name: "n", Price: 1, Stock: -1}},
			{"description too long", service.CreateProductParams{Sku: "X1", Name: "n", Price: 1, Description: ptr.New(longString(2001))}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateProduct(ctx, tt.params)
				assert.ErrorContains(t, err, apperr.ValidationErrorCode)
			})
		}
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := &fakeProductRepo{
			getFn: func(_ context.Context, gotID uuid.UUID) (model.Product, error) {
				assert.Equal(t, id, gotID)
				return model.Product{ID: id, Sku: "X1"}, nil
			},
		}

		product, err := newService(repo).GetProduct(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "X1", product.Sku)
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		repo := &fakeProductRepo{
			getFn: func(context.Context, uuid.UUID) (model.Product, error) {
				return model.Product{}, fmt.Errorf("get product by id: %w", pgx.ErrNoRows)
			},
		}

		_, err := newService(repo).GetProduct(ctx, id)

		assert.ErrorContains(t, err, apperr.ProductNotFoundCode)
	})

	t.Run("store failure is not reinterpreted", func(t *testing.T) {
		repo := &fakeProductRepo{
			getFn: func(context.Context, uuid.UUID) (model.Product, error) {
				return model.Product{}, fmt.Errorf("get product by id: connection refused")
			},
		}

		_, err := newService(repo).GetProduct(ctx, id)

		require.Error(t, err)
		assert.NotContains(t, err.Error(), apperr.ProductNotFoundCode)
	})
}

func TestGetProductBySku(t *testing.T) {
	ctx := context.Background()

	t.Run("no rows becomes not found", func(t *testing.T) {
		repo := &fakeProductRepo{
			getSkuFn: func(context.Context, string) (model.Product, error) {
				return model.Product{}, fmt.Errorf("get product by sku: %w", pgx.ErrNoRows)
			},
		}

		_, err := newService(repo).GetProductBySku(ctx, "NOPE")

		assert.ErrorContains(t, err, apperr.ProductNotFoundCode)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("passes sparse fields through", func(t *testing.T) {
		var got repository.UpdateProductParams
		repo := &fakeProductRepo{
			updateFn: func(_ context.Context, _ uuid.UUID, params repository.UpdateProductParams) (model.Product, error) {
				got = params
				return model.Product{ID: id}, nil
			},
		}

		_, err := newService(repo).UpdateProduct(ctx, id, service.UpdateProductParams{
			Stock: ptr.New(5),
		})

		require.NoError(t, err)
		assert.Equal(t, 5, *got.Stock)
		assert.Nil(t, got.Sku)
		assert.Nil(t, got.Name)
		assert.Nil(t, got.Price)
		assert.False(t, got.Description.Present())
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		repo := &fakeProductRepo{
			updateFn: func(context.Context, uuid.UUID, repository.UpdateProductParams) (model.Product, error) {
				return model.Product{}, fmt.Errorf("update product: %w", pgx.ErrNoRows)
			},
		}

		_, err := newService(repo).UpdateProduct(ctx, id, service.UpdateProductParams{Stock: ptr.New(5)})

		assert.ErrorContains(t, err, apperr.ProductNotFoundCode)
	})

	t.Run("unique violation becomes duplicate sku error", func(t *testing.T) {
		repo := &fakeProductRepo{
			updateFn: func(context.Context, uuid.UUID, repository.UpdateProductParams) (model.Product, error) {
				return model.Product{}, uniqueViolation()
			},
		}

		_, err := newService(repo).UpdateProduct(ctx, id, service.UpdateProductParams{Sku: ptr.New("DUP")})

		assert.ErrorContains(t, err, apperr.SkuAlreadyExistsCode)
	})

	t.Run("invalid sparse fields are rejected", func(t *testing.T) {
		repo := &fakeProductRepo{
			updateFn: func(context.Context, uuid.UUID, repository.UpdateProductParams) (model.Product, error) {
				t.Fatal("repository should not be called")
				return model.Product{}, nil
			},
		}

		_, err := newService(repo).UpdateProduct(ctx, id, service.UpdateProductParams{
			Price: ptr.New(-1.0),
		})

		assert.ErrorContains(t, err, apperr.ValidationErrorCode)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("deletes once", func(t *testing.T) {
		repo := &fakeProductRepo{
			deleteFn: func(context.Context, uuid.UUID) (int64, error) { return 1, nil },
		}

		assert.NoError(t, newService(repo).DeleteProduct(ctx, id))
	})

	t.Run("zero rows affected becomes not found", func(t *testing.T) {
		repo := &fakeProductRepo{
			deleteFn: func(context.Context, uuid.UUID) (int64, error) { return 0, nil },
		}

		err := newService(repo).DeleteProduct(ctx, id)

		assert.ErrorContains(t, err, apperr.ProductNotFoundCode)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filters through untouched", func(t *testing.T) {
		var got repository.ListProductsParams
		repo := &fakeProductRepo{
			listFn: func(_ context.Context, params repository.ListProductsParams) ([]model.Product, error) {
				got = params
				return []model.Product{}, nil
			},
		}

		_, err := newService(repo).ListProducts(ctx, service.ListProductsParams{
			Search:    ptr.New("usb"),
			MinPrice:  ptr.New(1.0),
			IsActive:  ptr.New(true),
			SortBy:    "bogus",
			SortOrder: "sideways",
			Limit:     50,
			Offset:    10,
		})

		require.NoError(t, err)
		assert.Equal(t, "usb", *got.Search)
		assert.Equal(t, 1.0, *got.MinPrice)
		assert.True(t, *got.IsActive)
		// permissive by contract: the query builder handles the fallback
		assert.Equal(t, "bogus", got.SortBy)
		assert.Equal(t, "sideways", got.SortOrder)
	})

	t.Run("limit outside 1..200 is rejected", func(t *testing.T) {
		repo := &fakeProductRepo{
			listFn: func(context.Context, repository.ListProductsParams) ([]model.Product, error) {
				t.Fatal("repository should not be called")
				return nil, nil
			},
		}
		svc := newService(repo)

		for _, limit := range []int32{0, 201} {
			_, err := svc.ListProducts(ctx, service.ListProductsParams{Limit: limit})
			assert.ErrorContains(t, err, apperr.ValidationErrorCode)
		}
	})

	t.Run("negative price bound is rejected", func(t *testing.T) {
		repo := &fakeProductRepo{}
		svc := newService(repo)

		_, err := svc.ListProducts(ctx, service.ListProductsParams{
			MinPrice: ptr.New(-1.0),
			Limit:    50,
		})

		assert.ErrorContains(t, err, apperr.ValidationErrorCode)
	})
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
