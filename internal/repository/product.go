package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/prakasa-labs/products-api/internal/model"
	"github.com/prakasa-labs/products-api/internal/storage/db"
	"github.com/prakasa-labs/products-api/pkg/optional"
)

// ListProductsParams are the filter, sort and pagination inputs for a
// product listing. Nil filters are omitted from the query. All filters
// compose with AND; the search term matches sku, name and description
// case-insensitively and composes those three with OR.
type ListProductsParams struct {
	Search    *string
	MinPrice  *float64
	MaxPrice  *float64
	IsActive  *bool
	SortBy    string
	SortOrder string
	Limit     int32
	Offset    int32
}

type CreateProductParams struct {
	ID          uuid.UUID
	Sku         string
	Name        string
	Description *string
	Price       float64
	Currency    string
	Stock       int
	IsActive    bool
}

// UpdateProductParams is a sparse field set: nil pointers leave the column
// untouched. Description is tri-state because an explicit null clears it.
type UpdateProductParams struct {
	Sku         *string
	Name        *string
	Description optional.Optional[string]
	Price       *float64
	Currency    *string
	Stock       *int
	IsActive    *bool
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = "id, sku, name, description, price, currency, stock, is_active, created_at, updated_at"

// sortColumns is the allow-list of sortable columns. Anything outside it
// silently falls back to created_at so callers cannot inject identifiers.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"price":      "price",
	"name":       "name",
	"stock":      "stock",
	"sku":        "sku",
}

func sortColumn(sortBy string) string {
	if col, ok := sortColumns[sortBy]; ok {
		return col
	}
	return "created_at"
}

func sortDirection(sortOrder string) string {
	if sortOrder == "desc" {
		return "DESC"
	}
	return "ASC"
}

// buildListQuery assembles the listing statement with bound parameters only;
// no caller input is ever interpolated into the SQL text.
func buildListQuery(params ListProductsParams) (string, []any) {
	var (
		sb    strings.Builder
		args  []any
		conds []string
	)

	sb.WriteString("SELECT " + productColumns + " FROM products")

	if params.Search != nil && *params.Search != "" {
		args = append(args, "%"+*params.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(sku ILIKE $%d OR name ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if params.MinPrice != nil {
		args = append(args, *params.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if params.MaxPrice != nil {
		args = append(args, *params.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	// No secondary tie-break column: rows with equal sort keys come back in
	// the store's natural order.
	sb.WriteString(" ORDER BY " + sortColumn(params.SortBy) + " " + sortDirection(params.SortOrder))

	args = append(args, params.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, params.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

// buildUpdateQuery assembles a single UPDATE statement covering exactly the
// supplied fields. updated_at is refreshed as part of the same statement.
// Returns ok=false when the sparse set is empty.
func buildUpdateQuery(id uuid.UUID, params UpdateProductParams) (string, []any, bool) {
	var (
		sets []string
		args []any
	)

	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Sku != nil {
		set("sku", *params.Sku)
	}
	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Description.Present() {
		set("description", params.Description.Value())
	}
	if params.Price != nil {
		set("price", numericFromFloat(*params.Price))
	}
	if params.Currency != nil {
		set("currency", *params.Currency)
	}
	if params.Stock != nil {
		set("stock", *params.Stock)
	}
	if params.IsActive != nil {
		set("is_active", *params.IsActive)
	}

	if len(sets) == 0 {
		return "", nil, false
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), productColumns)

	return query, args, true
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	query, args := buildListQuery(params)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) GetProductBySku(ctx context.Context, sku string) (model.Product, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE sku = $1", sku)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by sku: %w", err)
	}

	return product, nil
}

func (r productRepository) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if params.Stock > math.MaxInt32 {
		return model.Product{}, fmt.Errorf("stock out of range: %d", params.Stock)
	}

	// RETURNING re-reads the row as stored so server-assigned timestamps
	// come back with the result.
	row := r.db.QueryRow(ctx,
		`INSERT INTO products (id, sku, name, description, price, currency, stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+productColumns,
		params.ID, params.Sku, params.Name, params.Description,
		numericFromFloat(params.Price), params.Currency, params.Stock, params.IsActive)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	query, args, ok := buildUpdateQuery(id, params)
	if !ok {
		// Empty sparse set: idempotent re-read, updated_at untouched.
		return r.GetProductByID(ctx, id)
	}

	product, err := scanProduct(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	return tag.RowsAffected(), nil
}

// numericFromFloat converts a price to a scale-2 numeric for the wire.
func numericFromFloat(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	// strconv never produces a string this Scan rejects
	_ = n.Scan(strconv.FormatFloat(f, 'f', 2, 64))
	return n
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
	)

	if err := row.Scan(
		&product.ID, &product.Sku, &product.Name, &product.Description,
		&price, &product.Currency, &product.Stock, &product.IsActive,
		&product.CreatedAt, &product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	priceValue, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	product.Price = priceValue.Float64

	return product, nil
}
