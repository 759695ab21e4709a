package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prakasa-labs/products-api/internal/seed"
)

func TestCatalogRespectsProductConstraints(t *testing.T) {
	assert.Len(t, seed.Catalog, 20)

	skus := make(map[string]struct{}, len(seed.Catalog))
	for _, row := range seed.Catalog {
		_, dup := skus[row.Sku]
		assert.False(t, dup, "duplicate sku %s", row.Sku)
		skus[row.Sku] = struct{}{}

		assert.NotEmpty(t, row.Sku)
		assert.LessOrEqual(t, len(row.Sku), 64)
		assert.NotEmpty(t, row.Name)
		assert.LessOrEqual(t, len(row.Name), 200)
		assert.GreaterOrEqual(t, row.Price, 0.0)
		assert.Len(t, row.Currency, 3)
		assert.GreaterOrEqual(t, row.Stock, 0)
	}
}
