package apicontract_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/prakasa-labs/products-api/api-contract"
)

func TestEmbeddedSpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(apicontract.GetSpecBytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{
		"/products",
		"/products/{productID}",
		"/products/sku/{sku}",
		"/healthz",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "path %s missing from contract", path)
	}
}
