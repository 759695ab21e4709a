package apperr

import "github.com/prakasa-labs/products-api/pkg/zerror"

const (
	ProductNotFoundCode  = "PRODUCT_NOT_FOUND"
	SkuAlreadyExistsCode = "SKU_ALREADY_EXISTS"
	ValidationErrorCode  = "VALIDATION_FAILED"
)

var (
	ProductNotFoundErr  = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	SkuAlreadyExistsErr = zerror.NewConflict(SkuAlreadyExistsCode, "sku already exists")
	ValidationErr       = zerror.NewUnprocessableEntity(ValidationErrorCode, "validation error")
)
