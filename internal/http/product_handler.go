package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prakasa-labs/products-api/internal/apperr"
	"github.com/prakasa-labs/products-api/internal/service"
	"github.com/prakasa-labs/products-api/pkg/optional"
	"github.com/prakasa-labs/products-api/pkg/ptr"
)

type respondJSONFunc func(w http.ResponseWriter, r *http.Request, status int, v any)
type respondErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

type productHandler struct {
	productSvc   service.ProductService
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
}

func newProductHandler(
	productSvc service.ProductService,
	respondJSON respondJSONFunc,
	respondError respondErrorFunc,
) *productHandler {
	return &productHandler{
		productSvc:   productSvc,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	products, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, products)
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) getProductBySku(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.GetProductBySku(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, product)
}

type createProductRequest struct {
	Sku         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperr.ValidationErr.WrapParent(fmt.Errorf("decode body: %w", err)))
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Sku:         req.Sku,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusCreated, product)
}

type updateProductRequest struct {
	Sku         *string                   `json:"sku"`
	Name        *string                   `json:"name"`
	Description optional.Optional[string] `json:"description"`
	Price       *float64                  `json:"price"`
	Currency    *string                   `json:"currency"`
	Stock       *int                      `json:"stock"`
	IsActive    *bool                     `json:"is_active"`
}

func (h *productHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperr.ValidationErr.WrapParent(fmt.Errorf("decode body: %w", err)))
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Sku:         req.Sku,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.UUID{}, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid product id: %w", err))
	}
	return id, nil
}

func parseListParams(r *http.Request) (service.ListProductsParams, error) {
	q := r.URL.Query()

	// Unknown sort_by/sort_order values are deliberately not rejected here;
	// the query builder falls back to created_at/ascending.
	params := service.ListProductsParams{
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     50,
	}

	if v := q.Get("search"); v != "" {
		params.Search = ptr.New(v)
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid min_price: %w", err))
		}
		params.MinPrice = &f
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid max_price: %w", err))
		}
		params.MaxPrice = &f
	}
	if v := q.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return params, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid is_active: %w", err))
		}
		params.IsActive = &b
	}
	if v := q.Get("sort_by"); v != "" {
		params.SortBy = v
	}
	if v := q.Get("sort_order"); v != "" {
		params.SortOrder = v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return params, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid limit: %w", err))
		}
		params.Limit = int32(n)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return params, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid offset: %w", err))
		}
		params.Offset = int32(n)
	}

	return params, nil
}
