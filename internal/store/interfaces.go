package store

import (
	"context"

	"github.com/google/uuid"

	"catalog-service/internal/domain"
)

// Sort directions as they appear in sort specifications.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// SortKey is one field of an ordered multi-key sort specification. Slice
// order defines tie-break precedence. Unknown field names are skipped by the
// store rather than rejected.
type SortKey struct {
	Field     string
	Direction string
}

// ListProductsParams holds parameters for listing products. Pagination is
// applied only when both Page and PageSize are supplied; otherwise the full
// filtered, sorted set is returned.
type ListProductsParams struct {
	Page     *int
	PageSize *int
	Search   *string
	Sort     []SortKey
}

// ProductStorer defines the storage operations the service requires. Point
// lookups report absence as (nil, nil), not as an error; Update and Delete on
// a missing id return ErrProductNotFound.
type ProductStorer interface {
	CountProducts(ctx context.Context, search *string) (int, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
