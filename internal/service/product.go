package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalog-service/internal/domain"
)

// ProductInput is the payload accepted by create and update. Full-replace
// semantics: all fields are validated together on every mutation.
type ProductInput struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description" validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
}

// ProductData is the product shape returned inside result envelopes.
type ProductData struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:            p.ID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price(),
		StockQuantity: p.StockQuantity(),
	}
}

// Validator is the input validation collaborator. A nil or empty return means
// the input passed; the service does not interpret individual findings beyond
// joining their messages.
type Validator interface {
	Validate(input ProductInput) []FieldError
}
