package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError reports a product field that violates a domain invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Predefined invariant violations. Length and precision rules are enforced by
// the input validator before an entity is ever constructed; the entity only
// guards the invariants that must hold at all times.
var (
	ErrNameRequired  = &ValidationError{Field: "name", Message: "name required"}
	ErrPriceInvalid  = &ValidationError{Field: "price", Message: "price must be positive"}
	ErrStockNegative = &ValidationError{Field: "stockQuantity", Message: "stock cannot be negative"}
)

// Product is the catalog entity. Fields are unexported so that every mutation
// goes through a validating path; an instance can never hold an invalid state,
// not even transiently.
type Product struct {
	id            uuid.UUID
	name          string
	description   *string
	price         decimal.Decimal
	stockQuantity int
}

// NewProduct constructs a product with a freshly assigned time-ordered id.
func NewProduct(name string, price decimal.Decimal, stockQuantity int, description *string) (*Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("domain: failed to generate product id: %w", err)
	}
	return Rehydrate(id, name, price, stockQuantity, description)
}

// Rehydrate constructs a product with a known id, e.g. when scanning a stored
// row. The same invariants apply.
func Rehydrate(id uuid.UUID, name string, price decimal.Decimal, stockQuantity int, description *string) (*Product, error) {
	p := &Product{id: id, description: description}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetStockQuantity(stockQuantity); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() *string   { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) StockQuantity() int     { return p.stockQuantity }

// SetName validates then assigns; the stored name is unchanged on failure.
func (p *Product) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	p.name = name
	return nil
}

// SetDescription assigns the optional description. Length is capped by the
// input validator, not here.
func (p *Product) SetDescription(description *string) {
	p.description = description
}

// SetPrice validates then assigns; the stored price is unchanged on failure.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrPriceInvalid
	}
	p.price = price
	return nil
}

// SetStockQuantity validates then assigns; the stored quantity is unchanged on
// failure.
func (p *Product) SetStockQuantity(stockQuantity int) error {
	if stockQuantity < 0 {
		return ErrStockNegative
	}
	p.stockQuantity = stockQuantity
	return nil
}
