package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"catalog-service/internal/domain"
	"catalog-service/internal/store"
)

// User-facing messages. NotFound and unexpected failures are deliberately
// fixed strings; the real cause of an unexpected failure only reaches the log.
const (
	msgNotFound      = "product not found"
	msgDuplicateName = "a product with that name already exists"
	msgUnexpected    = "operation failed"
)

// ProductService orchestrates validation, the duplicate-name business rule,
// id-or-name resolution and envelope construction. Every operation is wrapped
// in a failure boundary: no error value ever escapes to the caller.
type ProductService struct {
	store    store.ProductStorer
	validate Validator
	logger   *slog.Logger
}

// NewProductService creates a new ProductService with its collaborators.
func NewProductService(st store.ProductStorer, validate Validator, logger *slog.Logger) *ProductService {
	return &ProductService{store: st, validate: validate, logger: logger}
}

// List returns one page of products. The same search term feeds both the
// listing and the total count, so pagination never affects the count. Page
// defaults to 1; pageSize defaults to the number of returned items when not
// supplied. Clamping to valid ranges is the transport boundary's job.
func (s *ProductService) List(ctx context.Context, page, pageSize *int, search *string, sort []store.SortKey) PagedResult[ProductData] {
	products, err := s.store.ListProducts(ctx, store.ListProductsParams{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		Sort:     sort,
	})
	if err != nil {
		s.logError(ctx, "failed to list products", err)
		return FailPage[ProductData](msgUnexpected, StatusUnexpectedError)
	}

	totalCount, err := s.store.CountProducts(ctx, search)
	if err != nil {
		s.logError(ctx, "failed to count products", err)
		return FailPage[ProductData](msgUnexpected, StatusUnexpectedError)
	}

	data := make([]ProductData, 0, len(products))
	for i := range products {
		data = append(data, productData(&products[i]))
	}

	echoPage := 1
	if page != nil {
		echoPage = *page
	}
	echoPageSize := len(data)
	if pageSize != nil {
		echoPageSize = *pageSize
	}
	return OKPage(data, totalCount, echoPage, echoPageSize)
}

// GetByIDOrName looks a product up by id when token parses as one, otherwise
// by exact (trimmed) name.
func (s *ProductService) GetByIDOrName(ctx context.Context, token string) TypedResult[ProductData] {
	product, err := s.resolve(ctx, token)
	if err != nil {
		s.logError(ctx, "failed to get product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}
	if product == nil {
		return Fail[ProductData](msgNotFound, StatusNotFound)
	}
	return OK(productData(product))
}

// Create validates the input, enforces name uniqueness and persists a new
// product. Ordering is fixed: validate, then duplicate-check, then persist,
// so a malformed duplicate request always reports the validation error.
func (s *ProductService) Create(ctx context.Context, input ProductInput) TypedResult[ProductData] {
	if errs := s.validate.Validate(input); len(errs) > 0 {
		return ValidationFailure[ProductData](errs)
	}

	name := strings.TrimSpace(input.Name)
	existing, err := s.store.GetProductByName(ctx, name)
	if err != nil {
		s.logError(ctx, "failed to create product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}
	if existing != nil {
		return Fail[ProductData](msgDuplicateName, StatusError)
	}

	product, err := domain.NewProduct(name, input.Price, input.StockQuantity, input.Description)
	if err != nil {
		// Unreachable when the validator rules hold; treated as a fault.
		s.logError(ctx, "failed to create product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}

	if err := s.store.AddProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrProductNameExists) {
			return Fail[ProductData](msgDuplicateName, StatusError)
		}
		s.logError(ctx, "failed to create product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}
	return OK(productData(product))
}

// Update validates the input, resolves token by id-or-name, enforces that no
// other product holds the new name, then applies all four mutable fields and
// persists.
func (s *ProductService) Update(ctx context.Context, token string, input ProductInput) TypedResult[ProductData] {
	if errs := s.validate.Validate(input); len(errs) > 0 {
		return ValidationFailure[ProductData](errs)
	}

	product, err := s.resolve(ctx, token)
	if err != nil {
		s.logError(ctx, "failed to update product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}
	if product == nil {
		return Fail[ProductData](msgNotFound, StatusNotFound)
	}

	name := strings.TrimSpace(input.Name)
	existing, err := s.store.GetProductByName(ctx, name)
	if err != nil {
		s.logError(ctx, "failed to update product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}
	if existing != nil && existing.ID() != product.ID() {
		return Fail[ProductData](msgDuplicateName, StatusError)
	}

	if err := applyInput(product, name, input); err != nil {
		// Unreachable when the validator rules hold; treated as a fault.
		s.logError(ctx, "failed to update product", err)
		return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNameExists):
			return Fail[ProductData](msgDuplicateName, StatusError)
		case errors.Is(err, store.ErrProductNotFound):
			return Fail[ProductData](msgNotFound, StatusNotFound)
		default:
			s.logError(ctx, "failed to update product", err)
			return Fail[ProductData](msgUnexpected, StatusUnexpectedError)
		}
	}
	return OK(productData(product))
}

// Delete removes a product by id. There is no name fallback here.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) Result {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		s.logError(ctx, "failed to delete product", err)
		return FailResult(msgUnexpected, StatusUnexpectedError)
	}
	if product == nil {
		return FailResult(msgNotFound, StatusNotFound)
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return FailResult(msgNotFound, StatusNotFound)
		}
		s.logError(ctx, "failed to delete product", err)
		return FailResult(msgUnexpected, StatusUnexpectedError)
	}
	return OKResult()
}

func (s *ProductService) resolve(ctx context.Context, token string) (*domain.Product, error) {
	if id, err := uuid.Parse(token); err == nil {
		return s.store.GetProductByID(ctx, id)
	}
	return s.store.GetProductByName(ctx, strings.TrimSpace(token))
}

func applyInput(product *domain.Product, trimmedName string, input ProductInput) error {
	if err := product.SetName(trimmedName); err != nil {
		return err
	}
	product.SetDescription(input.Description)
	if err := product.SetPrice(input.Price); err != nil {
		return err
	}
	return product.SetStockQuantity(input.StockQuantity)
}

func (s *ProductService) logError(ctx context.Context, event string, err error) {
	s.logger.ErrorContext(ctx, event, slog.Any("error", err))
}
