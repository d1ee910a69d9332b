package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"catalog-service/internal/domain"
)

// Predefined errors for store operations.
var (
	ErrProductNotFound   = errors.New("store: product not found")
	ErrProductNameExists = errors.New("store: product name already exists")
)

const productColumns = "id, name, description, price, stock_quantity"

// sortColumns is the allow-list of sortable fields. Keys are compared
// case-insensitively; anything else in a sort specification is ignored.
var sortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"description":   "description",
	"price":         "price",
	"stockquantity": "stock_quantity",
}

// PostgresStore implements the ProductStorer interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CountProducts(ctx context.Context, search *string) (int, error) {
	query := "SELECT COUNT(*) FROM products"
	var args []interface{}
	if search != nil && *search != "" {
		query += " WHERE name LIKE $1"
		args = append(args, "%"+*search+"%")
	}

	var totalCount int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totalCount); err != nil {
		return 0, fmt.Errorf("store: CountProducts failed to count products: %w", err)
	}
	return totalCount, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error) {
	var args []interface{}
	whereCondition := ""
	if params.Search != nil && *params.Search != "" {
		whereCondition = " WHERE name LIKE $1"
		args = append(args, "%"+*params.Search+"%")
	}

	query := "SELECT " + productColumns + " FROM products" + whereCondition + buildOrderBy(params.Sort)

	if params.Page != nil && params.PageSize != nil {
		argID := len(args) + 1
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
		args = append(args, *params.PageSize, (*params.Page-1)*(*params.PageSize))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}

	return products, nil
}

// buildOrderBy folds the ordered sort specification into an ORDER BY clause,
// skipping keys that are not in the allow-list.
func buildOrderBy(sort []SortKey) string {
	clauses := make([]string, 0, len(sort))
	for _, key := range sort {
		column, ok := sortColumns[strings.ToLower(key.Field)]
		if !ok {
			continue
		}
		direction := "ASC"
		if key.Direction == SortDescending {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	if len(clauses) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE name = $1"
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, name).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: GetProductByName failed to scan row: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) AddProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := s.db.ExecContext(ctx, query,
		product.ID(), product.Name(), product.Description(), product.Price(), product.StockQuantity(),
	)
	if err != nil {
		if isNameUniqueViolation(err) {
			return ErrProductNameExists
		}
		return fmt.Errorf("store: AddProduct failed to insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock_quantity = $4
		WHERE id = $5;
	`
	result, err := s.db.ExecContext(ctx, query,
		product.Name(), product.Description(), product.Price(), product.StockQuantity(), product.ID(),
	)
	if err != nil {
		if isNameUniqueViolation(err) {
			return ErrProductNameExists
		}
		return fmt.Errorf("store: UpdateProduct failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: UpdateProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// isNameUniqueViolation reports whether err is the unique constraint on the
// product name. The constraint is the authoritative backstop for the
// service-level duplicate check.
func isNameUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return strings.Contains(pqErr.Constraint, "products_name_key") || strings.Contains(pqErr.Detail, "Key (name)")
}

func scanProduct(scan func(dest ...any) error) (*domain.Product, error) {
	var (
		id          uuid.UUID
		name        string
		description sql.NullString
		price       decimal.Decimal
		stock       int
	)
	if err := scan(&id, &name, &description, &price, &stock); err != nil {
		return nil, err
	}
	var desc *string
	if description.Valid {
		desc = &description.String
	}
	return domain.Rehydrate(id, name, price, stock, desc)
}
