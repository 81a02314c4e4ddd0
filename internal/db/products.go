package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const productColumns = `id, owner_id, name, category, price, quantity, description, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *Product) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Category, &p.Price, &p.Quantity,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
}

// CreateProduct inserts p, assigning its ID when unset.
func (db *DB) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO products (id, owner_id, name, category, price, quantity, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		p.ID, p.OwnerID, p.Name, p.Category, p.Price, p.Quantity, p.Description,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by ID.
func (db *DB) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := scanProduct(db.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id), &p)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// UpdateProduct overwrites the editable fields of p.
func (db *DB) UpdateProduct(ctx context.Context, p *Product) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, category = $3, price = $4, quantity = $5, description = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		p.ID, p.Name, p.Category, p.Price, p.Quantity, p.Description,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// DeleteProduct deletes a product by ID.
func (db *DB) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListProducts retrieves products with optional filters, newest first.
func (db *DB) ListProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.OwnerID != uuid.Nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, filters.OwnerID)
		argNum++
	}
	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, filters.Category)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts counts the products of an owner, or the whole catalog when
// ownerID is uuid.Nil.
func (db *DB) CountProducts(ctx context.Context, ownerID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM products`
	var args []any
	if ownerID != uuid.Nil {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}

	var n int
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
