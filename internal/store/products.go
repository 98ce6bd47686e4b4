package store

import (
	"context"
	"database/sql"
	"fmt"

	"lasercraft-pos/internal/models"
)

// CreateProduct inserts a new catalog row. The active-name collision check
// and the insert run in one transaction; the partial unique index on
// (name) WHERE NOT is_deleted backs the same invariant at the schema level.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.GetContext(ctx, &existing,
		"SELECT id FROM products WHERE name = $1 AND NOT is_deleted", p.Name)
	if err == nil {
		return models.ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check product name: %w", err)
	}

	err = tx.GetContext(ctx, p, `
		INSERT INTO products (name, material_type, category, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, material_type, category, price, stock, is_deleted, created_at`,
		p.Name, p.MaterialType, p.Category, p.Price, p.Stock)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return tx.Commit()
}

// UpdateProduct rewrites name/material/category/price/stock for an active
// product. The name collision re-check excludes the product's own id.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.GetContext(ctx, &existing,
		"SELECT id FROM products WHERE name = $1 AND id != $2 AND NOT is_deleted", p.Name, p.ID)
	if err == nil {
		return models.ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check product name: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = $1, material_type = $2, category = $3, price = $4, stock = $5
		WHERE id = $6 AND NOT is_deleted`,
		p.Name, p.MaterialType, p.Category, p.Price, p.Stock, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return models.ErrProductNotFound
	}

	return tx.Commit()
}

// SoftDeleteProduct marks a product deleted. Sales referencing it are
// untouched; its name becomes free for reuse.
func (s *Store) SoftDeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_deleted = TRUE WHERE id = $1 AND NOT is_deleted", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return models.ErrProductNotFound
	}
	return nil
}

// GetProduct retrieves an active product by ID
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE id = $1 AND NOT is_deleted", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByName looks a product up by its normalized name among
// non-deleted rows.
func (s *Store) FindActiveByName(ctx context.Context, name string) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE name = $1 AND NOT is_deleted", name)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts retrieves one page of active products ordered by name,
// plus the total active count for pagination.
func (s *Store) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM products WHERE NOT is_deleted"); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE NOT is_deleted
		ORDER BY name
		LIMIT $1 OFFSET $2`, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// StockLevels retrieves the id/stock snapshot for all active products
func (s *Store) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	levels := []models.StockLevel{}
	err := s.db.SelectContext(ctx, &levels,
		"SELECT id, stock FROM products WHERE NOT is_deleted ORDER BY id")
	return levels, err
}
