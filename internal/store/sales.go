package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lasercraft-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// saleTx implements Tx over one sqlx transaction.
type saleTx struct {
	tx *sqlx.Tx
}

// GetProductForSale loads an active product row under FOR UPDATE so the
// caller's stock check and the following decrement are serialized against
// other writers of the same row. Rows for distinct products do not block
// each other.
func (t *saleTx) GetProductForSale(ctx context.Context, id int64) (*models.ProductForSale, error) {
	var p models.ProductForSale
	err := t.tx.GetContext(ctx, &p,
		"SELECT id, name, price, stock FROM products WHERE id = $1 AND NOT is_deleted FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product %d: %w", id, err)
	}
	return &p, nil
}

// DecrementStock subtracts qty from the product's stock. The caller must
// have validated qty <= stock against the locked row in this same
// transaction.
func (t *saleTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2", qty, id)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, err)
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

// IncrementStock restores qty to the product's stock. No upper bound is
// enforced: restoring a voided sale may push stock above a later-edited
// cap, which is accepted behavior.
func (t *saleTx) IncrementStock(ctx context.Context, id int64, qty int) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock + $1 WHERE id = $2", qty, id)
	if err != nil {
		return fmt.Errorf("failed to restore stock for product %d: %w", id, err)
	}
	return nil
}

// InsertSale appends one ledger row and returns its id.
func (t *saleTx) InsertSale(ctx context.Context, sale *models.Sale) (int64, error) {
	var id int64
	err := t.tx.GetContext(ctx, &id, `
		INSERT INTO sales (product_id, product_name, qty, total, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		sale.ProductID, sale.ProductName, sale.Qty, sale.Total, sale.Actor, sale.OccurredAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", err)
	}
	sale.ID = id
	return id, nil
}

// GetSaleForVoid loads a sale row under FOR UPDATE so the voided check and
// the following stock restore + mark are one atomically visible unit.
func (t *saleTx) GetSaleForVoid(ctx context.Context, saleID int64) (*models.SaleForVoid, error) {
	var s models.SaleForVoid
	err := t.tx.GetContext(ctx, &s,
		"SELECT id, product_id, product_name, qty, total, voided FROM sales WHERE id = $1 FOR UPDATE", saleID)
	if err == sql.ErrNoRows {
		return nil, models.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock sale %d: %w", saleID, err)
	}
	return &s, nil
}

// MarkVoided sets the three void fields. The voided flag is never cleared.
func (t *saleTx) MarkVoided(ctx context.Context, saleID int64, reason string, at time.Time) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE sales
		SET voided = TRUE, void_reason = $1, voided_at = $2
		WHERE id = $3`,
		reason, at, saleID)
	if err != nil {
		return fmt.Errorf("failed to mark sale %d voided: %w", saleID, err)
	}
	return nil
}

// GetSaleByID retrieves a sale by ID
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales retrieves sales newest first
func (s *Store) ListSales(ctx context.Context, limit, offset int) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales,
		"SELECT * FROM sales ORDER BY occurred_at DESC, id DESC LIMIT $1 OFFSET $2", limit, offset)
	return sales, err
}
