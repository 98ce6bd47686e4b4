package store

import (
	"context"
	"fmt"

	"lasercraft-pos/internal/models"
)

// ListHistory interleaves audit actions and sale rows into one feed,
// newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT
			id,
			created_at         AS time,
			'INVENTORY'        AS type,
			action             AS title,
			subject            AS subject,
			details            AS details,
			''                 AS status,
			NULL::DOUBLE PRECISION AS amount,
			NULL::INTEGER      AS qty,
			''                 AS actor
		FROM audit_logs

		UNION ALL

		SELECT
			id,
			occurred_at  AS time,
			'SALE'       AS type,
			'Sale Completed' AS title,
			product_name AS subject,
			''           AS details,
			CASE WHEN voided THEN 'VOIDED' ELSE 'COMPLETED' END AS status,
			total        AS amount,
			qty          AS qty,
			actor        AS actor
		FROM sales

		ORDER BY time DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// Dashboard computes the aggregates shown on the staff dashboard. Voided
// sales are excluded everywhere.
func (s *Store) Dashboard(ctx context.Context, lowStockThreshold int) (*models.Dashboard, error) {
	d := &models.Dashboard{
		SalesByDay:  []models.DayRevenue{},
		TopProducts: []models.TopProduct{},
		LowStock:    []models.LowStockItem{},
	}

	if err := s.db.GetContext(ctx, &d.Revenue,
		"SELECT COALESCE(SUM(total), 0) FROM sales WHERE NOT voided"); err != nil {
		return nil, err
	}

	if err := s.db.GetContext(ctx, &d.TotalSales,
		"SELECT COUNT(*) FROM sales WHERE NOT voided"); err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &d.SalesByDay, `
		SELECT TO_CHAR(occurred_at, 'YYYY-MM-DD') AS day, SUM(total) AS revenue
		FROM sales
		WHERE NOT voided
		GROUP BY 1
		ORDER BY 1`); err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &d.TopProducts, `
		SELECT product_name, SUM(qty) AS qty_sold
		FROM sales
		WHERE NOT voided
		GROUP BY product_name
		ORDER BY qty_sold DESC
		LIMIT 5`); err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &d.LowStock, `
		SELECT name, stock
		FROM products
		WHERE NOT is_deleted AND stock <= $1
		ORDER BY stock, name`, lowStockThreshold); err != nil {
		return nil, err
	}

	return d, nil
}
