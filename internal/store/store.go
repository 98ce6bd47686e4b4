package store

import (
	"context"
	"fmt"
	"time"

	"lasercraft-pos/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Tx is the unit of work the checkout and void engines operate on. Every
// method runs inside the same database transaction; product and sale reads
// take row locks so the check-then-act sequences they precede are
// serialized against concurrent writers of the same row.
type Tx interface {
	GetProductForSale(ctx context.Context, id int64) (*models.ProductForSale, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
	IncrementStock(ctx context.Context, id int64, qty int) error
	InsertSale(ctx context.Context, sale *models.Sale) (int64, error)
	GetSaleForVoid(ctx context.Context, saleID int64) (*models.SaleForVoid, error)
	MarkVoided(ctx context.Context, saleID int64, reason string, at time.Time) error
}

// TxRunner runs a function inside a single transaction. The transaction
// commits only if fn returns nil; any error (or panic unwinding) rolls
// everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Catalog is the product CRUD surface consumed by the catalog service.
type Catalog interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	SoftDeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, page, perPage int) ([]models.Product, int, error)
	StockLevels(ctx context.Context) ([]models.StockLevel, error)
}

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// WithTx implements TxRunner over a sqlx transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&saleTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		material_type TEXT NOT NULL DEFAULT '',
		category      TEXT NOT NULL DEFAULT 'uncategorized',
		price         DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
		stock         INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_deleted    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One active product per normalized name; soft-deleted rows are free
	// to collide.
	`CREATE UNIQUE INDEX IF NOT EXISTS products_active_name_idx
		ON products (name) WHERE NOT is_deleted`,
	`CREATE TABLE IF NOT EXISTS sales (
		id           BIGSERIAL PRIMARY KEY,
		product_id   BIGINT REFERENCES products (id),
		product_name TEXT NOT NULL,
		qty          INTEGER NOT NULL,
		total        DOUBLE PRECISION NOT NULL,
		actor        TEXT NOT NULL,
		occurred_at  TIMESTAMPTZ NOT NULL,
		voided       BOOLEAN NOT NULL DEFAULT FALSE,
		void_reason  TEXT,
		voided_at    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id         BIGSERIAL PRIMARY KEY,
		action     TEXT NOT NULL,
		subject    TEXT NOT NULL,
		details    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
