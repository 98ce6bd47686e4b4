package service

import (
	"context"

	"lasercraft-pos/internal/models"
)

// AuditRecorder receives administrative actions. Implementations must not
// fail the caller: recording is fire-and-forget and never rolls back the
// business transaction that triggered it.
type AuditRecorder interface {
	Record(ctx context.Context, action, subject, details string)
}

// EventPublisher publishes sale events after a transaction commits. Publish
// failures are logged by the engines, not surfaced to the API caller.
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error
	PublishSaleVoided(ctx context.Context, event *models.SaleVoidedEvent) error
}

// StockCache is the fast-path id -> stock snapshot behind the POS page.
// The database remains authoritative; a cold or failed cache falls back
// to it.
type StockCache interface {
	GetAllStock(ctx context.Context) (map[int64]int, error)
	SetStock(ctx context.Context, productID int64, stock int) error
	SetStockBulk(ctx context.Context, levels map[int64]int) error
	RemoveStock(ctx context.Context, productID int64) error
}
