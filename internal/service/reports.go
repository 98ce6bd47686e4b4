package service

import (
	"context"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/store"
	"lasercraft-pos/internal/util"
)

// ReportsService serves the unified history feed and the staff dashboard.
// Read-only aggregate queries, so it talks to the concrete store directly.
type ReportsService struct {
	store             *store.Store
	lowStockThreshold int
}

// NewReportsService creates a new reports service
func NewReportsService(store *store.Store, lowStockThreshold int) *ReportsService {
	return &ReportsService{
		store:             store,
		lowStockThreshold: lowStockThreshold,
	}
}

// History returns audit actions and sales interleaved, newest first.
func (s *ReportsService) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	ctx, span := util.StartSpan(ctx, "ReportsService.History")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.store.ListHistory(ctx, limit)
}

// Dashboard returns revenue and stock aggregates over non-voided sales.
func (s *ReportsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	ctx, span := util.StartSpan(ctx, "ReportsService.Dashboard")
	defer span.End()

	return s.store.Dashboard(ctx, s.lowStockThreshold)
}

// Sales returns ledger rows newest first.
func (s *ReportsService) Sales(ctx context.Context, limit, offset int) ([]models.Sale, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListSales(ctx, limit, offset)
}
