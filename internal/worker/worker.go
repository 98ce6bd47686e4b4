package worker

import (
	"context"
	"errors"
	"log"

	"lasercraft-pos/internal/broker"
	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/redisclient"
	"lasercraft-pos/internal/store"
	"lasercraft-pos/internal/util"

	"go.uber.org/zap"
)

// ReportingWorker folds sale events into the Redis dashboard counters and
// keeps the POS stock cache in step with the database. The cache is purely
// derived state; the database transaction that produced the event is
// already committed by the time it gets here.
type ReportingWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	cache        *redisclient.Client
	logger       *zap.Logger
}

// NewReportingWorker creates a new reporting worker
func NewReportingWorker(
	consumer *broker.Consumer,
	store *store.Store,
	cache *redisclient.Client,
) *ReportingWorker {
	w := &ReportingWorker{
		consumer: consumer,
		store:    store,
		cache:    cache,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnSaleCompleted(w.handleSaleCompleted)
	eventHandler.OnSaleVoided(w.handleSaleVoided)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ReportingWorker) Start(ctx context.Context) error {
	log.Println("Starting reporting worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReportingWorker) Stop() error {
	log.Println("Stopping reporting worker...")
	return w.consumer.Close()
}

func (w *ReportingWorker) handleSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error {
	for _, line := range event.Lines {
		if err := w.cache.AddSale(ctx, line.ProductName, line.Qty, line.Total); err != nil {
			w.logger.Error("Failed to update dashboard counters",
				zap.Int64("sale_id", line.SaleID), zap.Error(err))
		}
		if line.ProductID != nil {
			w.refreshStock(ctx, *line.ProductID)
		}
	}
	return nil
}

func (w *ReportingWorker) handleSaleVoided(ctx context.Context, event *models.SaleVoidedEvent) error {
	if err := w.cache.SubtractVoidedSale(ctx, event.ProductName, event.Qty, event.Total); err != nil {
		w.logger.Error("Failed to reverse dashboard counters",
			zap.Int64("sale_id", event.SaleID), zap.Error(err))
	}
	if event.ProductID != nil {
		w.refreshStock(ctx, *event.ProductID)
	}
	return nil
}

// refreshStock re-reads one product's stock and writes it to the cache.
// Soft-deleted products are dropped from the cache instead.
func (w *ReportingWorker) refreshStock(ctx context.Context, productID int64) {
	product, err := w.store.GetProduct(ctx, productID)
	if errors.Is(err, models.ErrProductNotFound) {
		if err := w.cache.RemoveStock(ctx, productID); err != nil {
			w.logger.Warn("Failed to drop product from stock cache",
				zap.Int64("product_id", productID), zap.Error(err))
		}
		return
	}
	if err != nil {
		w.logger.Error("Failed to reload product stock",
			zap.Int64("product_id", productID), zap.Error(err))
		return
	}

	if err := w.cache.SetStock(ctx, productID, product.Stock); err != nil {
		w.logger.Warn("Failed to refresh stock cache",
			zap.Int64("product_id", productID), zap.Error(err))
	}
}
