package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/store"
	"lasercraft-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesService owns the checkout and void transactions. Both run against
// an injected TxRunner so the engines can be exercised with a test double
// store; the actor identity is always an explicit parameter, never read
// from ambient state.
type SalesService struct {
	store             store.TxRunner
	audit             AuditRecorder
	events            EventPublisher
	defaultVoidReason string
	logger            *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	store store.TxRunner,
	audit AuditRecorder,
	events EventPublisher,
	defaultVoidReason string,
) *SalesService {
	return &SalesService{
		store:             store,
		audit:             audit,
		events:            events,
		defaultVoidReason: defaultVoidReason,
		logger:            util.GetLogger(),
	}
}

// Checkout applies a cart as one transaction: every line either commits
// together or nothing does. Custom lines record the caller-asserted price
// with no catalog interaction; catalog lines lock the product row, reject
// the whole cart on an unknown/deleted id or insufficient stock, decrement
// stock and record the line with the stored price and a name snapshot.
// Returns the committed sale ids in cart order.
func (s *SalesService) Checkout(ctx context.Context, actor string, cart []models.CartLine) ([]int64, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if err := validateCart(actor, cart); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	now := time.Now()
	saleIDs := make([]int64, 0, len(cart))
	lines := make([]models.SaleLineData, 0, len(cart))
	var cartTotal float64

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		for _, line := range cart {
			sale, err := s.applyLine(ctx, tx, actor, line, now)
			if err != nil {
				return err
			}

			saleIDs = append(saleIDs, sale.ID)
			cartTotal += sale.Total
			lines = append(lines, models.SaleLineData{
				SaleID:      sale.ID,
				ProductID:   sale.ProductID,
				ProductName: sale.ProductName,
				Qty:         sale.Qty,
				Total:       sale.Total,
			})
		}
		return nil
	})
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(checkoutFailReason(err)).Inc()
		return nil, err
	}

	util.CheckoutsTotal.Inc()
	for _, line := range cart {
		if line.Custom {
			util.CheckoutLinesTotal.WithLabelValues("custom").Inc()
		} else {
			util.CheckoutLinesTotal.WithLabelValues("catalog").Inc()
		}
	}

	s.logger.Info("Checkout committed",
		zap.String("actor", actor),
		zap.Int("lines", len(cart)),
		zap.Float64("total", cartTotal))

	s.audit.Record(ctx, "SALE", actor,
		fmt.Sprintf("Lines:%d Total:%.2f", len(cart), cartTotal))

	event := &models.SaleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCompleted,
			Timestamp: now,
		},
		Actor: actor,
		Total: cartTotal,
		Lines: lines,
	}
	if err := s.events.PublishSaleCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleCompleted event", zap.Error(err))
	}

	return saleIDs, nil
}

// applyLine runs one cart line inside the checkout transaction.
func (s *SalesService) applyLine(ctx context.Context, tx store.Tx, actor string, line models.CartLine, now time.Time) (*models.Sale, error) {
	if line.Custom {
		sale := &models.Sale{
			ProductName: line.Name,
			Qty:         line.Qty,
			Total:       line.Price * float64(line.Qty),
			Actor:       actor,
			OccurredAt:  now,
		}
		if _, err := tx.InsertSale(ctx, sale); err != nil {
			return nil, err
		}
		return sale, nil
	}

	product, err := tx.GetProductForSale(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if line.Qty > product.Stock {
		return nil, models.ErrInsufficientStock
	}
	if err := tx.DecrementStock(ctx, product.ID, line.Qty); err != nil {
		return nil, err
	}

	productID := product.ID
	sale := &models.Sale{
		ProductID:   &productID,
		ProductName: product.Name,
		Qty:         line.Qty,
		// Always the stored price, never a client-sent one.
		Total:      product.Price * float64(line.Qty),
		Actor:      actor,
		OccurredAt: now,
	}
	if _, err := tx.InsertSale(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// validateCart rejects malformed input before any transaction is opened.
func validateCart(actor string, cart []models.CartLine) error {
	if actor == "" {
		return models.Validationf("actor", "actor is required")
	}
	if len(cart) == 0 {
		return models.Validationf("cart", "cart is empty")
	}
	for i, line := range cart {
		if line.Qty <= 0 {
			return models.Validationf("qty", "line %d: qty must be positive", i)
		}
		if line.Custom {
			if line.Name == "" {
				return models.Validationf("name", "line %d: custom item name is required", i)
			}
			if line.Price < 0 {
				return models.Validationf("price", "line %d: price must not be negative", i)
			}
		}
	}
	return nil
}

func checkoutFailReason(err error) string {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, models.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "storage_error"
	}
}
