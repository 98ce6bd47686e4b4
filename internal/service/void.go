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

// Void reverses a sale's stock effect and marks it voided, as one
// transaction. A sale can only go ACTIVE -> VOIDED; a second void attempt
// is rejected with ErrAlreadyVoided rather than treated as a no-op, so a
// double submission is always surfaced to the caller. Authorization is the
// caller's concern; the engine performs none.
func (s *SalesService) Void(ctx context.Context, actor string, saleID int64, reason string) error {
	ctx, span := util.StartSpan(ctx, "SalesService.Void")
	defer span.End()

	start := time.Now()
	defer func() {
		util.VoidLatency.Observe(time.Since(start).Seconds())
	}()

	if actor == "" {
		util.VoidsFailedTotal.WithLabelValues("validation").Inc()
		return models.Validationf("actor", "actor is required")
	}
	if reason == "" {
		reason = s.defaultVoidReason
	}

	now := time.Now()
	var voided *models.SaleForVoid

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		sale, err := tx.GetSaleForVoid(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Voided {
			return models.ErrAlreadyVoided
		}

		// Custom-item sales have no stock effect to reverse.
		if sale.ProductID != nil {
			if err := tx.IncrementStock(ctx, *sale.ProductID, sale.Qty); err != nil {
				return err
			}
		}

		if err := tx.MarkVoided(ctx, saleID, reason, now); err != nil {
			return err
		}

		voided = sale
		return nil
	})
	if err != nil {
		util.VoidsFailedTotal.WithLabelValues(voidFailReason(err)).Inc()
		return err
	}

	util.SalesVoidedTotal.Inc()
	s.logger.Info("Sale voided",
		zap.Int64("sale_id", saleID),
		zap.String("actor", actor),
		zap.String("reason", reason))

	s.audit.Record(ctx, "VOID SALE", fmt.Sprintf("Sale ID %d", saleID), reason)

	event := &models.SaleVoidedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleVoided,
			Timestamp: now,
		},
		SaleID:      saleID,
		ProductID:   voided.ProductID,
		ProductName: voided.ProductName,
		Qty:         voided.Qty,
		Total:       voided.Total,
		Actor:       actor,
		Reason:      reason,
	}
	if err := s.events.PublishSaleVoided(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleVoided event", zap.Error(err))
	}

	return nil
}

func voidFailReason(err error) string {
	switch {
	case errors.Is(err, models.ErrSaleNotFound):
		return "sale_not_found"
	case errors.Is(err, models.ErrAlreadyVoided):
		return "already_voided"
	default:
		return "storage_error"
	}
}
