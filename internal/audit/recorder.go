package audit

import (
	"context"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/store"
	"lasercraft-pos/internal/util"

	"go.uber.org/zap"
)

// Recorder appends administrative actions to the audit trail. Recording is
// fire-and-forget from the engines' point of view: a failed audit write is
// logged here and never propagates into the business transaction that
// triggered it.
type Recorder struct {
	store  *store.Store
	logger *zap.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(store *store.Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Record appends one audit row.
func (r *Recorder) Record(ctx context.Context, action, subject, details string) {
	entry := &models.AuditLog{
		Action:  action,
		Subject: subject,
		Details: details,
	}
	if err := r.store.InsertAuditLog(ctx, entry); err != nil {
		r.logger.Warn("Failed to record audit action",
			zap.String("action", action),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
