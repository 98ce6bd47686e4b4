package store

import (
	"context"
	"fmt"
	"time"

	"lasercraft-pos/internal/models"
)

// InsertAuditLog appends one administrative action row. Audit rows are
// never updated or deleted.
func (s *Store) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	err := s.db.GetContext(ctx, &entry.ID, `
		INSERT INTO audit_logs (action, subject, details, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		entry.Action, entry.Subject, entry.Details, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs retrieves audit rows newest first
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	return logs, err
}
