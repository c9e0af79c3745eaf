package ports

import (
	"context"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// IngestionAuditRepository records ingestion runs for later inspection.
type IngestionAuditRepository interface {
	Record(ctx context.Context, run *domain.IngestionRun) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int64) ([]domain.IngestionRun, error)
}
