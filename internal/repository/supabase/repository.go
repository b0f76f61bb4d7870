// Package supabase is the thin client for the external persistence and
// auth backend. All authorization beyond role gating lives in the
// backend's row-level policies; this adapter only shapes requests and
// maps rows onto the domain structs.
package supabase

import (
	"context"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// Repository defines the persistence operations the services depend on.
type Repository interface {
	ListActiveServices(ctx context.Context) ([]models.Service, error)
	ListRecords(ctx context.Context, userID string, filter models.RecordFilter) ([]models.ProductivityRecord, error)
	ListAllRecords(ctx context.Context, filter models.RecordFilter) ([]models.ProductivityRecord, error)
	GetRecord(ctx context.Context, recordID string) (*models.ProductivityRecord, error)
	CreateRecord(ctx context.Context, userID string, rec models.ProductivityRecord) (*models.ProductivityRecord, error)
	ReplaceRecord(ctx context.Context, recordID string, rec models.ProductivityRecord) error
	SoftDeleteRecord(ctx context.Context, recordID string) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}
