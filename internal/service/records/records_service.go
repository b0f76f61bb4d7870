// Package records orchestrates the productivity-record workflows:
// input validation, score derivation through the scoring engine, and
// persistence through the backend client.
package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
	"github.com/dmarinho2/prt-fiscal/internal/scoring"
)

// ErrInvalidPeriod indicates a competência outside the MM/YYYY form.
var ErrInvalidPeriod = errors.New("invalid period, expected MM/YYYY")

// ErrEmptyItems indicates a record submitted without line items.
var ErrEmptyItems = errors.New("record has no items")

// ErrInvalidItem indicates a line item failing the form-level constraints.
var ErrInvalidItem = errors.New("invalid line item")

// ErrUnknownService indicates an item referencing a service outside the
// active catalog.
var ErrUnknownService = errors.New("unknown or inactive service")

// ErrNotOwner indicates a standard user touching a record that belongs
// to another fiscal.
var ErrNotOwner = errors.New("record belongs to another user")

var periodPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)

// ItemInput is one line item as submitted by the editing layer. The
// computed score is never part of the input; it is always re-derived.
type ItemInput struct {
	ServiceID   string  `json:"service_id" binding:"required"`
	DocumentID  string  `json:"document_id" binding:"required"`
	FiscalCount int     `json:"fiscal_count" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Notes       string  `json:"notes"`
}

// RecordInput is a create/update submission.
type RecordInput struct {
	Period string      `json:"period" binding:"required"`
	Notes  string      `json:"notes"`
	Items  []ItemInput `json:"items" binding:"required"`
}

// Service implements the record workflows on top of the backend client.
type Service struct {
	repo   repo.Repository
	logger *zap.Logger
}

// NewService wires a new records service instance.
func NewService(repository repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// Services returns the active catalog for the selection form.
func (s *Service) Services(ctx context.Context) ([]models.Service, error) {
	return s.repo.ListActiveServices(ctx)
}

// List returns the caller's active records for the optional period filter.
func (s *Service) List(ctx context.Context, userID string, filter models.RecordFilter) ([]models.ProductivityRecord, error) {
	return s.repo.ListRecords(ctx, userID, filter)
}

// ListAll is the admin listing across every owner.
func (s *Service) ListAll(ctx context.Context, filter models.RecordFilter) ([]models.ProductivityRecord, error) {
	return s.repo.ListAllRecords(ctx, filter)
}

// Get loads a single record with resolved items.
func (s *Service) Get(ctx context.Context, recordID string) (*models.ProductivityRecord, error) {
	return s.repo.GetRecord(ctx, recordID)
}

// PreviewScore recomputes one item's score for the editing form. An
// unknown service scores zero so the form shows "0.00" until a valid
// selection is made.
func (s *Service) PreviewScore(ctx context.Context, serviceID string, fiscalCount int, quantity float64) (float64, error) {
	if fiscalCount < 1 {
		return 0, fmt.Errorf("%w: fiscal count must be at least 1", ErrInvalidItem)
	}

	catalog, err := s.repo.ListActiveServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("load service catalog: %w", err)
	}

	return scoring.ItemScoreFor(findService(catalog, serviceID), fiscalCount, quantity), nil
}

// Create validates the submission, derives every score and the total,
// and persists the new record.
func (s *Service) Create(ctx context.Context, userID string, input RecordInput) (*models.ProductivityRecord, error) {
	rec, err := s.buildRecord(ctx, input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateRecord(ctx, userID, *rec)
	if err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	s.logger.Info("record created",
		zap.String("user_id", userID),
		zap.String("period", created.Period),
		zap.Int("items", len(created.Items)),
		zap.Float64("total_points", created.TotalPoints))

	return created, nil
}

// Update re-derives the scores and replaces the record and its entire
// item set (delete-all then insert-all; no partial item updates). The
// caller must own the record unless they are an admin.
func (s *Service) Update(ctx context.Context, caller models.UserProfile, recordID string, input RecordInput) error {
	if err := s.authorize(ctx, caller, recordID); err != nil {
		return err
	}

	rec, err := s.buildRecord(ctx, input)
	if err != nil {
		return err
	}

	if err := s.repo.ReplaceRecord(ctx, recordID, *rec); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}

	s.logger.Info("record updated",
		zap.String("record_id", recordID),
		zap.String("user_id", caller.UserID),
		zap.Int("items", len(rec.Items)),
		zap.Float64("total_points", rec.TotalPoints))

	return nil
}

// Delete soft-deletes the record. The caller must own it unless they
// are an admin.
func (s *Service) Delete(ctx context.Context, caller models.UserProfile, recordID string) error {
	if err := s.authorize(ctx, caller, recordID); err != nil {
		return err
	}

	if err := s.repo.SoftDeleteRecord(ctx, recordID); err != nil {
		return fmt.Errorf("soft delete record: %w", err)
	}

	s.logger.Info("record soft-deleted",
		zap.String("record_id", recordID),
		zap.String("user_id", caller.UserID))
	return nil
}

// authorize loads the record and rejects standard callers that do not
// own it. Admins bypass the ownership check.
func (s *Service) authorize(ctx context.Context, caller models.UserProfile, recordID string) error {
	if caller.IsAdmin() {
		return nil
	}

	rec, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return fmt.Errorf("load record %s: %w", recordID, err)
	}
	if rec.Owner == nil || rec.Owner.UserID != caller.UserID {
		return fmt.Errorf("%w: %s", ErrNotOwner, recordID)
	}
	return nil
}

// buildRecord validates the input and derives the computed scores and
// total. The total is fixed here, at submission time, as the sum of the
// items' already-rounded scores.
func (s *Service) buildRecord(ctx context.Context, input RecordInput) (*models.ProductivityRecord, error) {
	if !periodPattern.MatchString(input.Period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, input.Period)
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyItems
	}

	catalog, err := s.repo.ListActiveServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service catalog: %w", err)
	}

	items := make([]models.LineItem, 0, len(input.Items))
	for i, in := range input.Items {
		if in.DocumentID == "" {
			return nil, fmt.Errorf("%w: item %d has no document id", ErrInvalidItem, i+1)
		}
		if in.FiscalCount < 1 {
			return nil, fmt.Errorf("%w: item %d has fiscal count %d", ErrInvalidItem, i+1, in.FiscalCount)
		}

		svc := findService(catalog, in.ServiceID)
		if svc == nil {
			return nil, fmt.Errorf("%w: item %d references %s", ErrUnknownService, i+1, in.ServiceID)
		}

		items = append(items, models.LineItem{
			ServiceID:     in.ServiceID,
			DocumentID:    in.DocumentID,
			FiscalCount:   in.FiscalCount,
			Quantity:      in.Quantity,
			ComputedScore: scoring.ItemScoreFor(svc, in.FiscalCount, in.Quantity),
			Notes:         in.Notes,
			Service: &models.ServiceSummary{
				Description: svc.Description,
				BasePoints:  svc.BasePoints,
			},
		})
	}

	return &models.ProductivityRecord{
		Period:      input.Period,
		Notes:       input.Notes,
		Items:       items,
		TotalPoints: scoring.Total(items),
		Status:      models.StatusActive,
	}, nil
}

func findService(catalog []models.Service, id string) *models.Service {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}
