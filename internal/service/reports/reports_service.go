// Package reports turns persisted records into downloadable PDF
// artifacts and keeps the generation archive.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
	"github.com/dmarinho2/prt-fiscal/internal/report"
	"github.com/dmarinho2/prt-fiscal/internal/repository/mongodb"
	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
)

// ErrNotOwner indicates a standard user downloading the report of a
// record that belongs to another fiscal.
var ErrNotOwner = errors.New("record belongs to another user")

// Composer renders one record into an artifact. Satisfied by
// report.Composer; narrowed to an interface for testing.
type Composer interface {
	Compose(rec models.ProductivityRecord, profile models.UserProfile, now time.Time) (*report.Artifact, error)
}

// Service generates report artifacts on demand and in batch.
type Service struct {
	repo     repo.Repository
	archive  mongodb.Archive
	composer Composer
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a new reports service instance.
func NewService(repository repo.Repository, archive mongodb.Archive, composer Composer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repository,
		archive:  archive,
		composer: composer,
		now:      time.Now,
		logger:   logger,
	}
}

// Generate composes the PDF for one record. The caller must own the
// record unless they are an admin. The owner's profile feeds the header
// and footers; a successful composition is logged to the archive, but
// an archive failure never voids the artifact.
func (s *Service) Generate(ctx context.Context, caller models.UserProfile, recordID string) (*report.Artifact, error) {
	rec, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", recordID, err)
	}
	if !caller.IsAdmin() && (rec.Owner == nil || rec.Owner.UserID != caller.UserID) {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, recordID)
	}

	profile := models.UserProfile{}
	if rec.Owner != nil {
		profile = *rec.Owner
	}

	artifact, err := s.composer.Compose(*rec, profile, s.now())
	if err != nil {
		return nil, fmt.Errorf("compose report for %s: %w", recordID, err)
	}

	s.archiveArtifact(ctx, *rec, profile, artifact)
	return artifact, nil
}

// GenerateForPeriod batch-exports every active record of a period, one
// fully independent document per record, sequentially. Records that
// fail to compose are logged and skipped; the batch carries on.
func (s *Service) GenerateForPeriod(ctx context.Context, period string) (int, error) {
	month, year, err := splitPeriod(period)
	if err != nil {
		return 0, err
	}

	records, err := s.repo.ListAllRecords(ctx, models.RecordFilter{Month: month, Year: year})
	if err != nil {
		return 0, fmt.Errorf("list records for %s: %w", period, err)
	}

	generated := 0
	for _, rec := range records {
		profile := models.UserProfile{}
		if rec.Owner != nil {
			profile = *rec.Owner
		}

		artifact, err := s.composer.Compose(rec, profile, s.now())
		if err != nil {
			s.logger.Error("batch compose failed",
				zap.String("record_id", rec.ID),
				zap.String("period", period),
				zap.Error(err))
			continue
		}

		s.archiveArtifact(ctx, rec, profile, artifact)
		generated++
	}

	s.logger.Info("batch export finished",
		zap.String("period", period),
		zap.Int("records", len(records)),
		zap.Int("generated", generated))

	return generated, nil
}

// ListArchive returns the generation history for a period ("" for all).
func (s *Service) ListArchive(ctx context.Context, period string) ([]models.GeneratedReport, error) {
	return s.archive.ListGeneratedReports(ctx, period)
}

func (s *Service) archiveArtifact(ctx context.Context, rec models.ProductivityRecord, profile models.UserProfile, artifact *report.Artifact) {
	entry := models.GeneratedReport{
		RecordID:     rec.ID,
		RecordNumber: rec.RecordNumber,
		Period:       rec.Period,
		Filename:     artifact.Filename,
		Pages:        artifact.Pages,
		SizeBytes:    len(artifact.Content),
		GeneratedBy:  profile.Login,
		GeneratedAt:  s.now(),
	}

	if err := s.archive.SaveGeneratedReport(ctx, entry); err != nil {
		s.logger.Warn("report archive write failed",
			zap.String("record_id", rec.ID),
			zap.String("filename", artifact.Filename),
			zap.Error(err))
	}
}

func splitPeriod(period string) (month, year string, err error) {
	if len(period) != 7 || period[2] != '/' {
		return "", "", fmt.Errorf("invalid period %q, expected MM/YYYY", period)
	}
	return period[:2], period[3:], nil
}
