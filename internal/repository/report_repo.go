package repository

import (
	"context"
	"time"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// ReportRepository handles report data operations
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *ReportRepository) WithTx(tx *gorm.DB) *ReportRepository {
	return &ReportRepository{db: tx}
}

// Create inserts a report
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	if report.Status == "" {
		report.Status = domain.ReportStatusPending
	}
	return translateError(r.db.WithContext(ctx).Create(report).Error)
}

// GetByID retrieves a single report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, translateError(err)
	}
	return &report, nil
}

// UpdateModeration records the moderation outcome on a report
func (r *ReportRepository) UpdateModeration(ctx context.Context, id int64, status, comment, moderatorID string, moderatedAt time.Time) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&domain.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             status,
			"moderation_comment": comment,
			"moderator_id":       moderatorID,
			"moderated_at":       moderatedAt,
		}).Error
	return translateError(err)
}
