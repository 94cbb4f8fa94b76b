package repository

import (
	"context"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// HistoryRepository records every committed verdict of a moderation case
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// Record appends a history row
func (r *HistoryRepository) Record(ctx context.Context, h *domain.ModerationCaseHistory) error {
	return translateError(r.db.WithContext(ctx).Create(h).Error)
}

// ListByCase returns a case's history, oldest first
func (r *HistoryRepository) ListByCase(ctx context.Context, caseID string) ([]domain.ModerationCaseHistory, error) {
	var histories []domain.ModerationCaseHistory
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("id ASC").
		Find(&histories).Error
	return histories, translateError(err)
}

// HasStatus reports whether the case ever committed a verdict with status
func (r *HistoryRepository) HasStatus(ctx context.Context, caseID string, status domain.CaseStatus) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.ModerationCaseHistory{}).
		Where("case_id = ? AND new_status = ?", caseID, status).
		Count(&n).Error
	if err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}
