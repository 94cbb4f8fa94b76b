package repository

import (
	"context"
	"time"

	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModerationCaseRepository handles moderation case data operations
type ModerationCaseRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewModerationCaseRepository creates a new ModerationCaseRepository
func NewModerationCaseRepository(db *gorm.DB) *ModerationCaseRepository {
	return &ModerationCaseRepository{db: db, lockRows: supportsRowLocks(db)}
}

// WithTx returns a copy bound to tx
func (r *ModerationCaseRepository) WithTx(tx *gorm.DB) *ModerationCaseRepository {
	return &ModerationCaseRepository{db: tx, lockRows: r.lockRows}
}

func (r *ModerationCaseRepository) query(ctx context.Context, forUpdate bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if forUpdate && r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// FindByID retrieves a case by its surrogate id.
// forUpdate takes a row lock when the engine supports it.
func (r *ModerationCaseRepository) FindByID(ctx context.Context, id string, forUpdate bool) (*domain.ModerationCase, error) {
	var c domain.ModerationCase
	if err := r.query(ctx, forUpdate).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// FindByNaturalKey retrieves the case for (content type, content id)
func (r *ModerationCaseRepository) FindByNaturalKey(ctx context.Context, key domain.NaturalKey, forUpdate bool) (*domain.ModerationCase, error) {
	var c domain.ModerationCase
	if err := r.query(ctx, forUpdate).
		Where("content_type = ? AND content_id = ?", key.ContentType, key.ContentID).
		First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// Create inserts a new case. A concurrent create for the same natural key
// fails on the unique index and surfaces as ErrConflictRetryable.
func (r *ModerationCaseRepository) Create(ctx context.Context, c *domain.ModerationCase) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Version = 1
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

// UpdateWithVersion overwrites the case with optimistic locking (version check)
func (r *ModerationCaseRepository) UpdateWithVersion(ctx context.Context, c *domain.ModerationCase, currentVersion int) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&domain.ModerationCase{}).
		Where("id = ? AND version = ?", c.ID, currentVersion).
		Updates(map[string]interface{}{
			"subject_user_id": c.SubjectUserID,
			"moderator_id":    c.ModeratorID,
			"status":          c.Status,
			"reason":          c.Reason,
			"notes":           c.Notes,
			"violation_level": c.ViolationLevel,
			"action_taken":    c.ActionTaken,
			"report_id":       c.ReportID,
			"decided_at":      c.DecidedAt,
			"updated_at":      now,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	c.Version = currentVersion + 1
	c.UpdatedAt = now
	return nil
}

// CountByNaturalKey returns how many rows exist for the natural key
func (r *ModerationCaseRepository) CountByNaturalKey(ctx context.Context, key domain.NaturalKey) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ModerationCase{}).
		Where("content_type = ? AND content_id = ?", key.ContentType, key.ContentID).
		Count(&count).Error
	return count, translateError(err)
}
