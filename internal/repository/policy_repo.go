package repository

import (
	"context"
	"time"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PolicyRepository reads moderation policies
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new PolicyRepository
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// FindByContentType returns the policy for a content type
func (r *PolicyRepository) FindByContentType(ctx context.Context, contentType domain.ContentType) (*domain.Policy, error) {
	var policy domain.Policy
	if err := r.db.WithContext(ctx).Where("content_type = ?", contentType).First(&policy).Error; err != nil {
		return nil, translateError(err)
	}
	return &policy, nil
}

// FindAll returns every policy
func (r *PolicyRepository) FindAll(ctx context.Context) ([]domain.Policy, error) {
	var policies []domain.Policy
	err := r.db.WithContext(ctx).Order("content_type ASC").Find(&policies).Error
	return policies, translateError(err)
}

// Save inserts or updates the policy for its content type
func (r *PolicyRepository) Save(ctx context.Context, policy *domain.Policy) error {
	policy.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "rule_text", "updated_at"}),
	}).Create(policy).Error
	return translateError(err)
}
