package repository

import (
	"context"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository handles profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// Create inserts a profile
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return translateError(r.db.WithContext(ctx).Create(profile).Error)
}

// FindByUserID finds a profile by its owner
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

// SetHidden hides or restores a profile
func (r *ProfileRepository) SetHidden(ctx context.Context, userID string, hidden bool, reason *string) error {
	if _, err := r.FindByUserID(ctx, userID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_hidden":     hidden,
			"hidden_reason": reason,
		}).Error
	return translateError(err)
}
