package repository

import (
	"context"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// PhotoRepository handles photo data operations
type PhotoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *PhotoRepository) WithTx(tx *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: tx}
}

// Create inserts a photo
func (r *PhotoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	return translateError(r.db.WithContext(ctx).Create(photo).Error)
}

// FindByID finds a photo by ID
func (r *PhotoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	var photo domain.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, translateError(err)
	}
	return &photo, nil
}

// Delete permanently removes a photo row and returns what was deleted
func (r *PhotoRepository) Delete(ctx context.Context, id string) (*domain.Photo, error) {
	photo, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Photo{}).Error; err != nil {
		return nil, translateError(err)
	}
	return photo, nil
}
