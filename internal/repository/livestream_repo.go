package repository

import (
	"context"
	"time"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// LiveStreamRepository handles live stream data operations
type LiveStreamRepository struct {
	db *gorm.DB
}

// NewLiveStreamRepository creates a new LiveStreamRepository
func NewLiveStreamRepository(db *gorm.DB) *LiveStreamRepository {
	return &LiveStreamRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *LiveStreamRepository) WithTx(tx *gorm.DB) *LiveStreamRepository {
	return &LiveStreamRepository{db: tx}
}

// Create inserts a live stream
func (r *LiveStreamRepository) Create(ctx context.Context, stream *domain.LiveStream) error {
	return translateError(r.db.WithContext(ctx).Create(stream).Error)
}

// FindByID finds a live stream by ID
func (r *LiveStreamRepository) FindByID(ctx context.Context, id string) (*domain.LiveStream, error) {
	var stream domain.LiveStream
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&stream).Error; err != nil {
		return nil, translateError(err)
	}
	return &stream, nil
}

// Block ends a running stream and blocks it
func (r *LiveStreamRepository) Block(ctx context.Context, id string, reason *string, at time.Time) error {
	stream, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{
		"is_live":      false,
		"is_blocked":   true,
		"block_reason": reason,
	}
	if stream.IsLive {
		fields["ended_at"] = at
	}
	return translateError(r.db.WithContext(ctx).Model(&domain.LiveStream{}).Where("id = ?", id).Updates(fields).Error)
}

// Unblock lifts a block. A stream that was ended stays ended.
func (r *LiveStreamRepository) Unblock(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&domain.LiveStream{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_blocked":   false,
			"block_reason": nil,
		}).Error
	return translateError(err)
}
