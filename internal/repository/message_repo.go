package repository

import (
	"context"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return translateError(r.db.WithContext(ctx).Create(msg).Error)
}

// FindByID finds a message by ID
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, translateError(err)
	}
	return &msg, nil
}

// SetModeration sets the flag/block state of a message.
// The row is looked up first so an unchanged update still proves existence.
func (r *MessageRepository) SetModeration(ctx context.Context, id string, flagged, blocked bool, reason *string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_flagged":   flagged,
			"is_blocked":   blocked,
			"block_reason": reason,
		}).Error
	return translateError(err)
}
