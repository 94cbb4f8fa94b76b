package repository

import (
	"context"

	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository handles notification data operations
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Enqueue inserts a notification for later delivery
func (r *NotificationRepository) Enqueue(ctx context.Context, notification *domain.Notification) error {
	return translateError(r.db.WithContext(ctx).Create(notification).Error)
}

// ListByUser returns the newest notifications for a user
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, translateError(err)
}
