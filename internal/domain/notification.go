package domain

import "time"

// NotificationTypeModerationAlert is the type of every notification the pipeline enqueues
const NotificationTypeModerationAlert = "moderation_alert"

// Notification is a pending user notification (알림).
// Delivery is owned by the notification worker; rows are insert-only here.
type Notification struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type      string    `gorm:"column:type;type:varchar(32);not null" json:"type"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CaseID    string    `gorm:"column:case_id;type:varchar(36);index" json:"case_id,omitempty"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Notification) TableName() string {
	return "notifications"
}
