package domain

import "time"

// Policy is the on/off switch and rule text governing moderation for a content type
type Policy struct {
	ID          int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentType ContentType `gorm:"column:content_type;type:varchar(16);not null;uniqueIndex" json:"content_type"`
	IsActive    bool        `gorm:"column:is_active;not null" json:"is_active"`
	RuleText    string      `gorm:"column:rule_text;type:text" json:"rule_text,omitempty"`
	UpdatedAt   time.Time   `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (Policy) TableName() string {
	return "moderation_policies"
}
