package domain

import "time"

// Report status values
const (
	ReportStatusPending       = "pending"
	ReportStatusInvestigating = "investigating"
	ReportStatusResolved      = "resolved"
)

// Report is a user-submitted report against another user's content.
// Intake happens elsewhere; moderation only reads it and records the outcome.
type Report struct {
	ID                int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ReporterID        string      `gorm:"column:reporter_id;type:varchar(64);not null;index" json:"reporter_id"`
	ReportedUserID    string      `gorm:"column:reported_user_id;type:varchar(64);not null;index" json:"reported_user_id"`
	ContentID         string      `gorm:"column:content_id;type:varchar(64)" json:"content_id,omitempty"`
	ContentType       ContentType `gorm:"column:content_type;type:varchar(16)" json:"content_type,omitempty"`
	Reason            string      `gorm:"column:reason;type:text" json:"reason,omitempty"`
	Status            string      `gorm:"column:status;type:varchar(16);not null;default:pending;index" json:"status"`
	ModerationComment string      `gorm:"column:moderation_comment;type:text" json:"moderation_comment,omitempty"`
	ModeratorID       string      `gorm:"column:moderator_id;type:varchar(64)" json:"moderator_id,omitempty"`
	ModeratedAt       *time.Time  `gorm:"column:moderated_at" json:"moderated_at,omitempty"`
	CreatedAt         time.Time   `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Report) TableName() string {
	return "moderation_reports"
}

// ReportStatusFor maps a case verdict to the status the linked report should take
func ReportStatusFor(status CaseStatus) string {
	if status == CaseStatusApproved {
		return ReportStatusResolved
	}
	return ReportStatusInvestigating
}
