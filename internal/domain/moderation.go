package domain

import (
	"errors"
	"fmt"
	"time"
)

// ContentType identifies which kind of user content a moderation case targets
type ContentType string

const (
	ContentTypeMessage    ContentType = "message"
	ContentTypePhoto      ContentType = "photo"
	ContentTypeProfile    ContentType = "profile"
	ContentTypeLiveStream ContentType = "livestream"
)

// ContentTypes lists every content type a case may reference
var ContentTypes = []ContentType{
	ContentTypeMessage,
	ContentTypePhoto,
	ContentTypeProfile,
	ContentTypeLiveStream,
}

// IsValid reports whether t is a known content type
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeMessage, ContentTypePhoto, ContentTypeProfile, ContentTypeLiveStream:
		return true
	}
	return false
}

// CaseStatus is the verdict state of a moderation case
type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusApproved CaseStatus = "approved"
	CaseStatusRejected CaseStatus = "rejected"
)

// IsValid reports whether s is a known case status
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusPending, CaseStatusApproved, CaseStatusRejected:
		return true
	}
	return false
}

// ActionTaken is the enforcement action attached to a verdict
type ActionTaken string

const (
	ActionNone   ActionTaken = "none"
	ActionWarn   ActionTaken = "warn"
	ActionRemove ActionTaken = "remove"
	ActionBan    ActionTaken = "ban"
)

// IsEnforcement reports whether a is one of the actions a rejection may carry
func (a ActionTaken) IsEnforcement() bool {
	return a == ActionWarn || a == ActionRemove || a == ActionBan
}

// ViolationLevel is the ordinal severity of a rejection
type ViolationLevel string

const (
	ViolationLow    ViolationLevel = "low"
	ViolationMedium ViolationLevel = "medium"
	ViolationHigh   ViolationLevel = "high"
)

// IsValid reports whether v is a known violation level
func (v ViolationLevel) IsValid() bool {
	switch v {
	case ViolationLow, ViolationMedium, ViolationHigh:
		return true
	}
	return false
}

// ModerationCase is the latest enforcement verdict for one piece of content.
// (ContentID, ContentType) is the natural key; the row is overwritten on re-review.
type ModerationCase struct {
	ID             string         `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID      string         `gorm:"column:content_id;type:varchar(64);not null;uniqueIndex:uk_moderation_case_content,priority:1" json:"content_id"`
	ContentType    ContentType    `gorm:"column:content_type;type:varchar(16);not null;uniqueIndex:uk_moderation_case_content,priority:2" json:"content_type"`
	SubjectUserID  string         `gorm:"column:subject_user_id;type:varchar(64);not null;index" json:"subject_user_id"`
	ModeratorID    string         `gorm:"column:moderator_id;type:varchar(64)" json:"moderator_id"`
	Status         CaseStatus     `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Reason         string         `gorm:"column:reason;type:text" json:"reason,omitempty"`
	Notes          string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ViolationLevel ViolationLevel `gorm:"column:violation_level;type:varchar(16)" json:"violation_level,omitempty"`
	ActionTaken    ActionTaken    `gorm:"column:action_taken;type:varchar(16)" json:"action_taken,omitempty"`
	ReportID       *int64         `gorm:"column:report_id" json:"report_id,omitempty"`
	DecidedAt      *time.Time     `gorm:"column:decided_at" json:"decided_at,omitempty"`
	Version        int            `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (ModerationCase) TableName() string {
	return "moderation_cases"
}

// NaturalKey returns the (content type, content id) pair identifying the case
func (c *ModerationCase) NaturalKey() NaturalKey {
	return NaturalKey{ContentID: c.ContentID, ContentType: c.ContentType}
}

// Validate checks the status/action consistency rules of a case
func (c *ModerationCase) Validate() error {
	switch c.Status {
	case CaseStatusPending:
		if c.ActionTaken != "" {
			return errors.New("pending case must not carry an action")
		}
	case CaseStatusApproved:
		if c.ActionTaken != ActionNone {
			return fmt.Errorf("approved case must have action %q, got %q", ActionNone, c.ActionTaken)
		}
	case CaseStatusRejected:
		if !c.ActionTaken.IsEnforcement() {
			return fmt.Errorf("rejected case requires warn, remove or ban, got %q", c.ActionTaken)
		}
	default:
		return fmt.Errorf("unknown status %q", c.Status)
	}
	return nil
}

// NaturalKey identifies "the case for this content"
type NaturalKey struct {
	ContentID   string
	ContentType ContentType
}

func (k NaturalKey) String() string {
	return string(k.ContentType) + ":" + k.ContentID
}

// Role values recognised by the moderation pipeline
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
	RoleUser     = "USER"
)

// Moderator is the acting reviewer resolved by the auth layer
type Moderator struct {
	ID   string
	Role string
}

// CanModerate reports whether the role may issue verdicts
func (m Moderator) CanModerate() bool {
	return m.Role == RoleAdmin || m.Role == RoleOperator
}

// DecisionInput is one moderation verdict submitted to the pipeline
type DecisionInput struct {
	ContentID      string
	ContentType    ContentType
	SubjectUserID  string
	ModeratorID    string
	Status         CaseStatus
	Reason         string
	Notes          string
	ViolationLevel ViolationLevel
	ActionTaken    ActionTaken
	ReportID       *int64
	ExistingCaseID string
}

// NaturalKey returns the natural key addressed by the input
func (in *DecisionInput) NaturalKey() NaturalKey {
	return NaturalKey{ContentID: in.ContentID, ContentType: in.ContentType}
}

// ContentDecision is what a content handler needs to apply a committed verdict
type ContentDecision struct {
	Status      CaseStatus
	ActionTaken ActionTaken
	Reason      string
	// PreviouslyRejected is set when the case already committed a rejection
	// before this verdict, so removal side effects may have already happened.
	PreviouslyRejected bool
}

// DecisionRequest is the HTTP body for POST /moderation/decisions
type DecisionRequest struct {
	ContentID      string `json:"content_id" binding:"required"`
	ContentType    string `json:"content_type" binding:"required,content_type"`
	SubjectUserID  string `json:"subject_user_id" binding:"required"`
	Status         string `json:"status" binding:"required"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
	ViolationLevel string `json:"violation_level"`
	ActionTaken    string `json:"action_taken"`
	ReportID       *int64 `json:"report_id,omitempty"`
	ExistingCaseID string `json:"case_id,omitempty"`
}

// ToInput converts the request into a pipeline input
func (r *DecisionRequest) ToInput(moderatorID string) *DecisionInput {
	return &DecisionInput{
		ContentID:      r.ContentID,
		ContentType:    ContentType(r.ContentType),
		SubjectUserID:  r.SubjectUserID,
		ModeratorID:    moderatorID,
		Status:         CaseStatus(r.Status),
		Reason:         r.Reason,
		Notes:          r.Notes,
		ViolationLevel: ViolationLevel(r.ViolationLevel),
		ActionTaken:    ActionTaken(r.ActionTaken),
		ReportID:       r.ReportID,
		ExistingCaseID: r.ExistingCaseID,
	}
}

// ModerationCaseHistory is an append-only record of each committed verdict
type ModerationCaseHistory struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CaseID         string         `gorm:"column:case_id;type:varchar(36);not null;index" json:"case_id"`
	PrevStatus     CaseStatus     `gorm:"column:prev_status;type:varchar(16)" json:"prev_status,omitempty"`
	NewStatus      CaseStatus     `gorm:"column:new_status;type:varchar(16);not null" json:"new_status"`
	ActionTaken    ActionTaken    `gorm:"column:action_taken;type:varchar(16)" json:"action_taken,omitempty"`
	ViolationLevel ViolationLevel `gorm:"column:violation_level;type:varchar(16)" json:"violation_level,omitempty"`
	Reason         string         `gorm:"column:reason;type:text" json:"reason,omitempty"`
	ModeratorID    string         `gorm:"column:moderator_id;type:varchar(64)" json:"moderator_id"`
	ReportID       *int64         `gorm:"column:report_id" json:"report_id,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (ModerationCaseHistory) TableName() string {
	return "moderation_case_histories"
}
