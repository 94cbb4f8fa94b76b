package domain

import "time"

// Photo is an uploaded image; rejection deletes it permanently
type Photo struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	OwnerID   string    `gorm:"column:owner_id;type:varchar(64);index" json:"owner_id"`
	ObjectKey string    `gorm:"column:object_key;type:varchar(512)" json:"object_key"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Photo) TableName() string {
	return "photos"
}

// Profile is a member's public profile
type Profile struct {
	UserID       string    `gorm:"column:user_id;primaryKey;type:varchar(64)" json:"user_id"`
	Nickname     string    `gorm:"column:nickname;type:varchar(255)" json:"nickname"`
	Bio          string    `gorm:"column:bio;type:text" json:"bio"`
	IsHidden     bool      `gorm:"column:is_hidden;not null;default:false" json:"is_hidden"`
	HiddenReason *string   `gorm:"column:hidden_reason;type:text" json:"hidden_reason,omitempty"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (Profile) TableName() string {
	return "profiles"
}

// LiveStream is a broadcast session
type LiveStream struct {
	ID          string     `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	HostID      string     `gorm:"column:host_id;type:varchar(64);index" json:"host_id"`
	Title       string     `gorm:"column:title;type:varchar(255)" json:"title"`
	IsLive      bool       `gorm:"column:is_live;not null;default:false" json:"is_live"`
	IsBlocked   bool       `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	BlockReason *string    `gorm:"column:block_reason;type:text" json:"block_reason,omitempty"`
	EndedAt     *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (LiveStream) TableName() string {
	return "live_streams"
}
