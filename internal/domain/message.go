package domain

import "time"

// Message is a chat message that moderation can flag and block
type Message struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	SenderID    string    `gorm:"column:sender_id;type:varchar(64);index" json:"sender_id"`
	RoomID      string    `gorm:"column:room_id;type:varchar(64);index" json:"room_id"`
	Body        string    `gorm:"column:body;type:text" json:"body"`
	IsFlagged   bool      `gorm:"column:is_flagged;not null;default:false" json:"is_flagged"`
	IsBlocked   bool      `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	BlockReason *string   `gorm:"column:block_reason;type:text" json:"block_reason,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (Message) TableName() string {
	return "messages"
}
