package models

import "time"

const (
	CategoryLeaveRequest  = "leave_request"
	CategoryLeaveDecision = "leave_decision"
	CategoryLeaveCancel   = "leave_cancelled"
)

type Notification struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	RecipientID string    `gorm:"size:36;not null;index" json:"recipient_id"`
	Title       string    `gorm:"not null" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	Category    string    `gorm:"type:varchar(30);index" json:"category"`
	RelatedID   string    `gorm:"size:64" json:"related_id"`
	Read        bool      `gorm:"column:is_read;not null;default:false;index" json:"read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
