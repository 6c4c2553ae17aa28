package models

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Profile is the employee identity record. ID is the auth provider's subject.
type Profile struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Department     string    `json:"department"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'employee';index" json:"role"`
	MobileNumber   string    `json:"mobile_number"`
	EmployeeCode   string    `gorm:"uniqueIndex;not null" json:"employee_code"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (Profile) TableName() string {
	return "profiles"
}
