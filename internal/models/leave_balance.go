package models

import "time"

// DefaultAllowances are the yearly quotas assigned when a balance row is created.
var DefaultAllowances = map[LeaveType]int{
	LeaveSick:   12,
	LeaveCasual: 10,
	LeaveEarned: 15,
}

// LeaveBalance is one ledger row, unique per (profile, type, year).
type LeaveBalance struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProfileID     string    `gorm:"size:36;not null;uniqueIndex:idx_leave_balance_key" json:"profile_id"`
	LeaveType     LeaveType `gorm:"type:varchar(20);not null;uniqueIndex:idx_leave_balance_key" json:"leave_type"`
	Year          int       `gorm:"not null;uniqueIndex:idx_leave_balance_key;index" json:"year"`
	TotalDays     int       `gorm:"not null;default:0" json:"total_days"`
	UsedDays      int       `gorm:"not null;default:0" json:"used_days"`
	RemainingDays int       `gorm:"not null;default:0" json:"remaining_days"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// NewDefaultBalances builds the three default rows for a profile and year.
func NewDefaultBalances(profileID string, year int) []LeaveBalance {
	rows := make([]LeaveBalance, 0, len(LeaveTypes))
	for _, t := range LeaveTypes {
		total := DefaultAllowances[t]
		rows = append(rows, LeaveBalance{
			ProfileID:     profileID,
			LeaveType:     t,
			Year:          year,
			TotalDays:     total,
			RemainingDays: total,
		})
	}
	return rows
}

// Recalculate restores remaining = total - used.
func (b *LeaveBalance) Recalculate() {
	if b.UsedDays < 0 {
		b.UsedDays = 0
	}
	b.RemainingDays = b.TotalDays - b.UsedDays
}

func (b *LeaveBalance) IsValid() bool {
	if !b.LeaveType.IsValid() {
		return false
	}
	if b.TotalDays < 0 || b.UsedDays < 0 {
		return false
	}
	return b.RemainingDays == b.TotalDays-b.UsedDays
}
