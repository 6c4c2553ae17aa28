package models

import (
	"strconv"
	"time"
)

type LeaveType string

const (
	LeaveSick   LeaveType = "Sick"
	LeaveCasual LeaveType = "Casual"
	LeaveEarned LeaveType = "Earned"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []LeaveType{LeaveSick, LeaveCasual, LeaveEarned}

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveSick, LeaveCasual, LeaveEarned:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

type LeaveRequest struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ProfileID   string      `gorm:"size:36;not null;index" json:"profile_id"`
	LeaveType   LeaveType   `gorm:"type:varchar(20);not null" json:"leave_type"`
	StartDate   string      `gorm:"size:10;not null;index" json:"start_date"`
	EndDate     string      `gorm:"size:10;not null;index" json:"end_date"`
	WorkingDays int         `gorm:"not null;default:0" json:"working_days"`
	Reason      string      `gorm:"type:text" json:"reason"`
	Status      LeaveStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ReviewedBy  *string     `gorm:"size:36" json:"reviewed_by"`
	ReviewedAt  *time.Time  `json:"reviewed_at"`
	Remarks     string      `gorm:"type:text" json:"remarks"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leaves"
}

// Year is the ledger year the request is charged against: the start date's
// year, even when the range crosses into the next year.
func (r *LeaveRequest) Year() int {
	if len(r.StartDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(r.StartDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// CanBeDecided reports whether an admin may still approve or reject.
func (r *LeaveRequest) CanBeDecided() bool {
	return r.Status == LeavePending
}

// CanBeCancelled reports whether the owner may still withdraw the request.
func (r *LeaveRequest) CanBeCancelled() bool {
	return r.Status == LeavePending || r.Status == LeaveApproved
}
