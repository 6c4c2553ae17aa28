package models

import (
	"fmt"
	"time"
)

// PresenceState is the single authoritative attendance state for a day.
// NotArrived is never persisted: it is the absence of a row.
type PresenceState string

const (
	StateNotArrived PresenceState = "NotArrived"
	StateCheckedIn  PresenceState = "CheckedIn"
	StateCheckedOut PresenceState = "CheckedOut"
)

// Label returns the display label used by the status endpoint.
func (s PresenceState) Label() string {
	switch s {
	case StateCheckedIn:
		return "Checked In"
	case StateCheckedOut:
		return "Checked Out"
	default:
		return "Not Checked In"
	}
}

type Attendance struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	ProfileID      string        `gorm:"size:36;not null;uniqueIndex:idx_attendance_profile_date" json:"profile_id"`
	Date           string        `gorm:"size:10;not null;uniqueIndex:idx_attendance_profile_date;index" json:"date"`
	CheckIn        time.Time     `gorm:"not null" json:"check_in"`
	CheckOut       *time.Time    `json:"check_out"`
	State          PresenceState `gorm:"type:varchar(20);not null;default:'CheckedIn';index" json:"state"`
	WorkedMinutes  int           `gorm:"not null;default:0" json:"worked_minutes"`
	AutoCheckedOut bool          `gorm:"not null;default:false" json:"auto_checked_out"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// CalculateWorkedMinutes returns whole minutes between check-in and check-out.
func (a *Attendance) CalculateWorkedMinutes() int {
	if a.CheckOut == nil || a.CheckOut.IsZero() {
		return 0
	}
	minutes := int(a.CheckOut.Sub(a.CheckIn).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// CurrentState derives the state from a possibly nil record.
func CurrentState(a *Attendance) PresenceState {
	if a == nil {
		return StateNotArrived
	}
	if a.CheckOut != nil {
		return StateCheckedOut
	}
	return StateCheckedIn
}

// Duration formats the worked time, e.g. "8h 15m".
func (a *Attendance) Duration() string {
	if a.CheckOut == nil {
		return "in progress"
	}
	minutes := a.CalculateWorkedMinutes()
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func (a *Attendance) IsValid() bool {
	if a.ProfileID == "" || a.Date == "" {
		return false
	}
	if a.CheckIn.IsZero() {
		return false
	}
	if a.CheckOut != nil && a.CheckOut.Before(a.CheckIn) {
		return false
	}
	return a.State == StateCheckedIn || a.State == StateCheckedOut
}
