package service

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile already registered")
	ErrEmployeeCodeTaken = errors.New("employee code already in use")
	ErrInvalidProfile    = errors.New("full name and employee code are required")

	ErrAlreadyCheckedIn  = errors.New("Already checked in for today")
	ErrNotCheckedIn      = errors.New("Not checked in for today")
	ErrAlreadyCheckedOut = errors.New("Already checked out for today")

	ErrInvalidLeaveType    = errors.New("leave type must be one of Sick, Casual, Earned")
	ErrInvalidDate         = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidDateRange    = errors.New("end date cannot be before start date")
	ErrNoWorkingDays       = errors.New("leave range contains no working days")
	ErrLeaveTooLong        = fmt.Errorf("leave range cannot span more than %d calendar days", MaxLeaveSpanDays)
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")

	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidDecision  = errors.New("status must be Approved or Rejected")
	ErrNotCancellable   = errors.New("only pending or approved leave requests can be cancelled")
	ErrInvalidStatus    = errors.New("status filter must be Pending, Approved or Rejected")

	ErrNotificationNotFound = errors.New("notification not found")
)

// InsufficientBalanceError carries the numbers behind a refused request.
type InsufficientBalanceError struct {
	Remaining int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient leave balance. Remaining: %d days, requested: %d days", e.Remaining, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// IsClientError reports whether err is a validation or business-rule error
// that should be shown to the caller verbatim.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidLeaveType, ErrInvalidDate, ErrInvalidDateRange, ErrNoWorkingDays, ErrLeaveTooLong,
		ErrInsufficientBalance, ErrAlreadyProcessed, ErrInvalidDecision, ErrNotCancellable, ErrInvalidStatus,
		ErrAlreadyCheckedIn, ErrNotCheckedIn, ErrAlreadyCheckedOut,
		ErrProfileExists, ErrEmployeeCodeTaken, ErrInvalidProfile,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
