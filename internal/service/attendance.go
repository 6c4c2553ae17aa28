package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"
	"attendance-leave/pkg/workdays"

	"github.com/sirupsen/logrus"
)

// TodayStatus is the derived attendance state for one employee and day.
type TodayStatus struct {
	Date   string               `json:"date"`
	State  models.PresenceState `json:"state"`
	Label  string               `json:"label"`
	Record *models.Attendance   `json:"record"`
}

type AttendanceService struct {
	repo     repository.AttendanceRepository
	location *time.Location
	logger   *logrus.Logger
}

func NewAttendanceService(repo repository.AttendanceRepository, location *time.Location, logger *logrus.Logger) *AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceService{
		repo:     repo,
		location: location,
		logger:   logger,
	}
}

// Today returns the calendar date of now in the service's time zone.
func (s *AttendanceService) Today(now time.Time) string {
	return workdays.FormatDate(now.In(s.location))
}

// CheckIn opens today's record. A second check-in on the same day fails.
func (s *AttendanceService) CheckIn(ctx context.Context, profileID string, now time.Time) (*models.Attendance, error) {
	date := s.Today(now)
	fields := logrus.Fields{
		"profile_id": profileID,
		"date":       date,
		"check_in":   now.In(s.location).Format("15:04"),
	}
	s.logger.WithFields(fields).Info("Employee checking in")

	record := &models.Attendance{
		ProfileID: profileID,
		Date:      date,
		CheckIn:   now,
		State:     models.StateCheckedIn,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.WithError(err).WithFields(fields).Error("Failed to check in")
		return nil, fmt.Errorf("check in: %w", err)
	}

	s.logger.WithFields(fields).WithField("id", record.ID).Info("Employee checked in")
	return record, nil
}

// CheckOut closes today's record exactly once.
func (s *AttendanceService) CheckOut(ctx context.Context, profileID string, now time.Time) (*models.Attendance, error) {
	date := s.Today(now)
	fields := logrus.Fields{
		"profile_id": profileID,
		"date":       date,
	}
	s.logger.WithFields(fields).Info("Employee checking out")

	record, err := s.repo.GetByProfileAndDate(ctx, profileID, date)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	if record == nil {
		return nil, ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return nil, ErrAlreadyCheckedOut
	}

	record.CheckOut = &now
	worked := record.CalculateWorkedMinutes()

	ok, err := s.repo.CompleteCheckOut(ctx, record.ID, now, worked, false)
	if err != nil {
		s.logger.WithError(err).WithFields(fields).Error("Failed to check out")
		return nil, fmt.Errorf("check out: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyCheckedOut
	}

	record.State = models.StateCheckedOut
	record.WorkedMinutes = worked

	s.logger.WithFields(fields).WithField("worked_minutes", worked).Info("Employee checked out")
	return record, nil
}

// Status derives the tri-state label from today's record.
func (s *AttendanceService) Status(ctx context.Context, profileID string, now time.Time) (*TodayStatus, error) {
	date := s.Today(now)

	record, err := s.repo.GetByProfileAndDate(ctx, profileID, date)
	if err != nil {
		return nil, err
	}

	state := models.CurrentState(record)
	return &TodayStatus{
		Date:   date,
		State:  state,
		Label:  state.Label(),
		Record: record,
	}, nil
}

func (s *AttendanceService) History(ctx context.Context, profileID string, limit int) ([]*models.Attendance, error) {
	if limit <= 0 || limit > 366 {
		limit = 31
	}
	return s.repo.ListByProfile(ctx, profileID, limit)
}

func (s *AttendanceService) ListByDate(ctx context.Context, date string) ([]*models.Attendance, error) {
	if _, err := workdays.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.repo.ListByDate(ctx, date)
}

// AutoCheckout closes every record of cutoff's day that is still open,
// using the cutoff as check-out time (or the check-in, if that was later).
// It returns how many records were closed.
func (s *AttendanceService) AutoCheckout(ctx context.Context, cutoff time.Time) (int, error) {
	date := s.Today(cutoff)

	open, err := s.repo.ListOpenByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("list open attendance: %w", err)
	}

	closed := 0
	for _, record := range open {
		at := cutoff
		if at.Before(record.CheckIn) {
			at = record.CheckIn
		}
		record.CheckOut = &at

		ok, err := s.repo.CompleteCheckOut(ctx, record.ID, at, record.CalculateWorkedMinutes(), true)
		if err != nil {
			s.logger.WithError(err).WithField("id", record.ID).Error("Auto check-out failed")
			continue
		}
		if ok {
			closed++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date":   date,
		"open":   len(open),
		"closed": closed,
	}).Info("Auto check-out finished")

	return closed, nil
}
