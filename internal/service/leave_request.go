package service

import (
	"context"
	"fmt"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"
	"attendance-leave/pkg/workdays"

	"github.com/sirupsen/logrus"
)

// MaxLeaveSpanDays bounds a single request, weekends included.
const MaxLeaveSpanDays = 366

type ApplyLeaveInput struct {
	LeaveType models.LeaveType
	StartDate string
	EndDate   string
	Reason    string
}

// LeaveRequestService runs the leave workflow:
// Pending -> Approved | Rejected, and Pending | Approved -> cancelled (deleted).
type LeaveRequestService struct {
	repos    *repository.Repositories
	ledger   *LeaveBalanceService
	notifier Notifier
	now      func() time.Time
	logger   *logrus.Logger
}

func NewLeaveRequestService(
	repos *repository.Repositories,
	ledger *LeaveBalanceService,
	notifier Notifier,
	logger *logrus.Logger,
) *LeaveRequestService {
	return &LeaveRequestService{
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit validates the range and the balance and files a Pending request.
// Nothing is deducted until approval.
func (s *LeaveRequestService) Submit(ctx context.Context, profileID string, in ApplyLeaveInput) (*models.LeaveRequest, error) {
	s.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"leave_type": in.LeaveType,
		"start_date": in.StartDate,
		"end_date":   in.EndDate,
	}).Info("Leave application received")

	if !in.LeaveType.IsValid() {
		return nil, ErrInvalidLeaveType
	}

	start, err := workdays.ParseDate(in.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := workdays.ParseDate(in.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if end.After(start.AddDate(0, 0, MaxLeaveSpanDays-1)) {
		return nil, ErrLeaveTooLong
	}

	days := workdays.Count(start, end)
	if days == 0 {
		return nil, ErrNoWorkingDays
	}

	// Charged entirely against the start date's year, even across a year boundary.
	year := start.Year()

	if _, err := s.ledger.InitializeBalances(ctx, profileID, year); err != nil {
		return nil, err
	}

	sufficient, err := s.ledger.HasSufficientBalance(ctx, profileID, in.LeaveType, days, year)
	if err != nil {
		return nil, fmt.Errorf("check balance: %w", err)
	}
	if !sufficient {
		remaining := 0
		if balance, err := s.ledger.GetBalance(ctx, profileID, in.LeaveType, year); err == nil && balance != nil {
			remaining = balance.RemainingDays
		}
		return nil, &InsufficientBalanceError{Remaining: remaining, Requested: days}
	}

	request := &models.LeaveRequest{
		ProfileID:   profileID,
		LeaveType:   in.LeaveType,
		StartDate:   workdays.FormatDate(start),
		EndDate:     workdays.FormatDate(end),
		WorkingDays: days,
		Reason:      in.Reason,
		Status:      models.LeavePending,
	}

	if err := s.repos.Leaves.Create(ctx, request); err != nil {
		s.logger.WithError(err).Error("Failed to create leave request")
		return nil, fmt.Errorf("create leave request: %w", err)
	}

	s.notifyAdmins(ctx, models.Notification{
		Title:     "New leave request",
		Message:   fmt.Sprintf("%s leave from %s to %s (%d working days)", request.LeaveType, request.StartDate, request.EndDate, days),
		Category:  models.CategoryLeaveRequest,
		RelatedID: fmt.Sprint(request.ID),
	})

	s.logger.WithFields(logrus.Fields{
		"id":           request.ID,
		"profile_id":   profileID,
		"working_days": days,
	}).Info("Leave request created")

	return request, nil
}

// Decide approves or rejects a Pending request. Approval deducts the working
// days in the same transaction as the status change.
func (s *LeaveRequestService) Decide(ctx context.Context, id uint, reviewerID string, status models.LeaveStatus, remarks string) (*models.LeaveRequest, error) {
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return nil, ErrInvalidDecision
	}

	var decided *models.LeaveRequest
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		request, err := tx.Leaves.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrLeaveNotFound
		}
		if !request.CanBeDecided() {
			return ErrAlreadyProcessed
		}

		ok, err := tx.Leaves.UpdateDecision(ctx, id, status, reviewerID, s.now(), remarks)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		if status == models.LeaveApproved {
			ledger := s.ledger.withRepo(tx.Balances)
			if _, err := ledger.InitializeBalances(ctx, request.ProfileID, request.Year()); err != nil {
				return err
			}
			if err := ledger.DeductBalance(ctx, request.ProfileID, request.LeaveType, s.chargeableDays(request), request.Year()); err != nil {
				return err
			}
		}

		decided, err = tx.Leaves.GetByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"id":     id,
			"status": status,
		}).Warn("Leave decision failed")
		return nil, err
	}

	message := fmt.Sprintf("Your %s leave from %s to %s was %s", decided.LeaveType, decided.StartDate, decided.EndDate, decided.Status)
	if remarks != "" {
		message += ": " + remarks
	}
	s.notifier.Notify(models.Notification{
		RecipientID: decided.ProfileID,
		Title:       "Leave request " + string(decided.Status),
		Message:     message,
		Category:    models.CategoryLeaveDecision,
		RelatedID:   fmt.Sprint(decided.ID),
	})

	s.logger.WithFields(logrus.Fields{
		"id":          id,
		"status":      status,
		"reviewer_id": reviewerID,
	}).Info("Leave request decided")

	return decided, nil
}

// Cancel withdraws the owner's Pending or Approved request. An Approved
// request has its days restored in the same transaction that deletes it.
func (s *LeaveRequestService) Cancel(ctx context.Context, id uint, profileID string) (*models.LeaveRequest, error) {
	var cancelled *models.LeaveRequest
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		request, err := tx.Leaves.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if request == nil || request.ProfileID != profileID {
			return ErrLeaveNotFound
		}
		if !request.CanBeCancelled() {
			return ErrNotCancellable
		}

		if request.Status == models.LeaveApproved {
			ledger := s.ledger.withRepo(tx.Balances)
			if err := ledger.RestoreBalance(ctx, profileID, request.LeaveType, s.chargeableDays(request), request.Year()); err != nil {
				return err
			}
		}

		ok, err := tx.Leaves.DeleteCancellable(ctx, id, profileID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotCancellable
		}

		cancelled = request
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("Leave cancellation failed")
		return nil, err
	}

	if cancelled.Status == models.LeaveApproved {
		s.notifyAdmins(ctx, models.Notification{
			Title:     "Approved leave cancelled",
			Message:   fmt.Sprintf("%s leave from %s to %s was cancelled by the employee", cancelled.LeaveType, cancelled.StartDate, cancelled.EndDate),
			Category:  models.CategoryLeaveCancel,
			RelatedID: fmt.Sprint(cancelled.ID),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"id":         id,
		"profile_id": profileID,
		"was":        cancelled.Status,
	}).Info("Leave request cancelled")

	return cancelled, nil
}

func (s *LeaveRequestService) Get(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	request, err := s.repos.Leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrLeaveNotFound
	}
	return request, nil
}

func (s *LeaveRequestService) ListMine(ctx context.Context, profileID string) ([]*models.LeaveRequest, error) {
	return s.repos.Leaves.ListByProfile(ctx, profileID)
}

// ListAll returns every request, optionally filtered by status.
func (s *LeaveRequestService) ListAll(ctx context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error) {
	switch status {
	case "", models.LeavePending, models.LeaveApproved, models.LeaveRejected:
	default:
		return nil, ErrInvalidStatus
	}
	return s.repos.Leaves.List(ctx, status)
}

func (s *LeaveRequestService) chargeableDays(r *models.LeaveRequest) int {
	if r.WorkingDays > 0 {
		return r.WorkingDays
	}
	days, err := workdays.CountStrings(r.StartDate, r.EndDate)
	if err != nil {
		return 0
	}
	return days
}

// notifyAdmins fans a template out to every admin. Failures are logged only.
func (s *LeaveRequestService) notifyAdmins(ctx context.Context, template models.Notification) {
	admins, err := s.repos.Profiles.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load admins for notification")
		return
	}

	notes := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		note := template
		note.RecipientID = admin.ID
		notes = append(notes, note)
	}
	s.notifier.Notify(notes...)
}
