package service

import (
	"context"
	"fmt"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"

	"github.com/sirupsen/logrus"
)

// LeaveBalanceService is the leave ledger. Every mutation is a single
// conditional statement in the store, so concurrent approvals cannot lose
// updates.
type LeaveBalanceService struct {
	balances repository.LeaveBalanceRepository
	logger   *logrus.Logger
}

func NewLeaveBalanceService(balances repository.LeaveBalanceRepository, logger *logrus.Logger) *LeaveBalanceService {
	return &LeaveBalanceService{
		balances: balances,
		logger:   logger,
	}
}

// withRepo returns a ledger bound to another repository, typically a
// transaction-scoped one.
func (s *LeaveBalanceService) withRepo(balances repository.LeaveBalanceRepository) *LeaveBalanceService {
	return &LeaveBalanceService{balances: balances, logger: s.logger}
}

// GetBalance returns nil when no row exists for the key.
func (s *LeaveBalanceService) GetBalance(ctx context.Context, profileID string, leaveType models.LeaveType, year int) (*models.LeaveBalance, error) {
	return s.balances.Get(ctx, profileID, leaveType, year)
}

// HasSufficientBalance is false when the row is missing or remaining < days.
func (s *LeaveBalanceService) HasSufficientBalance(ctx context.Context, profileID string, leaveType models.LeaveType, days, year int) (bool, error) {
	balance, err := s.balances.Get(ctx, profileID, leaveType, year)
	if err != nil {
		return false, err
	}
	if balance == nil {
		return false, nil
	}
	return balance.RemainingDays >= days, nil
}

// InitializeBalances creates the default rows for the year. Existing rows,
// including partially used ones, are left as they are.
func (s *LeaveBalanceService) InitializeBalances(ctx context.Context, profileID string, year int) (int64, error) {
	created, err := s.balances.InitializeIfMissing(ctx, profileID, year)
	if err != nil {
		return 0, fmt.Errorf("initialize balances: %w", err)
	}

	if created > 0 {
		s.logger.WithFields(logrus.Fields{
			"profile_id": profileID,
			"year":       year,
			"created":    created,
		}).Info("Leave balances initialized")
	}

	return created, nil
}

// ListBalances returns the year's balances, creating them on first access.
func (s *LeaveBalanceService) ListBalances(ctx context.Context, profileID string, year int) ([]*models.LeaveBalance, error) {
	if _, err := s.InitializeBalances(ctx, profileID, year); err != nil {
		return nil, err
	}
	return s.balances.ListByProfileAndYear(ctx, profileID, year)
}

// DeductBalance charges days against the balance, refusing to go negative.
func (s *LeaveBalanceService) DeductBalance(ctx context.Context, profileID string, leaveType models.LeaveType, days, year int) error {
	fields := logrus.Fields{
		"profile_id": profileID,
		"leave_type": leaveType,
		"year":       year,
		"days":       days,
	}

	applied, err := s.balances.Deduct(ctx, profileID, leaveType, year, days)
	if err != nil {
		return fmt.Errorf("deduct balance: %w", err)
	}

	if !applied {
		remaining := 0
		if balance, err := s.balances.Get(ctx, profileID, leaveType, year); err == nil && balance != nil {
			remaining = balance.RemainingDays
		}
		s.logger.WithFields(fields).WithField("remaining", remaining).Warn("Deduction refused")
		return &InsufficientBalanceError{Remaining: remaining, Requested: days}
	}

	s.logger.WithFields(fields).Info("Leave balance deducted")
	return nil
}

// RestoreBalance returns days to the balance; used_days is clamped at zero.
func (s *LeaveBalanceService) RestoreBalance(ctx context.Context, profileID string, leaveType models.LeaveType, days, year int) error {
	applied, err := s.balances.Restore(ctx, profileID, leaveType, year, days)
	if err != nil {
		return fmt.Errorf("restore balance: %w", err)
	}
	if !applied {
		return ErrBalanceNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"leave_type": leaveType,
		"year":       year,
		"days":       days,
	}).Info("Leave balance restored")
	return nil
}

// AccrueMonthlyLeave backfills the current year's rows for every employee
// that has none. It does not pro-rate; it returns how many employees were
// initialized.
func (s *LeaveBalanceService) AccrueMonthlyLeave(ctx context.Context, now time.Time) (int, error) {
	year := now.Year()

	ids, err := s.balances.ProfileIDsWithoutYear(ctx, models.RoleEmployee, year)
	if err != nil {
		return 0, fmt.Errorf("find employees without balances: %w", err)
	}

	initialized := 0
	for _, id := range ids {
		created, err := s.InitializeBalances(ctx, id, year)
		if err != nil {
			s.logger.WithError(err).WithField("profile_id", id).Error("Failed to backfill balances")
			continue
		}
		if created > 0 {
			initialized++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"year":        year,
		"candidates":  len(ids),
		"initialized": initialized,
	}).Info("Leave balance backfill finished")

	return initialized, nil
}
