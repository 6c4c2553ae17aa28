package repository

import (
	"context"
	"errors"

	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveBalanceRepository interface {
	Get(ctx context.Context, profileID string, leaveType models.LeaveType, year int) (*models.LeaveBalance, error)
	ListByProfileAndYear(ctx context.Context, profileID string, year int) ([]*models.LeaveBalance, error)
	ListByYear(ctx context.Context, year int) ([]*models.LeaveBalance, error)
	InitializeIfMissing(ctx context.Context, profileID string, year int) (int64, error)
	Deduct(ctx context.Context, profileID string, leaveType models.LeaveType, year, days int) (bool, error)
	Restore(ctx context.Context, profileID string, leaveType models.LeaveType, year, days int) (bool, error)
	ProfileIDsWithoutYear(ctx context.Context, role models.Role, year int) ([]string, error)
}

type GormLeaveBalanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveBalanceRepository(db *gorm.DB, logger *logrus.Logger) (*GormLeaveBalanceRepository, error) {
	if err := db.AutoMigrate(&models.LeaveBalance{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate leave_balances table")
		return nil, err
	}
	return &GormLeaveBalanceRepository{db: db, logger: logger}, nil
}

func (r *GormLeaveBalanceRepository) Get(ctx context.Context, profileID string, leaveType models.LeaveType, year int) (*models.LeaveBalance, error) {
	var balance models.LeaveBalance
	result := r.db.WithContext(ctx).
		Where("profile_id = ? AND leave_type = ? AND year = ?", profileID, leaveType, year).
		First(&balance)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get leave balance")
		return nil, result.Error
	}

	return &balance, nil
}

func (r *GormLeaveBalanceRepository) ListByProfileAndYear(ctx context.Context, profileID string, year int) ([]*models.LeaveBalance, error) {
	var balances []*models.LeaveBalance
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND year = ?", profileID, year).
		Order("leave_type").
		Find(&balances).Error
	return balances, err
}

func (r *GormLeaveBalanceRepository) ListByYear(ctx context.Context, year int) ([]*models.LeaveBalance, error) {
	var balances []*models.LeaveBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("profile_id, leave_type").
		Find(&balances).Error
	return balances, err
}

// InitializeIfMissing inserts the default rows for the year, leaving any
// existing row untouched. It returns the number of rows created.
func (r *GormLeaveBalanceRepository) InitializeIfMissing(ctx context.Context, profileID string, year int) (int64, error) {
	rows := models.NewDefaultBalances(profileID, year)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "leave_type"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&rows)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithFields(logrus.Fields{
			"profile_id": profileID,
			"year":       year,
		}).Error("Failed to initialize leave balances")
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// Deduct charges days in a single statement, guarded by the remaining balance.
// It reports false when the row is missing or the balance is insufficient.
func (r *GormLeaveBalanceRepository) Deduct(ctx context.Context, profileID string, leaveType models.LeaveType, year, days int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LeaveBalance{}).
		Where("profile_id = ? AND leave_type = ? AND year = ? AND remaining_days >= ?", profileID, leaveType, year, days).
		Updates(map[string]interface{}{
			"used_days":      gorm.Expr("used_days + ?", days),
			"remaining_days": gorm.Expr("total_days - (used_days + ?)", days),
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to deduct leave balance")
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Restore gives days back, never letting used_days drop below zero.
func (r *GormLeaveBalanceRepository) Restore(ctx context.Context, profileID string, leaveType models.LeaveType, year, days int) (bool, error) {
	used := gorm.Expr("CASE WHEN used_days > ? THEN used_days - ? ELSE 0 END", days, days)
	remaining := gorm.Expr("total_days - (CASE WHEN used_days > ? THEN used_days - ? ELSE 0 END)", days, days)

	result := r.db.WithContext(ctx).Model(&models.LeaveBalance{}).
		Where("profile_id = ? AND leave_type = ? AND year = ?", profileID, leaveType, year).
		Updates(map[string]interface{}{
			"used_days":      used,
			"remaining_days": remaining,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to restore leave balance")
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *GormLeaveBalanceRepository) ProfileIDsWithoutYear(ctx context.Context, role models.Role, year int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("role = ?", role).
		Where("NOT EXISTS (SELECT 1 FROM leave_balances b WHERE b.profile_id = profiles.id AND b.year = ?)", year).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
