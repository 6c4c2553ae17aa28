package repository

import (
	"context"
	"errors"
	"time"

	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	GetByProfileAndDate(ctx context.Context, profileID, date string) (*models.Attendance, error)
	CompleteCheckOut(ctx context.Context, id uint, at time.Time, workedMinutes int, auto bool) (bool, error)
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*models.Attendance, error)
	ListByDate(ctx context.Context, date string) ([]*models.Attendance, error)
	ListOpenByDate(ctx context.Context, date string) ([]*models.Attendance, error)
	ListBetween(ctx context.Context, from, to string) ([]*models.Attendance, error)
	StatesByRole(ctx context.Context, date string, role models.Role) (map[string]models.PresenceState, error)
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB, logger *logrus.Logger) (*GormAttendanceRepository, error) {
	if err := db.AutoMigrate(&models.Attendance{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance table")
		return nil, err
	}

	logger.Debug("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	fields := logrus.Fields{
		"profile_id": record.ProfileID,
		"date":       record.Date,
	}

	if !record.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid attendance data")
		return errors.New("invalid attendance record")
	}

	// The unique index on (profile_id, date) is the real guard; this only
	// avoids a failed insert in the common case.
	existing, err := r.GetByProfileAndDate(ctx, record.ProfileID, record.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		r.logger.WithFields(fields).Warn("Attendance already exists for this date")
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicate) {
			r.logger.WithFields(fields).Warn("Concurrent check-in lost the race")
			return err
		}
		r.logger.WithError(err).Error("Failed to create attendance")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":         record.ID,
		"profile_id": record.ProfileID,
	}).Info("Attendance created successfully")

	return nil
}

func (r *GormAttendanceRepository) GetByProfileAndDate(ctx context.Context, profileID, date string) (*models.Attendance, error) {
	var record models.Attendance
	result := r.db.WithContext(ctx).Where("profile_id = ? AND date = ?", profileID, date).First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance by profile and date")
		return nil, result.Error
	}

	return &record, nil
}

// CompleteCheckOut sets the check-out only if it is still empty. It reports
// false when another writer got there first.
func (r *GormAttendanceRepository) CompleteCheckOut(ctx context.Context, id uint, at time.Time, workedMinutes int, auto bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("id = ? AND check_out IS NULL", id).
		Updates(map[string]interface{}{
			"check_out":        at,
			"state":            models.StateCheckedOut,
			"worked_minutes":   workedMinutes,
			"auto_checked_out": auto,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to complete check-out")
		return false, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":             id,
		"worked_minutes": workedMinutes,
		"auto":           auto,
		"rows_affected":  result.RowsAffected,
	}).Debug("Check-out update applied")

	return result.RowsAffected == 1, nil
}

func (r *GormAttendanceRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*models.Attendance, error) {
	var records []*models.Attendance

	query := r.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		r.logger.WithError(err).Error("Failed to get attendance by profile")
		return nil, err
	}

	return records, nil
}

func (r *GormAttendanceRepository) ListByDate(ctx context.Context, date string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("check_in").Find(&records).Error
	return records, err
}

func (r *GormAttendanceRepository) ListOpenByDate(ctx context.Context, date string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.WithContext(ctx).
		Where("date = ? AND check_out IS NULL", date).
		Order("check_in").
		Find(&records).Error
	return records, err
}

func (r *GormAttendanceRepository) ListBetween(ctx context.Context, from, to string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date, profile_id").
		Find(&records).Error
	return records, err
}

// StatesByRole returns the attendance state of date keyed by profile id, for
// profiles holding role only.
func (r *GormAttendanceRepository) StatesByRole(ctx context.Context, date string, role models.Role) (map[string]models.PresenceState, error) {
	var rows []struct {
		ProfileID string
		State     models.PresenceState
	}

	err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Select("attendance.profile_id, attendance.state").
		Joins("JOIN profiles ON profiles.id = attendance.profile_id").
		Where("attendance.date = ? AND profiles.role = ?", date, role).
		Scan(&rows).Error
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"date": date,
			"role": role,
		}).Error("Failed to load attendance states")
		return nil, err
	}

	states := make(map[string]models.PresenceState, len(rows))
	for _, row := range rows {
		states[row.ProfileID] = row.State
	}
	return states, nil
}
