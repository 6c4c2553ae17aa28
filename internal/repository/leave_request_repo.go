package repository

import (
	"context"
	"errors"
	"time"

	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request *models.LeaveRequest) error
	GetByID(ctx context.Context, id uint) (*models.LeaveRequest, error)
	ListByProfile(ctx context.Context, profileID string) ([]*models.LeaveRequest, error)
	List(ctx context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error)
	ListApprovedOn(ctx context.Context, date string) ([]*models.LeaveRequest, error)
	CountByStatus(ctx context.Context, status models.LeaveStatus) (int64, error)
	UpdateDecision(ctx context.Context, id uint, status models.LeaveStatus, reviewerID string, at time.Time, remarks string) (bool, error)
	DeleteCancellable(ctx context.Context, id uint, profileID string) (bool, error)
}

type GormLeaveRequestRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveRequestRepository(db *gorm.DB, logger *logrus.Logger) (*GormLeaveRequestRepository, error) {
	if err := db.AutoMigrate(&models.LeaveRequest{}); err != nil {
		return nil, err
	}
	return &GormLeaveRequestRepository{db: db, logger: logger}, nil
}

func (r *GormLeaveRequestRepository) Create(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *GormLeaveRequestRepository) GetByID(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	err := r.db.WithContext(ctx).First(&request, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *GormLeaveRequestRepository) ListByProfile(ctx context.Context, profileID string) ([]*models.LeaveRequest, error) {
	var requests []*models.LeaveRequest
	err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).
		Order("start_date DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

// List returns every request, or only those with the given status when it is set.
func (r *GormLeaveRequestRepository) List(ctx context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error) {
	var requests []*models.LeaveRequest

	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Find(&requests).Error
	return requests, err
}

func (r *GormLeaveRequestRepository) ListApprovedOn(ctx context.Context, date string) ([]*models.LeaveRequest, error) {
	var requests []*models.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.LeaveApproved, date, date).
		Find(&requests).Error
	return requests, err
}

func (r *GormLeaveRequestRepository) CountByStatus(ctx context.Context, status models.LeaveStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UpdateDecision moves a Pending request to status. It reports false when the
// request was no longer Pending.
func (r *GormLeaveRequestRepository) UpdateDecision(ctx context.Context, id uint, status models.LeaveStatus, reviewerID string, at time.Time, remarks string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Where("id = ? AND status = ?", id, models.LeavePending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"remarks":     remarks,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to update leave decision")
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// DeleteCancellable removes the owner's request while it is Pending or Approved.
func (r *GormLeaveRequestRepository) DeleteCancellable(ctx context.Context, id uint, profileID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ? AND status IN ?", id, profileID,
			[]models.LeaveStatus{models.LeavePending, models.LeaveApproved}).
		Delete(&models.LeaveRequest{})

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete leave request")
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
