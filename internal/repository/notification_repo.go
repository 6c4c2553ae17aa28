package repository

import (
	"context"

	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notes []models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uint, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type GormNotificationRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormNotificationRepository(db *gorm.DB, logger *logrus.Logger) (*GormNotificationRepository, error) {
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate notifications table")
		return nil, err
	}

	logger.Debug("Notification repository initialized")

	return &GormNotificationRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notes []models.Notification) error {
	if len(notes) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&notes).Error; err != nil {
		r.logger.WithError(err).WithField("count", len(notes)).Error("Failed to store notifications")
		return err
	}

	r.logger.WithField("count", len(notes)).Debug("Notifications stored")
	return nil
}

func (r *GormNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var notes []*models.Notification

	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("created_at DESC, id DESC").Find(&notes).Error; err != nil {
		r.logger.WithError(err).WithField("recipient_id", recipientID).Error("Failed to list notifications")
		return nil, err
	}
	return notes, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id uint, recipientID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	return result.RowsAffected == 1, result.Error
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("recipient_id", recipientID).Error("Failed to mark notifications read")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
