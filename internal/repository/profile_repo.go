package repository

import (
	"context"
	"errors"

	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context) ([]*models.Profile, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.Profile, error)
}

type GormProfileRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormProfileRepository(db *gorm.DB, logger *logrus.Logger) (*GormProfileRepository, error) {
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate profiles table")
		return nil, err
	}

	logger.Debug("Profile repository initialized")

	return &GormProfileRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	fields := logrus.Fields{
		"profile_id":    profile.ID,
		"employee_code": profile.EmployeeCode,
	}

	if err := translate(r.db.WithContext(ctx).Create(profile).Error); err != nil {
		if errors.Is(err, ErrDuplicate) {
			r.logger.WithFields(fields).Warn("Profile already exists")
		} else {
			r.logger.WithError(err).WithFields(fields).Error("Failed to create profile")
		}
		return err
	}

	r.logger.WithFields(fields).Info("Profile created")
	return nil
}

func (r *GormProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&profile)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("profile_id", id).Error("Failed to get profile")
		return nil, result.Error
	}

	return &profile, nil
}

func (r *GormProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"full_name":        profile.FullName,
			"department":       profile.Department,
			"mobile_number":    profile.MobileNumber,
			"telegram_chat_id": profile.TelegramChatID,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("profile_id", profile.ID).Error("Failed to update profile")
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.logger.WithField("profile_id", profile.ID).Debug("Profile updated")
	return nil
}

func (r *GormProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	result := r.db.WithContext(ctx).Order("full_name").Find(&profiles)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list profiles")
		return nil, result.Error
	}

	return profiles, nil
}

func (r *GormProfileRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.Profile, error) {
	var profiles []*models.Profile
	result := r.db.WithContext(ctx).Where("role = ?", role).Order("full_name").Find(&profiles)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("role", role).Error("Failed to list profiles by role")
		return nil, result.Error
	}

	return profiles, nil
}
