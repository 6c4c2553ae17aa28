package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"

	"github.com/sirupsen/logrus"
)

type RegisterProfileInput struct {
	FullName       string
	Department     string
	MobileNumber   string
	EmployeeCode   string
	TelegramChatID *int64
}

type UpdateProfileInput struct {
	FullName       string
	Department     string
	MobileNumber   string
	TelegramChatID *int64
}

type ProfileService struct {
	repo   repository.ProfileRepository
	ledger *LeaveBalanceService
	logger *logrus.Logger
}

func NewProfileService(repo repository.ProfileRepository, ledger *LeaveBalanceService, logger *logrus.Logger) *ProfileService {
	return &ProfileService{repo: repo, ledger: ledger, logger: logger}
}

// Register creates the caller's profile. Self-registration always yields an
// employee; admins are provisioned out of band.
func (s *ProfileService) Register(ctx context.Context, id string, in RegisterProfileInput, now time.Time) (*models.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	if in.FullName == "" || in.EmployeeCode == "" {
		return nil, ErrInvalidProfile
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	profile := &models.Profile{
		ID:             id,
		FullName:       in.FullName,
		Department:     strings.TrimSpace(in.Department),
		Role:           models.RoleEmployee,
		MobileNumber:   strings.TrimSpace(in.MobileNumber),
		EmployeeCode:   in.EmployeeCode,
		TelegramChatID: in.TelegramChatID,
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmployeeCodeTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// Lazy initialization covers a failure here on first balance access.
	if _, err := s.ledger.InitializeBalances(ctx, id, now.Year()); err != nil {
		s.logger.WithError(err).WithField("profile_id", id).Warn("Failed to initialize balances at registration")
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id":    id,
		"employee_code": profile.EmployeeCode,
	}).Info("Profile registered")

	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateOwn changes contact details. Empty strings keep the current value;
// the role can never be changed here.
func (s *ProfileService) UpdateOwn(ctx context.Context, id string, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FullName); v != "" {
		profile.FullName = v
	}
	if v := strings.TrimSpace(in.Department); v != "" {
		profile.Department = v
	}
	if v := strings.TrimSpace(in.MobileNumber); v != "" {
		profile.MobileNumber = v
	}
	if in.TelegramChatID != nil {
		profile.TelegramChatID = in.TelegramChatID
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) ListEmployees(ctx context.Context) ([]*models.Profile, error) {
	return s.repo.ListByRole(ctx, models.RoleEmployee)
}
