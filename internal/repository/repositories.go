package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repositories groups every repository over one connection or transaction.
type Repositories struct {
	db     *gorm.DB
	logger *logrus.Logger

	Profiles      ProfileRepository
	Attendance    AttendanceRepository
	Leaves        LeaveRequestRepository
	Balances      LeaveBalanceRepository
	Notifications NotificationRepository
}

// NewRepositories migrates the schema and builds all repositories.
func NewRepositories(db *gorm.DB, logger *logrus.Logger) (*Repositories, error) {
	profiles, err := NewGormProfileRepository(db, logger)
	if err != nil {
		return nil, err
	}

	attendance, err := NewGormAttendanceRepository(db, logger)
	if err != nil {
		return nil, err
	}

	leaves, err := NewGormLeaveRequestRepository(db, logger)
	if err != nil {
		return nil, err
	}

	balances, err := NewGormLeaveBalanceRepository(db, logger)
	if err != nil {
		return nil, err
	}

	notifications, err := NewGormNotificationRepository(db, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Repositories initialized")

	return &Repositories{
		db:            db,
		logger:        logger,
		Profiles:      profiles,
		Attendance:    attendance,
		Leaves:        leaves,
		Balances:      balances,
		Notifications: notifications,
	}, nil
}

// Transaction runs fn with repositories bound to one database transaction.
// Any error returned by fn rolls the transaction back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.bind(tx))
	})
}

func (r *Repositories) bind(tx *gorm.DB) *Repositories {
	return &Repositories{
		db:            tx,
		logger:        r.logger,
		Profiles:      &GormProfileRepository{db: tx, logger: r.logger},
		Attendance:    &GormAttendanceRepository{db: tx, logger: r.logger},
		Leaves:        &GormLeaveRequestRepository{db: tx, logger: r.logger},
		Balances:      &GormLeaveBalanceRepository{db: tx, logger: r.logger},
		Notifications: &GormNotificationRepository{db: tx, logger: r.logger},
	}
}
