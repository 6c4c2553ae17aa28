package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"attendance-leave/internal/database"
	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"

	"github.com/sirupsen/logrus"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (r *recordingNotifier) Notify(notes ...models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notes...)
}

func (r *recordingNotifier) sent() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.notes...)
}

type testEnv struct {
	repos      *repository.Repositories
	ledger     *LeaveBalanceService
	leaves     *LeaveRequestService
	attendance *AttendanceService
	profiles   *ProfileService
	reports    *ReportService
	notifier   *recordingNotifier
	logger     *logrus.Logger
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		URL:    "file:" + name + "?mode=memory&cache=shared",
	}, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	repos, err := repository.NewRepositories(db, logger)
	if err != nil {
		t.Fatalf("new repositories: %v", err)
	}

	notifier := &recordingNotifier{}
	ledger := NewLeaveBalanceService(repos.Balances, logger)

	return &testEnv{
		repos:      repos,
		ledger:     ledger,
		leaves:     NewLeaveRequestService(repos, ledger, notifier, logger),
		attendance: NewAttendanceService(repos.Attendance, time.UTC, logger),
		profiles:   NewProfileService(repos.Profiles, ledger, logger),
		reports:    NewReportService(repos, time.UTC, logger),
		notifier:   notifier,
		logger:     logger,
	}
}

func (e *testEnv) addProfile(t *testing.T, id, code string, role models.Role) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: id, FullName: "User " + code, EmployeeCode: code, Role: role}
	if err := e.repos.Profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func (e *testEnv) balance(t *testing.T, profileID string, leaveType models.LeaveType, year int) *models.LeaveBalance {
	t.Helper()
	b, err := e.ledger.GetBalance(context.Background(), profileID, leaveType, year)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if b == nil {
		t.Fatalf("no %s balance for %s/%d", leaveType, profileID, year)
	}
	return b
}
