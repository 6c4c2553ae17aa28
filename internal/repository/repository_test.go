package repository

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"attendance-leave/internal/database"
	"attendance-leave/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func setupTestRepos(t *testing.T) *Repositories {
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

	repos, err := NewRepositories(db, logger)
	if err != nil {
		t.Fatalf("new repositories: %v", err)
	}
	return repos
}

func createProfile(t *testing.T, repos *Repositories, id, code string, role models.Role) {
	t.Helper()
	p := &models.Profile{ID: id, FullName: "User " + code, EmployeeCode: code, Role: role}
	if err := repos.Profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("create profile %s: %v", id, err)
	}
}

func TestInitializeIfMissingIsSkipIfExists(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	created, err := repos.Balances.InitializeIfMissing(ctx, "p1", 2026)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if created != 3 {
		t.Fatalf("created = %d, want 3", created)
	}

	if ok, err := repos.Balances.Deduct(ctx, "p1", models.LeaveSick, 2026, 4); err != nil || !ok {
		t.Fatalf("deduct: ok=%v err=%v", ok, err)
	}

	created, err = repos.Balances.InitializeIfMissing(ctx, "p1", 2026)
	if err != nil {
		t.Fatalf("re-initialize: %v", err)
	}
	if created != 0 {
		t.Fatalf("re-initialize created %d rows", created)
	}

	b, err := repos.Balances.Get(ctx, "p1", models.LeaveSick, 2026)
	if err != nil || b == nil {
		t.Fatalf("get: %v %v", b, err)
	}
	if b.UsedDays != 4 || b.RemainingDays != 8 {
		t.Fatalf("usage clobbered: used=%d remaining=%d", b.UsedDays, b.RemainingDays)
	}
}

func TestDeductGuardsRemaining(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	if ok, err := repos.Balances.Deduct(ctx, "missing", models.LeaveSick, 2026, 1); err != nil || ok {
		t.Fatalf("deduct on missing row: ok=%v err=%v", ok, err)
	}

	if _, err := repos.Balances.InitializeIfMissing(ctx, "p1", 2026); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if ok, _ := repos.Balances.Deduct(ctx, "p1", models.LeaveCasual, 2026, 11); ok {
		t.Fatal("deduct beyond remaining must not apply")
	}
	if ok, _ := repos.Balances.Deduct(ctx, "p1", models.LeaveCasual, 2026, 10); !ok {
		t.Fatal("deduct of exactly remaining must apply")
	}

	b, _ := repos.Balances.Get(ctx, "p1", models.LeaveCasual, 2026)
	if b.UsedDays != 10 || b.RemainingDays != 0 || !b.IsValid() {
		t.Fatalf("unexpected balance %+v", b)
	}
}

func TestRestoreClampsAtZero(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	if _, err := repos.Balances.InitializeIfMissing(ctx, "p1", 2026); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := repos.Balances.Deduct(ctx, "p1", models.LeaveEarned, 2026, 2); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if ok, err := repos.Balances.Restore(ctx, "p1", models.LeaveEarned, 2026, 5); err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}

	b, _ := repos.Balances.Get(ctx, "p1", models.LeaveEarned, 2026)
	if b.UsedDays != 0 || b.RemainingDays != 15 {
		t.Fatalf("restore not clamped: %+v", b)
	}
}

func TestProfileIDsWithoutYear(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	createProfile(t, repos, "e1", "E001", models.RoleEmployee)
	createProfile(t, repos, "e2", "E002", models.RoleEmployee)
	createProfile(t, repos, "a1", "A001", models.RoleAdmin)

	if _, err := repos.Balances.InitializeIfMissing(ctx, "e1", 2026); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := repos.Balances.InitializeIfMissing(ctx, "e2", 2025); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	ids, err := repos.Balances.ProfileIDsWithoutYear(ctx, models.RoleEmployee, 2026)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(ids) != 1 || ids[0] != "e2" {
		t.Fatalf("ids = %v, want [e2]", ids)
	}
}

func TestAttendanceUniquePerDay(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	in := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rec := &models.Attendance{ProfileID: "e1", Date: "2026-10-19", CheckIn: in, State: models.StateCheckedIn}
	if err := repos.Attendance.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &models.Attendance{ProfileID: "e1", Date: "2026-10-19", CheckIn: in.Add(time.Hour), State: models.StateCheckedIn}
	if err := repos.Attendance.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicate", err)
	}

	out := in.Add(8 * time.Hour)
	if ok, err := repos.Attendance.CompleteCheckOut(ctx, rec.ID, out, 480, false); err != nil || !ok {
		t.Fatalf("check-out: ok=%v err=%v", ok, err)
	}
	if ok, _ := repos.Attendance.CompleteCheckOut(ctx, rec.ID, out.Add(time.Hour), 540, false); ok {
		t.Fatal("second check-out must not apply")
	}
}

func TestStatesByRoleIgnoresOtherRoles(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	createProfile(t, repos, "e1", "E1", models.RoleEmployee)
	createProfile(t, repos, "a1", "A1", models.RoleAdmin)

	in := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"e1", "a1"} {
		rec := &models.Attendance{ProfileID: id, Date: "2026-10-19", CheckIn: in, State: models.StateCheckedIn}
		if err := repos.Attendance.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	states, err := repos.Attendance.StatesByRole(ctx, "2026-10-19", models.RoleEmployee)
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 1 || states["e1"] != models.StateCheckedIn {
		t.Fatalf("states = %v", states)
	}
}

func TestLeaveDecisionOnlyFromPending(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	req := &models.LeaveRequest{
		ProfileID: "e1", LeaveType: models.LeaveSick,
		StartDate: "2026-10-19", EndDate: "2026-10-21", WorkingDays: 3,
		Status: models.LeavePending,
	}
	if err := repos.Leaves.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	if ok, err := repos.Leaves.UpdateDecision(ctx, req.ID, models.LeaveApproved, "a1", at, "ok"); err != nil || !ok {
		t.Fatalf("approve: ok=%v err=%v", ok, err)
	}
	if ok, _ := repos.Leaves.UpdateDecision(ctx, req.ID, models.LeaveRejected, "a1", at, "no"); ok {
		t.Fatal("second decision must not apply")
	}

	onLeave, err := repos.Leaves.ListApprovedOn(ctx, "2026-10-20")
	if err != nil || len(onLeave) != 1 {
		t.Fatalf("approved on date: %v %v", onLeave, err)
	}

	if ok, _ := repos.Leaves.DeleteCancellable(ctx, req.ID, "someone-else"); ok {
		t.Fatal("non-owner must not delete")
	}
	if ok, err := repos.Leaves.DeleteCancellable(ctx, req.ID, "e1"); err != nil || !ok {
		t.Fatalf("owner delete: ok=%v err=%v", ok, err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	if _, err := repos.Balances.InitializeIfMissing(ctx, "p1", 2026); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if _, err := tx.Balances.Deduct(ctx, "p1", models.LeaveSick, 2026, 3); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	b, _ := repos.Balances.Get(ctx, "p1", models.LeaveSick, 2026)
	if b.UsedDays != 0 {
		t.Fatalf("deduction survived rollback: %+v", b)
	}
}

func TestNotificationsReadState(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	notes := []models.Notification{
		{RecipientID: "a1", Title: "one", Category: models.CategoryLeaveRequest},
		{RecipientID: "a1", Title: "two", Category: models.CategoryLeaveRequest},
		{RecipientID: "a2", Title: "three", Category: models.CategoryLeaveRequest},
	}
	if err := repos.Notifications.CreateBatch(ctx, notes); err != nil {
		t.Fatalf("create: %v", err)
	}

	unread, _ := repos.Notifications.CountUnread(ctx, "a1")
	if unread != 2 {
		t.Fatalf("unread = %d, want 2", unread)
	}

	list, _ := repos.Notifications.ListByRecipient(ctx, "a1", true, 0)
	if ok, err := repos.Notifications.MarkRead(ctx, list[0].ID, "a2"); err != nil || ok {
		t.Fatalf("foreign mark read: ok=%v err=%v", ok, err)
	}
	if ok, _ := repos.Notifications.MarkRead(ctx, list[0].ID, "a1"); !ok {
		t.Fatal("mark read failed")
	}

	n, _ := repos.Notifications.MarkAllRead(ctx, "a1")
	if n != 1 {
		t.Fatalf("mark all = %d, want 1", n)
	}
}

func TestProfileAndNotificationRepositoriesLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	db, err := database.Open(database.Options{
		Driver: "sqlite",
		URL:    "file:" + t.Name() + "?mode=memory&cache=shared",
	}, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	profiles, err := NewGormProfileRepository(db, logger)
	if err != nil {
		t.Fatalf("profile repository: %v", err)
	}
	notifications, err := NewGormNotificationRepository(db, logger)
	if err != nil {
		t.Fatalf("notification repository: %v", err)
	}

	seen := func(msg string) bool {
		for _, entry := range hook.AllEntries() {
			if entry.Message == msg {
				return true
			}
		}
		return false
	}
	for _, msg := range []string{"Profile repository initialized", "Notification repository initialized"} {
		if !seen(msg) {
			t.Fatalf("missing log entry %q", msg)
		}
	}

	ctx := context.Background()
	p := &models.Profile{ID: "e1", FullName: "User E001", EmployeeCode: "E001", Role: models.RoleEmployee}
	if err := profiles.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &models.Profile{ID: "e1", FullName: "User E001", EmployeeCode: "E001", Role: models.RoleEmployee}
	if err := profiles.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicate", err)
	}
	if last := hook.LastEntry(); last == nil || last.Level != logrus.WarnLevel || last.Data["profile_id"] != "e1" {
		t.Fatalf("duplicate profile not logged as warning: %+v", last)
	}

	notes := []models.Notification{{RecipientID: "e1", Title: "hello", Category: models.CategoryLeaveRequest}}
	if err := notifications.CreateBatch(ctx, notes); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if !seen("Notifications stored") {
		t.Fatal("missing log entry for stored notifications")
	}
}
