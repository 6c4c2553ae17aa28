package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance-leave/internal/models"
)

func TestInitializeBalancesIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.addProfile(t, "emp", "E001", models.RoleEmployee)

	created, err := env.ledger.InitializeBalances(ctx, "emp", 2026)
	if err != nil || created != 3 {
		t.Fatalf("first init created %d, err %v", created, err)
	}

	if err := env.ledger.DeductBalance(ctx, "emp", models.LeaveEarned, 5, 2026); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	created, err = env.ledger.InitializeBalances(ctx, "emp", 2026)
	if err != nil || created != 0 {
		t.Fatalf("second init created %d, err %v", created, err)
	}

	b := env.balance(t, "emp", models.LeaveEarned, 2026)
	if b.UsedDays != 5 || b.RemainingDays != 10 {
		t.Fatalf("re-init overwrote usage: %+v", b)
	}
}

func TestListBalancesInitializesLazily(t *testing.T) {
	env := setupTestEnv(t)
	env.addProfile(t, "emp", "E001", models.RoleEmployee)

	balances, err := env.ledger.ListBalances(context.Background(), "emp", 2027)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("got %d balances, want 3", len(balances))
	}
	for _, b := range balances {
		if b.TotalDays != models.DefaultAllowances[b.LeaveType] || b.RemainingDays != b.TotalDays {
			t.Fatalf("unexpected default row %+v", b)
		}
	}
}

func TestDeductAndRestore(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.addProfile(t, "emp", "E001", models.RoleEmployee)

	if _, err := env.ledger.InitializeBalances(ctx, "emp", 2026); err != nil {
		t.Fatalf("init: %v", err)
	}

	err := env.ledger.DeductBalance(ctx, "emp", models.LeaveCasual, 11, 2026)
	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) || insufficient.Remaining != 10 {
		t.Fatalf("over-deduct err = %v", err)
	}

	if err := env.ledger.DeductBalance(ctx, "emp", models.LeaveCasual, 4, 2026); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	ok, err := env.ledger.HasSufficientBalance(ctx, "emp", models.LeaveCasual, 7, 2026)
	if err != nil || ok {
		t.Fatalf("sufficient(7) = %v, err %v", ok, err)
	}

	// Restoring more than was used clamps at zero.
	if err := env.ledger.RestoreBalance(ctx, "emp", models.LeaveCasual, 6, 2026); err != nil {
		t.Fatalf("restore: %v", err)
	}
	b := env.balance(t, "emp", models.LeaveCasual, 2026)
	if b.UsedDays != 0 || b.RemainingDays != 10 {
		t.Fatalf("after restore: %+v", b)
	}

	if err := env.ledger.RestoreBalance(ctx, "emp", models.LeaveCasual, 1, 2030); !errors.Is(err, ErrBalanceNotFound) {
		t.Fatalf("restore missing row err = %v", err)
	}
}

func TestAccrueMonthlyLeaveBackfillsEmployees(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.addProfile(t, "a", "E001", models.RoleEmployee)
	env.addProfile(t, "b", "E002", models.RoleEmployee)
	env.addProfile(t, "boss", "A001", models.RoleAdmin)

	if _, err := env.ledger.InitializeBalances(ctx, "a", 2026); err != nil {
		t.Fatalf("init: %v", err)
	}

	now := time.Date(2026, 11, 1, 1, 0, 0, 0, time.UTC)
	n, err := env.ledger.AccrueMonthlyLeave(ctx, now)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if n != 1 {
		t.Fatalf("initialized %d employees, want 1", n)
	}

	if rows, _ := env.repos.Balances.ListByProfileAndYear(ctx, "boss", 2026); len(rows) != 0 {
		t.Fatalf("admin got balances: %d", len(rows))
	}

	n, err = env.ledger.AccrueMonthlyLeave(ctx, now)
	if err != nil || n != 0 {
		t.Fatalf("second run initialized %d, err %v", n, err)
	}
}
