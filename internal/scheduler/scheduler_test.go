package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"attendance-leave/internal/config"

	"github.com/sirupsen/logrus"
)

type fakeAttendance struct {
	cutoff time.Time
}

func (f *fakeAttendance) AutoCheckout(_ context.Context, cutoff time.Time) (int, error) {
	f.cutoff = cutoff
	return 2, nil
}

type fakeBalances struct {
	err error
}

func (f *fakeBalances) AccrueMonthlyLeave(context.Context, time.Time) (int, error) {
	return 0, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRunAutoCheckoutUsesLocalCutoff(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	att := &fakeAttendance{}
	jobs := NewJobs(att, &fakeBalances{}, config.Clock{Hour: 18}, loc, quietLogger())

	// 22:30 UTC on the 19th is 01:30 on the 20th locally.
	closed, err := jobs.RunAutoCheckout(context.Background(), time.Date(2026, 10, 19, 22, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if closed != 2 {
		t.Fatalf("closed = %d", closed)
	}

	want := time.Date(2026, 10, 20, 18, 0, 0, 0, loc)
	if !att.cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", att.cutoff, want)
	}
}

func TestRunBalanceBackfillWrapsError(t *testing.T) {
	boom := errors.New("boom")
	jobs := NewJobs(&fakeAttendance{}, &fakeBalances{err: boom}, config.Clock{}, nil, quietLogger())

	if _, err := jobs.RunBalanceBackfill(context.Background(), time.Now()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewRejectsBadCronExpression(t *testing.T) {
	jobs := NewJobs(&fakeAttendance{}, &fakeBalances{}, config.Clock{}, nil, quietLogger())

	if _, err := New(jobs, "not a cron", "0 1 1 * *", quietLogger()); err == nil {
		t.Fatal("expected error for bad auto check-out expression")
	}

	s, err := New(jobs, "0 23 * * *", "0 1 1 * *", quietLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
