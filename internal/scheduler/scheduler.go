package scheduler

import (
	"context"
	"fmt"
	"time"

	"attendance-leave/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

type AutoCheckouter interface {
	AutoCheckout(ctx context.Context, cutoff time.Time) (int, error)
}

type BalanceBackfiller interface {
	AccrueMonthlyLeave(ctx context.Context, now time.Time) (int, error)
}

// Jobs are the periodic housekeeping tasks. They can be run on a cron
// schedule or invoked once from the command line.
type Jobs struct {
	attendance AutoCheckouter
	balances   BalanceBackfiller
	cutoff     config.Clock
	location   *time.Location
	logger     *logrus.Logger
}

func NewJobs(attendance AutoCheckouter, balances BalanceBackfiller, cutoff config.Clock, location *time.Location, logger *logrus.Logger) *Jobs {
	if location == nil {
		location = time.UTC
	}
	return &Jobs{
		attendance: attendance,
		balances:   balances,
		cutoff:     cutoff,
		location:   location,
		logger:     logger,
	}
}

// RunAutoCheckout closes records still open on now's day at the cutoff.
func (j *Jobs) RunAutoCheckout(ctx context.Context, now time.Time) (int, error) {
	cutoff := j.cutoff.On(now.In(j.location))
	closed, err := j.attendance.AutoCheckout(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auto check-out: %w", err)
	}
	return closed, nil
}

func (j *Jobs) RunBalanceBackfill(ctx context.Context, now time.Time) (int, error) {
	n, err := j.balances.AccrueMonthlyLeave(ctx, now.In(j.location))
	if err != nil {
		return 0, fmt.Errorf("balance backfill: %w", err)
	}
	return n, nil
}

// Scheduler runs Jobs on cron expressions. A run that is still going when the
// next tick fires is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Logger
}

func New(jobs *Jobs, autoCheckoutSpec, backfillSpec string, logger *logrus.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(jobs.location),
		cron.WithChain(
			cron.Recover(cron.PrintfLogger(logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		),
	)

	s := &Scheduler{cron: c, logger: logger}

	if _, err := c.AddFunc(autoCheckoutSpec, s.wrap("auto_checkout", jobs.RunAutoCheckout)); err != nil {
		return nil, fmt.Errorf("schedule auto check-out %q: %w", autoCheckoutSpec, err)
	}
	if _, err := c.AddFunc(backfillSpec, s.wrap("balance_backfill", jobs.RunBalanceBackfill)); err != nil {
		return nil, fmt.Errorf("schedule balance backfill %q: %w", backfillSpec, err)
	}

	return s, nil
}

func (s *Scheduler) wrap(name string, run func(context.Context, time.Time) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		n, err := run(ctx, start)
		entry := s.logger.WithFields(logrus.Fields{
			"job":      name,
			"affected": n,
			"took_ms":  time.Since(start).Milliseconds(),
		})
		if err != nil {
			entry.WithError(err).Error("Scheduled job failed")
			return
		}
		entry.Info("Scheduled job finished")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop prevents new runs and waits for running ones or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
}
