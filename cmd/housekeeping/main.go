package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-leave/internal/config"
	"attendance-leave/internal/database"
	"attendance-leave/internal/middleware"
	"attendance-leave/internal/repository"
	"attendance-leave/internal/scheduler"
	"attendance-leave/internal/service"
	"attendance-leave/pkg/workdays"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage: housekeeping <auto-checkout|backfill-balances|issue-token> [flags]")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errUsage
	}

	cfg := config.Get()
	logger := cfg.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "auto-checkout":
		return runAutoCheckout(ctx, cfg, logger, args[1:])
	case "backfill-balances":
		return runBackfill(ctx, cfg, logger, args[1:])
	case "issue-token":
		return runIssueToken(cfg, args[1:])
	default:
		return errUsage
	}
}

func openJobs(cfg *config.Config, logger *logrus.Logger) (*scheduler.Jobs, func(), error) {
	db, err := database.Open(database.Options{
		Driver:  cfg.DatabaseDriver,
		URL:     cfg.DatabaseURL,
		LogMode: cfg.DatabaseLog,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	repos, err := repository.NewRepositories(db, logger)
	if err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}

	jobs := scheduler.NewJobs(
		service.NewAttendanceService(repos.Attendance, cfg.Location, logger),
		service.NewLeaveBalanceService(repos.Balances, logger),
		cfg.AutoCheckoutCutoff,
		cfg.Location,
		logger,
	)
	return jobs, func() { _ = database.Close(db) }, nil
}

// runAutoCheckout closes open records for -date, today by default.
func runAutoCheckout(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("auto-checkout", flag.ContinueOnError)
	date := fs.String("date", "", "day to close, YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now().In(cfg.Location)
	if *date != "" {
		day, err := workdays.ParseDate(*date)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		now = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, cfg.Location)
	}

	jobs, closeDB, err := openJobs(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	closed, err := jobs.RunAutoCheckout(ctx, now)
	if err != nil {
		return err
	}
	fmt.Printf("closed %d attendance records\n", closed)
	return nil
}

func runBackfill(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("backfill-balances", flag.ContinueOnError)
	year := fs.Int("year", time.Now().In(cfg.Location).Year(), "leave year to initialize")
	if err := fs.Parse(args); err != nil {
		return err
	}

	jobs, closeDB, err := openJobs(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := jobs.RunBalanceBackfill(ctx, time.Date(*year, time.January, 1, 12, 0, 0, 0, cfg.Location))
	if err != nil {
		return err
	}
	fmt.Printf("initialized balances for %d employees\n", n)
	return nil
}

// runIssueToken mints a bearer token for local testing against the shared secret.
func runIssueToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	subject := fs.String("sub", "", "profile id (UUID)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := uuid.Parse(*subject); err != nil {
		return fmt.Errorf("-sub must be a UUID: %w", err)
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, cfg.JWTIssuer, *subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
