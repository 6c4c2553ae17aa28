package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-leave/internal/config"
	"attendance-leave/internal/database"
	"attendance-leave/internal/handler"
	"attendance-leave/internal/repository"
	"attendance-leave/internal/scheduler"
	"attendance-leave/internal/service"
	"attendance-leave/pkg/telegram"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Get()
	logger := cfg.NewLogger()
	logger.Info("Config initialized")

	db, err := database.Open(database.Options{
		Driver:  cfg.DatabaseDriver,
		URL:     cfg.DatabaseURL,
		LogMode: cfg.DatabaseLog,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	repos, err := repository.NewRepositories(db, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create repositories")
	}

	// Telegram delivery is optional; the in-app inbox always works.
	var chat service.ChatSender
	if cfg.TelegramBotToken != "" {
		client, err := telegram.NewClient(cfg.TelegramBotToken, false)
		if err != nil {
			logger.WithError(err).Warn("Telegram client unavailable, chat notifications disabled")
		} else {
			logger.Infof("Telegram notifications via @%s", client.Username())
			chat = client
		}
	}

	dispatcher := service.NewDispatcher(repos.Notifications, repos.Profiles, chat, cfg.NotifyQueueSize, logger)
	dispatcher.Start()

	ledger := service.NewLeaveBalanceService(repos.Balances, logger)
	attendance := service.NewAttendanceService(repos.Attendance, cfg.Location, logger)

	h := handler.NewHandler(
		service.NewProfileService(repos.Profiles, ledger, logger),
		attendance,
		service.NewLeaveRequestService(repos, ledger, dispatcher, logger),
		ledger,
		service.NewNotificationService(repos.Notifications),
		service.NewReportService(repos, cfg.Location, logger),
		cfg.Location,
		logger,
	)

	jobs := scheduler.NewJobs(attendance, ledger, cfg.AutoCheckoutCutoff, cfg.Location, logger)
	sched, err := scheduler.New(jobs, cfg.AutoCheckoutSchedule, cfg.BalanceBackfillSchedule, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create scheduler")
	}
	sched.Start()

	gin.SetMode(cfg.GinMode)
	router := handler.NewRouter(h, handler.RouterOptions{
		JWTSecret: cfg.JWTSecret,
		JWTIssuer: cfg.JWTIssuer,
		Profiles:  repos.Profiles,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	sched.Stop(ctx)
	if err := dispatcher.Stop(ctx); err != nil {
		logger.WithError(err).Warn("Notification queue not fully drained")
	}
	if err := database.Close(db); err != nil {
		logger.WithError(err).Warn("Error closing database")
	}

	logger.Info("Server stopped gracefully")
}
