package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"

	"github.com/sirupsen/logrus"
)

// Notifier hands notifications off without blocking the caller. Delivery is
// at-most-once and failures are never reported back.
type Notifier interface {
	Notify(notes ...models.Notification)
}

// ChatSender is an optional extra delivery channel, e.g. a Telegram bot.
type ChatSender interface {
	SendMessage(chatID int64, text string) error
}

// Dispatcher persists notifications from a background worker.
type Dispatcher struct {
	notifications repository.NotificationRepository
	profiles      repository.ProfileRepository
	chat          ChatSender
	logger        *logrus.Logger

	queue  chan []models.Notification
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(
	notifications repository.NotificationRepository,
	profiles repository.ProfileRepository,
	chat ChatSender,
	queueSize int,
	logger *logrus.Logger,
) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		notifications: notifications,
		profiles:      profiles,
		chat:          chat,
		logger:        logger,
		queue:         make(chan []models.Notification, queueSize),
		done:          make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for batch := range d.queue {
			d.deliver(batch)
		}
	}()
}

// Notify enqueues the batch, dropping it when the queue is full or closed.
func (d *Dispatcher) Notify(notes ...models.Notification) {
	if len(notes) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.WithField("count", len(notes)).Warn("Dispatcher stopped, notifications dropped")
		return
	}

	select {
	case d.queue <- notes:
	default:
		d.logger.WithField("count", len(notes)).Warn("Notification queue full, notifications dropped")
	}
}

// Stop closes the queue and waits for queued batches to be delivered.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(batch []models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.notifications.CreateBatch(ctx, batch); err != nil {
		d.logger.WithError(err).WithField("count", len(batch)).Error("Failed to store notifications")
		return
	}

	if d.chat == nil {
		return
	}

	for _, note := range batch {
		profile, err := d.profiles.GetByID(ctx, note.RecipientID)
		if err != nil || profile == nil || profile.TelegramChatID == nil {
			continue
		}

		text := fmt.Sprintf("%s\n\n%s", note.Title, note.Message)
		if err := d.chat.SendMessage(*profile.TelegramChatID, text); err != nil {
			d.logger.WithError(err).WithField("recipient_id", note.RecipientID).Warn("Failed to send chat notification")
		}
	}
}

// NotificationService is the read side used by the inbox endpoints.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint, recipientID string) error {
	ok, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}
