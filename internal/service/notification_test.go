package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"attendance-leave/internal/models"
)

type fakeChat struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func (f *fakeChat) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[int64][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	chatID := int64(4242)
	admin := env.addProfile(t, "adm", "A001", models.RoleAdmin)
	admin.TelegramChatID = &chatID
	if err := env.repos.Profiles.Update(ctx, admin); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	env.addProfile(t, "emp", "E001", models.RoleEmployee)

	chat := &fakeChat{}
	d := NewDispatcher(env.repos.Notifications, env.repos.Profiles, chat, 8, env.logger)
	d.Start()

	d.Notify(models.Notification{RecipientID: "adm", Title: "New leave request", Message: "Sick", Category: models.CategoryLeaveRequest})
	d.Notify(models.Notification{RecipientID: "emp", Title: "Leave request Approved", Message: "ok", Category: models.CategoryLeaveDecision})
	d.Notify()

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	for _, id := range []string{"adm", "emp"} {
		n, err := env.repos.Notifications.CountUnread(ctx, id)
		if err != nil || n != 1 {
			t.Fatalf("%s unread = %d, err %v", id, n, err)
		}
	}

	chat.mu.Lock()
	got := len(chat.sent[chatID])
	chat.mu.Unlock()
	if got != 1 {
		t.Fatalf("chat messages = %d, want 1", got)
	}

	// Notify after Stop is dropped, not a panic.
	d.Notify(models.Notification{RecipientID: "emp", Title: "late"})
	if err := d.Stop(stopCtx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestNotificationServiceReadState(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := NewNotificationService(env.repos.Notifications)

	notes := []models.Notification{
		{RecipientID: "emp", Title: "one", Category: models.CategoryLeaveDecision},
		{RecipientID: "emp", Title: "two", Category: models.CategoryLeaveDecision},
	}
	if err := env.repos.Notifications.CreateBatch(ctx, notes); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, "emp", true, 10)
	if err != nil || len(list) != 2 {
		t.Fatalf("unread list = %d, err %v", len(list), err)
	}

	if err := svc.MarkRead(ctx, list[0].ID, "someone-else"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign mark read err = %v", err)
	}
	if err := svc.MarkRead(ctx, list[0].ID, "emp"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, "emp"); n != 1 {
		t.Fatalf("unread = %d, want 1", n)
	}

	if n, err := svc.MarkAllRead(ctx, "emp"); err != nil || n != 1 {
		t.Fatalf("mark all = %d, err %v", n, err)
	}
	if n, _ := svc.UnreadCount(ctx, "emp"); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
}
