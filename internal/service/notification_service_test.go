package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository/memory"
)

func domainTime() time.Time {
	return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewNotificationService(store, nil)
	ticket := &domain.Ticket{ID: "t-1", RepresentativeID: "rep-1"}

	sys := svc.MakeSystemNotification(ticket, "hello")
	if err := store.SystemNotifications().Create(ctx, &sys); err != nil {
		t.Fatalf("create: %v", err)
	}
	adm := svc.MakeAdminNotification(ticket, "heads up")
	if err := store.AdminNotifications().Create(ctx, &adm); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, want := range []MarkReadResult{MarkReadMarked, MarkReadAlreadyRead} {
		got, err := svc.MarkSystemNotificationRead(ctx, sys.ID)
		if err != nil || got != want {
			t.Fatalf("call %d: expected %s, got %s (%v)", i, want, got, err)
		}
	}
	if got, err := svc.MarkSystemNotificationRead(ctx, "missing"); err != nil || got != MarkReadNotFound {
		t.Fatalf("expected not found no-op, got %s (%v)", got, err)
	}
	if got, err := svc.MarkAdminNotificationRead(ctx, adm.ID); err != nil || got != MarkReadMarked {
		t.Fatalf("expected admin marked, got %s (%v)", got, err)
	}
	if got, err := svc.MarkAdminNotificationRead(ctx, "missing"); err != nil || got != MarkReadNotFound {
		t.Fatalf("expected admin not found no-op, got %s (%v)", got, err)
	}

	rows, unread, err := svc.ListForUser(ctx, "rep-1", false)
	if err != nil || len(rows) != 1 || unread != 0 || !rows[0].IsRead {
		t.Fatalf("unexpected listing %+v unread=%d err=%v", rows, unread, err)
	}
	if rows, _, _ := svc.ListForUser(ctx, "rep-1", true); len(rows) != 0 {
		t.Fatalf("unread filter should hide read rows, got %d", len(rows))
	}
	owns, err := svc.OwnsSystemNotification(ctx, "rep-2", sys.ID)
	if err != nil || owns {
		t.Fatalf("rep-2 must not own the notification")
	}
}

func TestMakeNotificationsStartUnread(t *testing.T) {
	svc := NewNotificationService(memory.NewStore(), nil)
	svc.nowFn = domainTime
	n := svc.MakeSystemNotification(&domain.Ticket{ID: "t-9", RepresentativeID: "rep-9"}, "msg")
	if n.IsRead || n.UserID != "rep-9" || n.TicketID != "t-9" || n.ID == "" || !n.CreatedAt.Equal(domainTime()) {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestConcurrentMarkReadReportsMarkedOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewNotificationService(store, nil)
	adm := svc.MakeAdminNotification(&domain.Ticket{ID: "t-2"}, "escalated")
	if err := store.AdminNotifications().Create(ctx, &adm); err != nil {
		t.Fatalf("create: %v", err)
	}

	const callers = 8
	results := make(chan MarkReadResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.MarkAdminNotificationRead(ctx, adm.ID)
			if err != nil {
				t.Errorf("mark read: %v", err)
			}
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	marked := 0
	for got := range results {
		switch got {
		case MarkReadMarked:
			marked++
		case MarkReadAlreadyRead:
		default:
			t.Fatalf("unexpected result %s", got)
		}
	}
	if marked != 1 {
		t.Fatalf("expected exactly one caller to mark the notification, got %d", marked)
	}
}
