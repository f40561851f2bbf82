package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/events"
	"github.com/helpline-ops/support-desk/internal/observability"
	"github.com/helpline-ops/support-desk/internal/repository/memory"
)

func TestRelayPostsEvents(t *testing.T) {
	var (
		mu       sync.Mutex
		received []events.Event
	)
	done := make(chan struct{}, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var e events.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
		done <- struct{}{}
	}))
	defer srv.Close()

	relay := NewNotificationRelay(srv.URL, time.Second, nil)
	dispatcher := events.NewInMemoryDispatcher()
	relay.Register(dispatcher)
	ctx, cancel := context.WithCancel(context.Background())
	relay.Start(ctx)

	_ = dispatcher.Publish(context.Background(), events.Event{ID: "e-1", Type: events.EventTicketCreated, TicketID: "t-1"})
	_ = dispatcher.Publish(context.Background(), events.Event{ID: "e-2", Type: events.EventTicketUpdated, TicketID: "t-1"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for delivery %d", i)
		}
	}
	cancel()
	relay.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 || received[0].ID != "e-1" || received[1].Type != events.EventTicketUpdated {
		t.Fatalf("unexpected deliveries %+v", received)
	}
}

func TestRelayDisabledWithoutURL(t *testing.T) {
	relay := NewNotificationRelay("", time.Second, nil)
	if relay.Enabled() {
		t.Fatalf("relay without url should be disabled")
	}
	dispatcher := events.NewInMemoryDispatcher()
	relay.Register(dispatcher)
	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated}); err != nil {
		t.Fatalf("disabled relay must not subscribe: %v", err)
	}
}

func TestKPISnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, tk := range []domain.Ticket{
		{ID: "t-1", Status: domain.TicketStatusInProgress, CreatedAt: now, UpdatedAt: now},
		{ID: "t-2", Status: domain.TicketStatusClosed, CreatedAt: now, UpdatedAt: now.Add(48 * time.Hour)},
	} {
		tk := tk
		if err := store.Tickets().Create(ctx, &tk); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := store.AdminNotifications().Create(ctx, &domain.AdminNotification{ID: "n-1", TicketID: "t-1", CreatedAt: now}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	metrics := observability.NewMetrics()
	job, err := NewKPISnapshotJob("@every 1h", store, metrics, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	kpi, err := job.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if kpi.ActiveCount != 1 || kpi.ClosedCount != 1 || kpi.AvgResolutionTime != "2.0 days" {
		t.Fatalf("unexpected kpi %+v", kpi)
	}
	gauges := metrics.Snapshot().Gauges
	if gauges["tickets_active"] != 1 || gauges["tickets_closed"] != 1 || gauges["admin_notifications_unread"] != 1 {
		t.Fatalf("unexpected gauges %v", gauges)
	}
	job.Start()
	job.Stop()
}

func TestKPISnapshotRejectsBadSchedule(t *testing.T) {
	if _, err := NewKPISnapshotJob("not a schedule", memory.NewStore(), nil, nil); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}
