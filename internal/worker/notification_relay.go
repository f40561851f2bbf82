package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpline-ops/support-desk/internal/events"
)

const defaultRelayQueue = 256

// NotificationRelay forwards committed lifecycle events to an outbound webhook.
// Delivery is best effort and never blocks the request that published the event.
type NotificationRelay struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
	queue   chan events.Event
	wg      sync.WaitGroup
}

// NewNotificationRelay builds a relay. An empty url disables delivery.
func NewNotificationRelay(url string, timeout time.Duration, logger *zap.Logger) *NotificationRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationRelay{
		url:     url,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan events.Event, defaultRelayQueue),
	}
}

// Enabled reports whether a webhook is configured.
func (r *NotificationRelay) Enabled() bool {
	return r != nil && r.url != ""
}

// Register subscribes the relay to ticket events.
func (r *NotificationRelay) Register(dispatcher events.Dispatcher) {
	if !r.Enabled() || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, r.enqueue)
	dispatcher.Subscribe(events.EventTicketUpdated, r.enqueue)
}

// Start drains the queue until ctx is cancelled, then flushes what is left.
func (r *NotificationRelay) Start(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.flush()
				return
			case event := <-r.queue:
				r.deliver(event)
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (r *NotificationRelay) Wait() {
	r.wg.Wait()
}

func (r *NotificationRelay) enqueue(_ context.Context, event events.Event) error {
	select {
	case r.queue <- event:
		return nil
	default:
		r.logger.Warn("notification relay queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return errors.New("notification relay queue full")
	}
}

func (r *NotificationRelay) flush() {
	for {
		select {
		case event := <-r.queue:
			r.deliver(event)
		default:
			return
		}
	}
}

func (r *NotificationRelay) deliver(event events.Event) {
	if err := r.post(event); err != nil {
		r.logger.Warn("notification relay failed",
			zap.String("event_id", event.ID),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return
	}
	r.logger.Debug("notification relayed", zap.String("event_id", event.ID))
}

func (r *NotificationRelay) post(event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	agent := fiber.Post(r.url)
	agent.Body(body)
	agent.ContentType(fiber.MIMEApplicationJSON)
	if r.timeout > 0 {
		agent.Timeout(r.timeout)
	}
	if err := agent.Parse(); err != nil {
		return err
	}
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook responded %d", status)
	}
	return nil
}
