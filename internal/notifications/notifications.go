// Package notifications carries typed lifecycle events from the hiring
// engine to the delivery system. Publishing is fire-and-forget: the
// state transition an event describes has already committed, so
// delivery failures are logged and never surfaced to the caller.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workbridge/workbridge/internal/logger"
)

// EventType represents the type of hiring lifecycle event
type EventType string

const (
	// EventApplicationReceived is emitted when a worker applies to a job
	EventApplicationReceived EventType = "application_received"
	// EventInvitationReceived is emitted when a client invites a worker
	EventInvitationReceived EventType = "invitation_received"
	// EventInvitationExpired is emitted when the sweep retires a stale invitation
	EventInvitationExpired EventType = "invitation_expired"
	// EventOfferAccepted is emitted when an offer is accepted and promoted
	EventOfferAccepted EventType = "offer_accepted"
	// EventOfferRejected is emitted when an offer is rejected
	EventOfferRejected EventType = "offer_rejected"
	// EventOfferWithdrawn is emitted when an offer is withdrawn
	EventOfferWithdrawn EventType = "offer_withdrawn"
	// EventContractCreated is emitted when a contract is created
	EventContractCreated EventType = "contract_created"
	// EventContractStarted is emitted when work starts on a contract
	EventContractStarted EventType = "contract_started"
	// EventContractAwaitingConfirmation is emitted when the worker marks work done
	EventContractAwaitingConfirmation EventType = "contract_awaiting_confirmation"
	// EventContractCompleted is emitted when the client confirms completion
	EventContractCompleted EventType = "contract_completed"
	// EventContractCancelled is emitted when a contract is cancelled
	EventContractCancelled EventType = "contract_cancelled"
	// EventContractDisputed is emitted when a completed contract is disputed
	EventContractDisputed EventType = "contract_disputed"

	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event describes one lifecycle transition for delivery.
type Event struct {
	ID         uuid.UUID              // Unique event id
	Type       EventType              // The type of event
	Recipients []uint                 // Actor ids that should be notified
	OldStatus  string                 // Status before the transition, if any
	NewStatus  string                 // Status after the transition, if any
	Data       map[string]interface{} // Template data (job title, rate, ...)
	OccurredAt time.Time
}

// NewEvent creates an event with an id and timestamp filled in.
func NewEvent(eventType EventType, recipients []uint) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Recipients: recipients,
		Data:       make(map[string]interface{}),
		OccurredAt: time.Now(),
	}
}

// Dispatcher accepts lifecycle events for delivery.
type Dispatcher interface {
	Publish(event Event)
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

// AsyncDispatcher buffers events on a channel and fans them out to
// registered handlers on a background loop.
type AsyncDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	events   chan Event
}

// NewAsyncDispatcher creates a dispatcher with a buffered event channel.
func NewAsyncDispatcher() *AsyncDispatcher {
	return &AsyncDispatcher{
		handlers: make(map[EventType][]Handler),
		events:   make(chan Event, EventChannelSize),
	}
}

// Subscribe registers a handler for a specific event type
func (d *AsyncDispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed. It never blocks the caller:
// when the buffer is full the event is dropped with a log line, since
// notification delivery is best-effort.
func (d *AsyncDispatcher) Publish(event Event) {
	select {
	case d.events <- event:
		logger.Debugf("Published event %s (%s)", event.Type, event.ID)
	default:
		logger.WarnWithFields("Dropping notification event, buffer full", map[string]interface{}{
			"event_type": event.Type,
			"event_id":   event.ID.String(),
		})
	}
}

// Start starts the event processing loop
func (d *AsyncDispatcher) Start(ctx context.Context) {
	go d.processEvents(ctx)
	logger.Info("Started notification dispatch loop")
}

func (d *AsyncDispatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping notification dispatch loop")
			return
		case event := <-d.events:
			d.mu.RLock()
			eventHandlers := d.handlers[event.Type]
			d.mu.RUnlock()

			for _, handler := range eventHandlers {
				if err := handler(ctx, event); err != nil {
					logger.ErrorWithFields("Failed to deliver notification", map[string]interface{}{
						"event_type": event.Type,
						"event_id":   event.ID.String(),
						"error":      err.Error(),
					})
				}
			}
		}
	}
}

// AllEventTypes lists every lifecycle event type.
var AllEventTypes = []EventType{
	EventApplicationReceived,
	EventInvitationReceived,
	EventInvitationExpired,
	EventOfferAccepted,
	EventOfferRejected,
	EventOfferWithdrawn,
	EventContractCreated,
	EventContractStarted,
	EventContractAwaitingConfirmation,
	EventContractCompleted,
	EventContractCancelled,
	EventContractDisputed,
}

// SubscribeLogging registers a handler for every event type that logs
// the delivery. It stands in for a real delivery channel (mail, push)
// and keeps an audit trail of what was sent.
func SubscribeLogging(d *AsyncDispatcher) {
	for _, eventType := range AllEventTypes {
		d.Subscribe(eventType, func(_ context.Context, event Event) error {
			logger.InfoWithFields("Notification", map[string]interface{}{
				"event_type": event.Type,
				"event_id":   event.ID.String(),
				"recipients": event.Recipients,
				"old_status": event.OldStatus,
				"new_status": event.NewStatus,
			})
			return nil
		})
	}
}

// Recorder is a Dispatcher that remembers every published event.
// Intended for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records the event.
func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of the given type.
func (r *Recorder) OfType(eventType EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
