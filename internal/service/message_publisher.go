package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/observability"
)

// eventChanBufferSize is the buffer size for the event channel (creates backpressure when full).
const eventChanBufferSize = 1024

// providerTimeout bounds one event's fan-out so a stuck provider cannot stall the worker.
const providerTimeout = 10 * time.Second

// Event is a person change published to in-process providers (e.g. the embedding enqueuer).
type Event struct {
	ID            uuid.UUID           // Unique event id (UUID v7, time-ordered)
	Type          datatypes.EventType // PersonUpserted, PersonProfileUpdated, PersonDeleted
	Timestamp     int64               // Unix timestamp
	Data          any                 // Usually *models.Person
	ChangedFields []string            // Only for updates
}

// MessagePublisher defines the interface for publishing events.
type MessagePublisher interface {
	PublishEvent(ctx context.Context, eventType datatypes.EventType, data any)
	PublishEventWithChangedFields(ctx context.Context, eventType datatypes.EventType, data any, changedFields []string)
}

// eventPublisher is the internal interface for providers that receive a full Event.
type eventPublisher interface {
	PublishEvent(ctx context.Context, event Event)
}

// MessagePublisherManager coordinates multiple message providers.
type MessagePublisherManager struct {
	eventChan chan Event
	providers []eventPublisher
	metrics   observability.EventMetrics
	wg        sync.WaitGroup
}

// NewMessagePublisherManager creates a new message publisher manager and starts its worker.
// metrics may be nil when metrics are disabled.
func NewMessagePublisherManager(metrics observability.EventMetrics) *MessagePublisherManager {
	m := &MessagePublisherManager{
		eventChan: make(chan Event, eventChanBufferSize),
		metrics:   metrics,
	}

	m.wg.Add(1)

	go m.startWorker()

	return m
}

// RegisterProvider registers a message provider.
// Must only be called during startup, before any events are published.
func (m *MessagePublisherManager) RegisterProvider(provider eventPublisher) {
	m.providers = append(m.providers, provider)
}

// PublishEvent publishes an event with data to all registered providers.
func (m *MessagePublisherManager) PublishEvent(ctx context.Context, eventType datatypes.EventType, data any) {
	m.PublishEventWithChangedFields(ctx, eventType, data, nil)
}

// PublishEventWithChangedFields publishes an event without blocking. When the buffer is
// full the event is dropped and counted.
func (m *MessagePublisherManager) PublishEventWithChangedFields(
	ctx context.Context, eventType datatypes.EventType, data any, changedFields []string,
) {
	event := Event{
		ID:            uuid.Must(uuid.NewV7()),
		Type:          eventType,
		Timestamp:     time.Now().Unix(),
		Data:          data,
		ChangedFields: changedFields,
	}

	select {
	case m.eventChan <- event:
		if m.metrics != nil {
			m.metrics.RecordEventPublished(ctx, event.Type.String())
		}

		slog.Debug("Event published to channel", "event_id", event.ID, "event_type", event.Type.String())
	default:
		if m.metrics != nil {
			m.metrics.RecordEventDiscarded(ctx, event.Type.String())
		}

		slog.Warn("Event channel full, event dropped", "event_id", event.ID, "event_type", event.Type.String())
	}

	if m.metrics != nil {
		m.metrics.SetChannelDepth(len(m.eventChan))
	}
}

// startWorker reads events from the channel and fans each one out to all providers.
// It runs until Shutdown closes the channel.
func (m *MessagePublisherManager) startWorker() {
	defer m.wg.Done()

	bgCtx := context.Background()

	for event := range m.eventChan {
		start := time.Now()
		ctx, cancel := context.WithTimeout(bgCtx, providerTimeout)

		for _, provider := range m.providers {
			provider.PublishEvent(ctx, event)
		}

		cancel()

		if m.metrics != nil {
			m.metrics.RecordFanOutDuration(bgCtx, time.Since(start), event.Type.String())
			m.metrics.SetChannelDepth(len(m.eventChan))
		}
	}
}

// Shutdown stops the background worker and waits for the buffer to drain.
func (m *MessagePublisherManager) Shutdown() {
	close(m.eventChan)
	m.wg.Wait()
}
