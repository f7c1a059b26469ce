package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event of a step run.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// RunID is the associated run ID.
	RunID string `json:"run_id,omitempty"`

	// Stage is the associated stage, if any.
	Stage string `json:"stage,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants.
const (
	EventTypeRunStarted     = "run.started"
	EventTypeRunCompleted   = "run.completed"
	EventTypeRunFailed      = "run.failed"
	EventTypeStageStarted   = "stage.started"
	EventTypeStageCompleted = "stage.completed"
	EventTypeStageFailed    = "stage.failed"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// EventPublisher delivers events to subscribers in publish order on the
// caller's goroutine.
type EventPublisher struct {
	config      EventsConfig
	subscribers []subscriberEntry
	sink        io.WriteCloser
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	ep := &EventPublisher{config: cfg}
	if !cfg.Enabled || cfg.Path == "" {
		return ep, nil
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	ep.sink = f
	ep.Subscribe(JSONLinesSubscriber(f), nil)
	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) {
	if !ep.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// Subscribe adds a new event subscriber. A nil filter accepts every event.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// PublishRunStarted publishes a run started event.
func (ep *EventPublisher) PublishRunStarted(runID, schema string) {
	ep.Publish(Event{
		Type:    EventTypeRunStarted,
		RunID:   runID,
		Message: fmt.Sprintf("Run %s started", runID),
		Level:   EventLevelInfo,
		Data:    map[string]interface{}{"schema": schema},
	})
}

// PublishRunCompleted publishes a run completed event.
func (ep *EventPublisher) PublishRunCompleted(runID string, duration time.Duration) {
	ep.Publish(Event{
		Type:    EventTypeRunCompleted,
		RunID:   runID,
		Message: fmt.Sprintf("Run %s completed", runID),
		Level:   EventLevelInfo,
		Data:    map[string]interface{}{"duration": duration.Seconds()},
	})
}

// PublishRunFailed publishes a run failed event.
func (ep *EventPublisher) PublishRunFailed(runID, reason string) {
	ep.Publish(Event{
		Type:    EventTypeRunFailed,
		RunID:   runID,
		Message: fmt.Sprintf("Run %s failed: %s", runID, reason),
		Level:   EventLevelError,
		Data:    map[string]interface{}{"reason": reason},
	})
}

// PublishStageStarted publishes a stage started event.
func (ep *EventPublisher) PublishStageStarted(runID, stage string) {
	ep.Publish(Event{
		Type:    EventTypeStageStarted,
		RunID:   runID,
		Stage:   stage,
		Message: fmt.Sprintf("Stage %s started", stage),
		Level:   EventLevelInfo,
	})
}

// PublishStageCompleted publishes a stage completed event.
func (ep *EventPublisher) PublishStageCompleted(runID, stage string, duration time.Duration) {
	ep.Publish(Event{
		Type:    EventTypeStageCompleted,
		RunID:   runID,
		Stage:   stage,
		Message: fmt.Sprintf("Stage %s completed", stage),
		Level:   EventLevelInfo,
		Data:    map[string]interface{}{"duration": duration.Seconds()},
	})
}

// PublishStageFailed publishes a stage failed event.
func (ep *EventPublisher) PublishStageFailed(runID, stage, reason string) {
	ep.Publish(Event{
		Type:    EventTypeStageFailed,
		RunID:   runID,
		Stage:   stage,
		Message: fmt.Sprintf("Stage %s failed: %s", stage, reason),
		Level:   EventLevelError,
		Data:    map[string]interface{}{"reason": reason},
	})
}

// Shutdown closes the events file, if any.
func (ep *EventPublisher) Shutdown() error {
	if ep.sink == nil {
		return nil
	}
	err := ep.sink.Close()
	ep.sink = nil
	return err
}

// JSONLinesSubscriber writes each event as one JSON document per line.
func JSONLinesSubscriber(w io.Writer) EventSubscriber {
	enc := json.NewEncoder(w)
	return func(event Event) {
		_ = enc.Encode(event)
	}
}
