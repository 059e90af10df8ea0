package trip

import (
	"log"
	"time"
)

// EventType identifies a controller event.
type EventType string

const (
	EventQuoteProduced       EventType = "QUOTE_PRODUCED"
	EventApproximateLocation EventType = "APPROXIMATE_LOCATION"
	EventTripConfirmed       EventType = "TRIP_CONFIRMED"
	EventStatusChanged       EventType = "STATUS_CHANGED"
	EventSyncFetchFailed     EventType = "SYNC_FETCH_FAILED"
	EventSyncDegraded        EventType = "SYNC_DEGRADED"
	EventSyncRecovered       EventType = "SYNC_RECOVERED"
	EventTripCancelled       EventType = "TRIP_CANCELLED"
	EventTripCompleted       EventType = "TRIP_COMPLETED"
	EventTripReleased        EventType = "TRIP_RELEASED"
)

// Event is one observable occurrence inside the controller. The view layer
// subscribes through an EventSink instead of the core writing to a log
// directly, so tests can assert on events.
type Event struct {
	Type      EventType
	TripID    string
	Message   string
	Data      map[string]any
	CreatedAt time.Time
}

// EventSink receives controller events. Implementations must not block:
// events are emitted from the polling path.
type EventSink interface {
	Emit(ev Event)
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(Event) {}

// LogSink writes events to the standard logger.
type LogSink struct{}

// Emit implements EventSink.
func (LogSink) Emit(ev Event) {
	log.Printf("[EVENT] Type=%s, Trip=%s, Message=%s", ev.Type, ev.TripID, ev.Message)
}

// Ensure sinks implement EventSink.
var (
	_ EventSink = NopSink{}
	_ EventSink = LogSink{}
)
