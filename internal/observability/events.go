package observability

// EventEnvelope is the bus-facing wrapper for realtime lifecycle events.
type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}
