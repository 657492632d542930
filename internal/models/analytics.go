package models

// EventType classifies an analytics event.
type EventType string

const (
	EventChat         EventType = "chat"
	EventBiasDetected EventType = "bias_detected"
	EventFeedback     EventType = "feedback"
)

// ChatEvent is the payload of a "chat" analytics event.
type ChatEvent struct {
	Query          string `json:"query"`
	ResponseLength int    `json:"response_length"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	Language       string `json:"language"`
	UserID         string `json:"user_id"`
	Topic          string `json:"topic"`
	HadContext     bool   `json:"had_context"`
}

// BiasEvent is the payload of a "bias_detected" analytics event.
type BiasEvent struct {
	Query     string `json:"query"`
	BiasType  string `json:"bias_type"`
	Prevented bool   `json:"prevented"`
	Language  string `json:"language"`
}

// FeedbackEvent is the payload of a "feedback" analytics event.
type FeedbackEvent struct {
	MessageID    string `json:"message_id"`
	FeedbackType string `json:"feedback_type"`
	Helpful      bool   `json:"helpful"`
	Language     string `json:"language"`
}

// AnalyticsEvent is one logged event. Events are append-only and grouped into
// daily partitions; they are never mutated after write. Data holds one of the
// typed payloads above, keyed by EventType.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	EventType EventType `json:"event_type"`
	Data      any       `json:"data"`
}
