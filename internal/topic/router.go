// Package topic normalizes free-form topic labels into the fixed set of
// routed topics, each mapping to a retrieval filter and a prompt template.
package topic

import (
	"strings"

	"github.com/asha-ai/asha/internal/models"
)

// Topic is a normalized topic label.
type Topic string

const (
	Career  Topic = "career"
	Session Topic = "session"
	General Topic = "general"
)

// Route maps a raw topic label to its normalized topic and the content-store
// category filter to use (empty = no filter). It is total over all strings and
// idempotent: routing an already-normalized topic returns the same result.
func Route(rawTopic string) (Topic, models.Category) {
	switch strings.ToLower(strings.TrimSpace(rawTopic)) {
	case "career", "job", "jobs":
		return Career, models.CategoryJob
	case "session", "sessions", "event", "events", "workshop", "workshops":
		return Session, models.CategorySession
	default:
		return General, ""
	}
}

// Classify routes a free-form message by scanning its words for topic
// keywords. Career keywords win over session keywords when both appear.
func Classify(message string) Topic {
	session := false
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		routed, _ := Route(word)
		switch routed {
		case Career:
			return Career
		case Session:
			session = true
		}
	}
	if session {
		return Session
	}
	return General
}
