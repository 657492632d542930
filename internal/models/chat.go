package models

import (
	"fmt"
	"strings"
)

// ChatMessage is a single turn of conversation history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat. One ChatRequest is created per HTTP
// call; nothing is persisted beyond the analytics log.
type ChatRequest struct {
	Query    string        `json:"query"`
	History  []ChatMessage `json:"conversation_history,omitempty"`
	Language string        `json:"language,omitempty"`
	UserID   string        `json:"user_id,omitempty"`
	Topic    string        `json:"topic,omitempty"`
}

// Validate trims the query and applies defaults. Returns an error when the
// query is empty after trimming.
func (r *ChatRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.Language == "" {
		r.Language = "English"
	}
	return nil
}

// FirstTurn reports whether this request opens a conversation.
func (r *ChatRequest) FirstTurn() bool {
	return len(r.History) == 0
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Response     string `json:"response"`
	MessageID    string `json:"messageId"`
	Timestamp    string `json:"timestamp"`
	BiasDetected bool   `json:"bias_detected"`
}

// TopicRequest is the body of POST /api/classify-topic.
type TopicRequest struct {
	Message string `json:"message"`
}

// TopicResponse echoes the message back with its routed topic.
type TopicResponse struct {
	Topic           string `json:"topic"`
	OriginalMessage string `json:"original_message"`
}
