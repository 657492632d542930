package models

// Session is a career session or event record, maintained by admins.
type Session struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Organizer   string `json:"organizer,omitempty"`
	RegisterURL string `json:"registerUrl,omitempty"`
	Category    string `json:"category,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Job is a job listing record, maintained by admins.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Description string `json:"description,omitempty"`
	ApplyURL    string `json:"applyUrl,omitempty"`
	Category    string `json:"category,omitempty"`
	Source      string `json:"source,omitempty"`
}

// TrustedSource is a curated external resource shown in the chat UI.
type TrustedSource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Feedback is a user feedback entry on a chat message.
type Feedback struct {
	ID             string `json:"id"`
	MessageID      string `json:"messageId"`
	MessageContent string `json:"messageContent"`
	FeedbackType   string `json:"feedbackType"`
	FeedbackText   string `json:"feedbackText,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Helpful        bool   `json:"helpful"`
	Language       string `json:"language,omitempty"`
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
}

// Feedback status values.
const (
	FeedbackStatusNew      = "new"
	FeedbackStatusReviewed = "reviewed"
	FeedbackStatusResolved = "resolved"
)
