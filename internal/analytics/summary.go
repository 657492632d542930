package analytics

import (
	"encoding/json"
	"os"
	"time"

	"github.com/asha-ai/asha/internal/models"
)

// Summary aggregates analytics events for the admin dashboard.
type Summary struct {
	UserEngagement   EngagementSummary `json:"user_engagement"`
	ResponseAccuracy AccuracySummary   `json:"response_accuracy"`
	BiasMetrics      BiasSummary       `json:"bias_metrics"`
}

// EngagementSummary describes query volume and language mix.
type EngagementSummary struct {
	TotalQueries         int            `json:"total_queries"`
	QueriesByDay         map[string]int `json:"queries_by_day"`
	LanguageDistribution map[string]int `json:"language_distribution"`
}

// AccuracySummary describes feedback volume and topic mix.
type AccuracySummary struct {
	FeedbackReceived int            `json:"feedback_received"`
	AccuracyRating   map[string]int `json:"accuracy_rating"`
	Topics           map[string]int `json:"topics"`
}

// BiasSummary describes bias filter activity.
type BiasSummary struct {
	BiasDetectedCount  int            `json:"bias_detected_count"`
	BiasPreventedCount int            `json:"bias_prevented_count"`
	BiasTypes          map[string]int `json:"bias_types"`
}

// storedEvent mirrors models.AnalyticsEvent with the payload kept raw so it
// can be decoded per event type.
type storedEvent struct {
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	EventType models.EventType `json:"event_type"`
	Data      json.RawMessage  `json:"data"`
}

// Summarize aggregates the last days partitions, today included. Missing
// partitions are treated as empty days.
func (l *Log) Summarize(days int) (*Summary, error) {
	if days < 1 {
		days = 1
	}
	s := &Summary{
		UserEngagement: EngagementSummary{
			QueriesByDay:         make(map[string]int),
			LanguageDistribution: make(map[string]int),
		},
		ResponseAccuracy: AccuracySummary{
			AccuracyRating: map[string]int{"accurate": 0, "inaccurate": 0},
			Topics:         make(map[string]int),
		},
		BiasMetrics: BiasSummary{
			BiasTypes: make(map[string]int),
		},
	}

	today := l.now().UTC()
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		events, err := l.readPartition(day)
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			s.apply(day.Format(partitionDateFormat), ev)
		}
	}
	return s, nil
}

func (l *Log) readPartition(day time.Time) ([]storedEvent, error) {
	data, err := os.ReadFile(l.partitionPath(day))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var events []storedEvent
	if err := json.Unmarshal(data, &events); err != nil {
		// Skip unreadable partitions rather than failing the whole summary.
		return nil, nil
	}
	return events, nil
}

func (s *Summary) apply(day string, ev storedEvent) {
	switch ev.EventType {
	case models.EventChat:
		var chat models.ChatEvent
		if err := json.Unmarshal(ev.Data, &chat); err != nil {
			return
		}
		s.UserEngagement.TotalQueries++
		s.UserEngagement.QueriesByDay[day]++
		if chat.Language != "" {
			s.UserEngagement.LanguageDistribution[chat.Language]++
		}
		if chat.Topic != "" {
			s.ResponseAccuracy.Topics[chat.Topic]++
		}
	case models.EventBiasDetected:
		var bias models.BiasEvent
		if err := json.Unmarshal(ev.Data, &bias); err != nil {
			return
		}
		s.BiasMetrics.BiasDetectedCount++
		if bias.Prevented {
			s.BiasMetrics.BiasPreventedCount++
		}
		if bias.BiasType != "" {
			s.BiasMetrics.BiasTypes[bias.BiasType]++
		}
	case models.EventFeedback:
		var fb models.FeedbackEvent
		if err := json.Unmarshal(ev.Data, &fb); err != nil {
			return
		}
		s.ResponseAccuracy.FeedbackReceived++
		if fb.Helpful {
			s.ResponseAccuracy.AccuracyRating["accurate"]++
		} else {
			s.ResponseAccuracy.AccuracyRating["inaccurate"]++
		}
	}
}
