// Package analytics provides the append-only analytics event log and the
// aggregation summary read by the admin dashboard. Events are partitioned into
// one JSON file per calendar day. All writes go through a single writer
// goroutine, so concurrent requests on the same day cannot lose events to a
// read-modify-write race.
package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/models"
)

const (
	partitionDateFormat = "2006-01-02"
	partitionFilePrefix = "events_"
)

// Log records analytics events into daily partition files.
type Log struct {
	dir    string
	logger *zap.Logger
	events chan models.AnalyticsEvent
	done   chan struct{}
	now    func() time.Time
}

// NewLog creates the analytics log and starts its writer goroutine. Call Close
// to flush pending events on shutdown.
func NewLog(dir string, logger *zap.Logger) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create analytics directory: %w", err)
	}
	l := &Log{
		dir:    dir,
		logger: logger,
		events: make(chan models.AnalyticsEvent, 256),
		done:   make(chan struct{}),
		now:    time.Now,
	}
	go l.run()
	return l, nil
}

// LogChat records a "chat" event.
func (l *Log) LogChat(ev models.ChatEvent) {
	l.append(models.EventChat, ev)
}

// LogBiasDetected records a "bias_detected" event.
func (l *Log) LogBiasDetected(ev models.BiasEvent) {
	l.append(models.EventBiasDetected, ev)
}

// LogFeedback records a "feedback" event.
func (l *Log) LogFeedback(ev models.FeedbackEvent) {
	l.append(models.EventFeedback, ev)
}

// Close flushes pending events and stops the writer goroutine.
func (l *Log) Close() {
	close(l.events)
	<-l.done
}

func (l *Log) append(eventType models.EventType, data any) {
	now := l.now().UTC()
	l.events <- models.AnalyticsEvent{
		ID:        uuid.New().String(),
		Timestamp: now.Format(time.RFC3339),
		EventType: eventType,
		Data:      data,
	}
}

// run is the single writer. Events are persisted immediately, one file write
// per event; volume is low (one event per chat turn).
func (l *Log) run() {
	defer close(l.done)
	for ev := range l.events {
		if err := l.persist(ev); err != nil {
			l.logger.Error("failed to persist analytics event",
				zap.String("event_type", string(ev.EventType)), zap.Error(err))
		}
	}
}

func (l *Log) persist(ev models.AnalyticsEvent) error {
	ts, err := time.Parse(time.RFC3339, ev.Timestamp)
	if err != nil {
		ts = l.now().UTC()
	}
	path := l.partitionPath(ts)

	var events []json.RawMessage
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &events); err != nil {
			// A corrupt partition must not block new events; start a fresh
			// file and keep the old contents aside.
			l.logger.Warn("corrupt analytics partition, rotating", zap.String("path", path), zap.Error(err))
			_ = os.Rename(path, path+".corrupt")
			events = nil
		}
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read partition: %w", err)
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	events = append(events, raw)

	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal partition: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write partition: %w", err)
	}
	return nil
}

func (l *Log) partitionPath(ts time.Time) string {
	return filepath.Join(l.dir, partitionFilePrefix+ts.Format(partitionDateFormat)+".json")
}
