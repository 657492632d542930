// Package records provides flat-file persistence for sessions, jobs, trusted
// sources, and feedback. The deployment is single-process; a per-kind mutex
// serializes writers so concurrent HTTP requests cannot interleave a
// read-modify-write cycle on the same file.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/asha-ai/asha/internal/models"
)

// File names under the data directory (feedback lives in its own subdirectory).
const (
	sessionsFile       = "session_details.json"
	jobsFile           = "job_listing_data.csv"
	trustedSourcesFile = "trusted_sources.json"
	feedbackFile       = "feedback_list.json"
)

// Store reads and writes record files. A missing file reads as an empty list,
// never an error.
type Store struct {
	dataDir     string
	feedbackDir string

	sessionsMu sync.Mutex
	jobsMu     sync.Mutex
	trustedMu  sync.Mutex
	feedbackMu sync.Mutex
}

// NewStore creates a record store over dataDir. feedbackDir holds the feedback
// list; both directories are created if absent.
func NewStore(dataDir, feedbackDir string) (*Store, error) {
	for _, dir := range []string{dataDir, feedbackDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return &Store{dataDir: dataDir, feedbackDir: feedbackDir}, nil
}

// SessionsPath returns the absolute path of the sessions file.
func (s *Store) SessionsPath() string { return filepath.Join(s.dataDir, sessionsFile) }

// JobsPath returns the absolute path of the jobs file.
func (s *Store) JobsPath() string { return filepath.Join(s.dataDir, jobsFile) }

// Sessions returns all session records.
func (s *Store) Sessions() ([]models.Session, error) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	var sessions []models.Session
	if err := readJSONFile(s.SessionsPath(), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSessions replaces the sessions file.
func (s *Store) SaveSessions(sessions []models.Session) error {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return writeJSONFile(s.SessionsPath(), sessions)
}

// Jobs returns all job records.
func (s *Store) Jobs() ([]models.Job, error) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	return readJobsCSV(s.JobsPath())
}

// SaveJobs replaces the jobs file.
func (s *Store) SaveJobs(jobs []models.Job) error {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	return writeJobsCSV(s.JobsPath(), jobs)
}

// TrustedSources returns all trusted source records.
func (s *Store) TrustedSources() ([]models.TrustedSource, error) {
	s.trustedMu.Lock()
	defer s.trustedMu.Unlock()
	var sources []models.TrustedSource
	if err := readJSONFile(filepath.Join(s.dataDir, trustedSourcesFile), &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// SaveTrustedSources replaces the trusted sources file.
func (s *Store) SaveTrustedSources(sources []models.TrustedSource) error {
	s.trustedMu.Lock()
	defer s.trustedMu.Unlock()
	return writeJSONFile(filepath.Join(s.dataDir, trustedSourcesFile), sources)
}

// Feedback returns all feedback entries.
func (s *Store) Feedback() ([]models.Feedback, error) {
	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()
	return s.readFeedbackLocked()
}

// AppendFeedback adds one feedback entry.
func (s *Store) AppendFeedback(fb models.Feedback) error {
	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()
	list, err := s.readFeedbackLocked()
	if err != nil {
		return err
	}
	list = append(list, fb)
	return writeJSONFile(filepath.Join(s.feedbackDir, feedbackFile), list)
}

// UpdateFeedbackStatus sets the status of the feedback entry with the given id.
// Returns false when no entry matches.
func (s *Store) UpdateFeedbackStatus(id, status string) (bool, error) {
	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()
	list, err := s.readFeedbackLocked()
	if err != nil {
		return false, err
	}
	found := false
	for i := range list {
		if list[i].ID == id {
			list[i].Status = status
			found = true
		}
	}
	if !found {
		return false, nil
	}
	return true, writeJSONFile(filepath.Join(s.feedbackDir, feedbackFile), list)
}

func (s *Store) readFeedbackLocked() ([]models.Feedback, error) {
	var list []models.Feedback
	if err := readJSONFile(filepath.Join(s.feedbackDir, feedbackFile), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
