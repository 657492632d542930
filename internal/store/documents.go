package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/pkg/utils"
)

// buildCorpus converts the current job and session records into documents.
// Every document carries a source_type metadata tag matching its category;
// prompt composition branches on that tag downstream.
func (s *Store) buildCorpus() ([]*models.Document, error) {
	jobs, err := s.records.Jobs()
	if err != nil {
		return nil, fmt.Errorf("read jobs: %w", err)
	}
	sessions, err := s.records.Sessions()
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	docs := make([]*models.Document, 0, len(jobs)+len(sessions))
	for _, j := range jobs {
		docs = append(docs, jobDocument(j))
	}
	for _, sess := range sessions {
		docs = append(docs, sessionDocument(sess))
	}
	return docs, nil
}

func jobDocument(j models.Job) *models.Document {
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s. Company: %s. Location: %s.", j.Title, j.Company, j.Location)
	if j.Type != "" {
		fmt.Fprintf(&b, " Type: %s.", j.Type)
	}
	if j.Deadline != "" {
		fmt.Fprintf(&b, " Deadline: %s.", j.Deadline)
	}
	if j.Description != "" {
		// Hand-edited CSV descriptions can carry embedded newlines.
		fmt.Fprintf(&b, " Description: %s", utils.CollapseWhitespace(j.Description))
	}
	return &models.Document{
		ID:       "job_" + id,
		Text:     b.String(),
		Category: models.CategoryJob,
		Metadata: map[string]string{
			"source_type": string(models.CategoryJob),
			"title":       j.Title,
			"company":     j.Company,
			"location":    j.Location,
			"apply_url":   j.ApplyURL,
		},
	}
}

func sessionDocument(sess models.Session) *models.Document {
	id := sess.ID
	if id == "" {
		id = uuid.New().String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s. Date: %s. Location: %s.", sess.Title, sess.Date, sess.Location)
	if sess.Organizer != "" {
		fmt.Fprintf(&b, " Organizer: %s.", sess.Organizer)
	}
	if sess.Description != "" {
		fmt.Fprintf(&b, " Description: %s", utils.CollapseWhitespace(sess.Description))
	}
	return &models.Document{
		ID:       "session_" + id,
		Text:     b.String(),
		Category: models.CategorySession,
		Metadata: map[string]string{
			"source_type":  string(models.CategorySession),
			"title":        sess.Title,
			"date":         sess.Date,
			"location":     sess.Location,
			"register_url": sess.RegisterURL,
		},
	}
}

// passageFromDocument copies the document's text and metadata into a passage.
// The metadata map is copied so callers cannot mutate stored documents.
func passageFromDocument(doc *models.Document) models.Passage {
	meta := make(map[string]string, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	meta["source_type"] = string(doc.Category)
	return models.Passage{Text: doc.Text, Metadata: meta}
}
