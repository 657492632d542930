// Package integration wires the real components together (sqlite storage,
// vector index, record files) around scripted model responses.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/analytics"
	"github.com/asha-ai/asha/internal/answer"
	"github.com/asha-ai/asha/internal/bias"
	"github.com/asha-ai/asha/internal/embedding"
	"github.com/asha-ai/asha/internal/llm"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/pipeline"
	"github.com/asha-ai/asha/internal/profile"
	"github.com/asha-ai/asha/internal/records"
	"github.com/asha-ai/asha/internal/storage"
	"github.com/asha-ai/asha/internal/store"
)

type env struct {
	pipeline *pipeline.Pipeline
	content  *store.Store
	events   *analytics.Log
	mock     *llm.MockGenerator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	rec, err := records.NewStore(filepath.Join(dir, "data"), filepath.Join(dir, "feedback"))
	if err != nil {
		t.Fatal(err)
	}
	jobsCSV := "id,title,company,location,type,deadline,description,applyUrl,category,source\n" +
		"j1,QA Engineer,Acme,Pune,Full-time,2026-05-01,Test web applications end to end.,https://example.org/j1,engineering,admin\n" +
		"j2,Data Analyst,Umbrella,Remote,Full-time,,Analyze product metrics.,https://example.org/j2,data,admin\n"
	if err := os.WriteFile(rec.JobsPath(), []byte(jobsCSV), 0644); err != nil {
		t.Fatal(err)
	}
	sessionsJSON := `[{"id": "s1", "title": "Resume Workshop", "date": "2026-04-10",
		"location": "Online", "description": "Hands-on resume review.",
		"registerUrl": "https://example.org/s1"}]`
	if err := os.WriteFile(rec.SessionsPath(), []byte(sessionsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	sqlStore, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })

	embedder := embedding.NewMockEmbedder(8)
	content := store.New(embedder, sqlStore, rec, filepath.Join(dir, "index.bin"), logger)
	if err := content.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	events, err := analytics.NewLog(filepath.Join(dir, "analytics"), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(events.Close)

	mock := &llm.MockGenerator{}
	pipe := pipeline.New(
		bias.NewFilter(mock, logger),
		content,
		answer.NewGenerator(mock, logger),
		profile.NewFileStore(filepath.Join(dir, "data")),
		events,
		5,
		logger,
	)
	return &env{pipeline: pipe, content: content, events: events, mock: mock}
}

func TestIntegration_CareerChat(t *testing.T) {
	e := newEnv(t)
	e.mock.ClassifyResponses = []string{"Biased: No"}
	e.mock.GenerateResponses = []string{"Two roles look like a fit for you."}

	resp, err := e.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "any QA jobs?", Topic: "career", Language: "English",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != "Two roles look like a fit for you." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if resp.BiasDetected {
		t.Error("clean query flagged as biased")
	}
	if e.mock.GenerateCalls != 1 {
		t.Errorf("expected 1 generate call, got %d", e.mock.GenerateCalls)
	}
}

func TestIntegration_BiasedQuerySkipsGeneration(t *testing.T) {
	e := newEnv(t)
	e.mock.ClassifyResponses = []string{"Biased: Yes, Type: gender"}

	resp, err := e.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "are women even capable of engineering?", Language: "English",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.BiasDetected {
		t.Error("expected bias_detected true")
	}
	if e.mock.GenerateCalls != 0 {
		t.Errorf("biased query must not reach generation, got %d calls", e.mock.GenerateCalls)
	}

	s, err := e.events.Summarize(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.BiasMetrics.BiasDetectedCount != 1 {
		t.Errorf("expected 1 bias event, got %d", s.BiasMetrics.BiasDetectedCount)
	}
}

func TestIntegration_GenerationFailureFallsBack(t *testing.T) {
	e := newEnv(t)
	e.mock.ClassifyResponses = []string{"Biased: No"}
	e.mock.GenerateErr = context.DeadlineExceeded

	resp, err := e.pipeline.Chat(context.Background(), &models.ChatRequest{Query: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != answer.ApologyMessage {
		t.Errorf("expected apology fallback, got %q", resp.Response)
	}
}

func TestIntegration_IndexPersistsAcrossRestart(t *testing.T) {
	e := newEnv(t)
	size := e.content.IndexSize()
	if size == 0 {
		t.Fatal("expected a populated index")
	}

	// A fresh store over the same paths loads the saved index without a
	// rebuild; retrieval is ready immediately.
	if err := e.content.LoadIndex(); err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if e.content.IndexSize() != size {
		t.Errorf("expected index size %d after reload, got %d", size, e.content.IndexSize())
	}

	e.mock.ClassifyResponses = []string{"Biased: No"}
	e.mock.GenerateResponses = []string{"Sessions coming up."}
	resp, err := e.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "any workshops?", Topic: "sessions",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Response, "Sessions") {
		t.Errorf("unexpected response: %q", resp.Response)
	}
}
