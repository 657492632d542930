package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/bias"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/profile"
	"github.com/asha-ai/asha/internal/store"
)

type fakeBias struct {
	result bias.Result
}

func (f *fakeBias) Classify(ctx context.Context, query string) bias.Result {
	return f.result
}

type fakeContent struct {
	result models.RetrievalResult
	err    error

	lastLimit    int
	lastCategory models.Category
	calls        int
}

func (f *fakeContent) Retrieve(ctx context.Context, query string, limit int, category models.Category) (models.RetrievalResult, error) {
	f.calls++
	f.lastLimit = limit
	f.lastCategory = category
	return f.result, f.err
}

func (f *fakeContent) Rebuild(ctx context.Context) error { return nil }

type fakeAnswers struct {
	text       string
	lastPrompt string
	calls      int
}

func (f *fakeAnswers) Generate(ctx context.Context, promptText string) string {
	f.calls++
	f.lastPrompt = promptText
	return f.text
}

type fakeEvents struct {
	chats  []models.ChatEvent
	biases []models.BiasEvent
}

func (f *fakeEvents) LogChat(ev models.ChatEvent)         { f.chats = append(f.chats, ev) }
func (f *fakeEvents) LogBiasDetected(ev models.BiasEvent) { f.biases = append(f.biases, ev) }

type fakeProfiles struct {
	profile *profile.Profile
	err     error
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*profile.Profile, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.profile, f.profile != nil, nil
}

type fixture struct {
	bias     *fakeBias
	content  *fakeContent
	answers  *fakeAnswers
	events   *fakeEvents
	profiles *fakeProfiles
	pipeline *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		bias:     &fakeBias{},
		content:  &fakeContent{},
		answers:  &fakeAnswers{text: "Here is some advice."},
		events:   &fakeEvents{},
		profiles: &fakeProfiles{},
	}
	f.pipeline = New(f.bias, f.content, f.answers, f.profiles, f.events, 5, zap.NewNop())
	return f
}

func TestChatHappyPath(t *testing.T) {
	f := newFixture()
	f.content.result = models.RetrievalResult{
		{Text: "Title: QA Engineer.", Metadata: map[string]string{"source_type": "job"}},
	}

	resp, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "find me a QA job", Topic: "career", Language: "English", UserID: "u1",
		History: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != "Here is some advice." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if resp.BiasDetected {
		t.Error("clean query flagged as biased")
	}
	if resp.MessageID == "" {
		t.Error("response missing message id")
	}
	if _, perr := time.Parse(time.RFC3339, resp.Timestamp); perr != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", resp.Timestamp, perr)
	}
	if f.content.lastCategory != models.CategoryJob {
		t.Errorf("expected career topic to retrieve jobs, got %q", f.content.lastCategory)
	}
	if f.content.lastLimit != 5 {
		t.Errorf("expected configured limit 5, got %d", f.content.lastLimit)
	}

	if len(f.events.chats) != 1 {
		t.Fatalf("expected 1 chat event, got %d", len(f.events.chats))
	}
	ev := f.events.chats[0]
	if ev.Query != "find me a QA job" || ev.Topic != "career" || !ev.HadContext {
		t.Errorf("unexpected chat event: %+v", ev)
	}
	if ev.ResponseLength != len(resp.Response) {
		t.Errorf("expected response length %d, got %d", len(resp.Response), ev.ResponseLength)
	}
}

func TestChatEmptyQueryRejected(t *testing.T) {
	f := newFixture()
	_, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{Query: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.content.calls != 0 || f.answers.calls != 0 {
		t.Error("rejected request must not reach retrieval or generation")
	}
	if len(f.events.chats) != 0 {
		t.Error("rejected request must not log a chat event")
	}
}

func TestChatBiasedQueryDeflected(t *testing.T) {
	f := newFixture()
	f.bias.result = bias.Result{Biased: true, Type: bias.TypeGender}

	resp, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "why hire women at all", Language: "English",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != BiasDeflectionMessage {
		t.Errorf("expected deflection message, got %q", resp.Response)
	}
	if !resp.BiasDetected {
		t.Error("expected bias_detected true")
	}
	if f.content.calls != 0 || f.answers.calls != 0 {
		t.Error("biased query must skip retrieval and generation")
	}
	if len(f.events.biases) != 1 {
		t.Fatalf("expected 1 bias event, got %d", len(f.events.biases))
	}
	ev := f.events.biases[0]
	if ev.BiasType != "gender" || !ev.Prevented {
		t.Errorf("unexpected bias event: %+v", ev)
	}
	if len(f.events.chats) != 0 {
		t.Error("deflected turn must not log a chat event")
	}
}

func TestChatRetrievalUnavailable(t *testing.T) {
	f := newFixture()
	f.content.err = store.ErrUnavailable

	_, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{Query: "anything"})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if f.answers.calls != 0 {
		t.Error("failed retrieval must not reach generation")
	}
	if len(f.events.chats) != 0 {
		t.Error("failed turn must not log a chat event")
	}
}

func TestChatEmptyRetrievalStillAnswers(t *testing.T) {
	f := newFixture()

	resp, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{Query: "tell me about ikigai"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response == "" {
		t.Error("expected an answer despite empty retrieval")
	}
	if f.events.chats[0].HadContext {
		t.Error("expected had_context false for empty retrieval")
	}
	if !strings.Contains(f.answers.lastPrompt, "tell me about ikigai") {
		t.Error("prompt should carry the user question")
	}
}

func TestChatFirstTurnPersonalization(t *testing.T) {
	f := newFixture()
	f.profiles.profile = &profile.Profile{UserID: "u1", Name: "Priya"}

	resp, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "hello", UserID: "u1",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.HasPrefix(resp.Response, "Welcome back, Priya! ") {
		t.Errorf("expected personalized greeting, got %q", resp.Response)
	}

	// A later turn in the same conversation is not prefixed.
	resp2, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{
		Query: "hello again", UserID: "u1",
		History: []models.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if strings.HasPrefix(resp2.Response, "Welcome back") {
		t.Errorf("follow-up turn should not be personalized, got %q", resp2.Response)
	}
}

func TestChatProfileLookupFailureDegrades(t *testing.T) {
	f := newFixture()
	f.profiles.err = errors.New("disk gone")

	resp, err := f.pipeline.Chat(context.Background(), &models.ChatRequest{Query: "hello", UserID: "u1"})
	if err != nil {
		t.Fatalf("profile failure must not fail the turn: %v", err)
	}
	if resp.Response != "Here is some advice." {
		t.Errorf("expected unprefixed answer, got %q", resp.Response)
	}
}
