package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockGenerator is a scripted generator for tests. Responses are returned in
// FIFO order per method; when the script is exhausted, Err (if set) or a fixed
// fallback string is returned.
type MockGenerator struct {
	mu                sync.Mutex
	ClassifyResponses []string
	GenerateResponses []string
	ClassifyErr       error
	GenerateErr       error
	ClassifyCalls     int
	GenerateCalls     int
}

// Classify pops the next scripted classification response.
func (m *MockGenerator) Classify(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifyCalls++
	if m.ClassifyErr != nil {
		return "", m.ClassifyErr
	}
	if len(m.ClassifyResponses) == 0 {
		return "", fmt.Errorf("mock: no classify responses scripted")
	}
	resp := m.ClassifyResponses[0]
	m.ClassifyResponses = m.ClassifyResponses[1:]
	return resp, nil
}

// Generate pops the next scripted generation response.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls++
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	if len(m.GenerateResponses) == 0 {
		return "", fmt.Errorf("mock: no generate responses scripted")
	}
	resp := m.GenerateResponses[0]
	m.GenerateResponses = m.GenerateResponses[1:]
	return resp, nil
}

// Close is a no-op.
func (m *MockGenerator) Close() error { return nil }
