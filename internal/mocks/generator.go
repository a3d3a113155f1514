package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
)

// MockTextGenerator implements generation.TextGenerator for testing
type MockTextGenerator struct {
	// GenerateTextFn allows test cases to mock the GenerateText behavior
	GenerateTextFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Text string
	Err  error

	mu      sync.Mutex
	prompts []string
}

var _ generation.TextGenerator = (*MockTextGenerator)(nil)

// GenerateText implements generation.TextGenerator
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, prompt)
	}
	return m.Text, m.Err
}

// Prompts returns every prompt received so far.
func (m *MockTextGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns how many times GenerateText was called.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// NewMockTextGeneratorWithText creates a MockTextGenerator that always replies with text
func NewMockTextGeneratorWithText(text string) *MockTextGenerator {
	return &MockTextGenerator{Text: text}
}

// NewMockTextGeneratorWithError creates a MockTextGenerator that always fails with err
func NewMockTextGeneratorWithError(err error) *MockTextGenerator {
	return &MockTextGenerator{Err: err}
}

// MockClassifier implements generation.Classifier for testing
type MockClassifier struct {
	ClassifyFn  func(ctx context.Context, title, description string) generation.Classification
	SummarizeFn func(ctx context.Context, tasks []domain.Task) generation.Advisory

	mu             sync.Mutex
	classifyCalls  []string
	summarizeCalls [][]domain.Task
}

var _ generation.Classifier = (*MockClassifier)(nil)

// Classify implements generation.Classifier. Without ClassifyFn it returns a
// successful standard classification.
func (m *MockClassifier) Classify(ctx context.Context, title, description string) generation.Classification {
	m.mu.Lock()
	m.classifyCalls = append(m.classifyCalls, title)
	m.mu.Unlock()

	if m.ClassifyFn != nil {
		return m.ClassifyFn(ctx, title, description)
	}
	return generation.ClassifiedAs(domain.PriorityStandard)
}

// Summarize implements generation.Classifier. Without SummarizeFn it returns
// a fixed successful advisory.
func (m *MockClassifier) Summarize(ctx context.Context, tasks []domain.Task) generation.Advisory {
	m.mu.Lock()
	m.summarizeCalls = append(m.summarizeCalls, append([]domain.Task(nil), tasks...))
	m.mu.Unlock()

	if m.SummarizeFn != nil {
		return m.SummarizeFn(ctx, tasks)
	}
	return generation.AdvisedAs("mock advice")
}

// ClassifyTitles returns the titles passed to Classify, in call order.
func (m *MockClassifier) ClassifyTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.classifyCalls...)
}

// SummarizeCalls returns the task lists passed to Summarize, in call order.
func (m *MockClassifier) SummarizeCalls() [][]domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Task(nil), m.summarizeCalls...)
}

// SummarizeCount returns how many times Summarize was called.
func (m *MockClassifier) SummarizeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summarizeCalls)
}
