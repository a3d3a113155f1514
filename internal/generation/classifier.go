package generation

import (
	"context"

	"github.com/phrazzld/traffic-tasker/internal/domain"
)

// Classifier suggests a priority for a task and writes short advisories for
// a task list. Implementations never return errors; see Classification and
// Advisory for how failures are reported.
type Classifier interface {
	// Classify suggests a priority tier for a task.
	Classify(ctx context.Context, title, description string) Classification

	// Summarize writes a productivity tip for the given tasks.
	Summarize(ctx context.Context, tasks []domain.Task) Advisory
}

// TextGenerator sends a single prompt to a language model and returns the
// reply text. This interface serves as a boundary between the application
// core and external LLM services.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Unavailable is the Classifier used when no language model is configured.
// Every call yields the fallback result.
type Unavailable struct{}

var _ Classifier = Unavailable{}

// Classify implements Classifier.
func (Unavailable) Classify(ctx context.Context, title, description string) Classification {
	return FallbackClassification(ErrNotConfigured)
}

// Summarize implements Classifier.
func (Unavailable) Summarize(ctx context.Context, tasks []domain.Task) Advisory {
	return FallbackAdvisory(ErrNotConfigured)
}
