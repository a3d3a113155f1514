package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/redact"
)

// Service implements Classifier on top of a TextGenerator.
type Service struct {
	generator TextGenerator
	prompts   *Prompts
	timeout   time.Duration
	logger    *slog.Logger
}

var _ Classifier = (*Service)(nil)

// NewService creates a Service. A zero timeout leaves deadlines to the
// caller's context; nil prompts means the embedded defaults.
func NewService(generator TextGenerator, prompts *Prompts, timeout time.Duration, logger *slog.Logger) (*Service, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if prompts == nil {
		prompts = DefaultPrompts()
	}

	return &Service{
		generator: generator,
		prompts:   prompts,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "classifier")),
	}, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Classify implements Classifier.
func (s *Service) Classify(ctx context.Context, title, description string) Classification {
	prompt, err := s.prompts.Classify(title, description)
	if err != nil {
		return s.classifyFallback(ctx, err)
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return s.classifyFallback(ctx, err)
	}

	priority, ok := ParsePriority(reply)
	if !ok {
		return s.classifyFallback(ctx, fmt.Errorf("%w: %q", ErrUnrecognizedTag, truncate(reply, 40)))
	}

	s.logger.DebugContext(ctx, "task classified", slog.String("priority", string(priority)))
	return ClassifiedAs(priority)
}

func (s *Service) classifyFallback(ctx context.Context, err error) Classification {
	s.logger.WarnContext(ctx, "classification failed, using default priority",
		slog.String("error", redact.Error(err)),
		slog.String("priority", string(domain.DefaultPriority)))
	return FallbackClassification(err)
}

// Summarize implements Classifier. An empty list yields the fallback
// without calling the model.
func (s *Service) Summarize(ctx context.Context, tasks []domain.Task) Advisory {
	if len(tasks) == 0 {
		return FallbackAdvisory(ErrNoTasks)
	}

	prompt, err := s.prompts.Summarize(tasks)
	if err != nil {
		return s.summarizeFallback(ctx, err)
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return s.summarizeFallback(ctx, err)
	}

	s.logger.DebugContext(ctx, "advisory generated", slog.Int("task_count", len(tasks)))
	return AdvisedAs(reply)
}

func (s *Service) summarizeFallback(ctx context.Context, err error) Advisory {
	s.logger.WarnContext(ctx, "advisory failed, using fallback tip",
		slog.String("error", redact.Error(err)))
	return FallbackAdvisory(err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
