package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/redact"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of genai.Models used by Generator.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.TextGenerator using the Gemini API.
type Generator struct {
	logger     *slog.Logger
	client     ContentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	rng        *rand.Rand
	sleep      func(ctx context.Context, d time.Duration) error
}

var _ generation.TextGenerator = (*Generator)(nil)

// NewGenerator creates a Generator backed by a real genai client.
// Returns generation.ErrInvalidConfig if the API key or model is missing.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return NewGeneratorWithClient(logger, cfg, client.Models)
}

// NewGeneratorWithClient creates a Generator around an existing client.
func NewGeneratorWithClient(logger *slog.Logger, cfg config.LLMConfig, client ContentGenerator) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("Invalid max retries value, using default", "max_retries", 0)
		maxRetries = 0
	}

	return &Generator{
		logger:     logger.With(slog.String("component", "gemini"), slog.String("model", cfg.ModelName)),
		client:     client,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  cfg.RetryDelay(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GenerateText implements generation.TextGenerator.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", g.maxRetries+1)

		resp, err := g.client.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err == nil {
			text, extractErr := extractText(resp)
			if extractErr != nil {
				g.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
					"attempt", attemptNum,
					"error", extractErr.Error())
				return "", extractErr
			}
			g.logger.DebugContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return text, nil
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", redact.Error(err))

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: %s after %d attempt(s)",
				generation.ErrTransientFailure, redact.Error(err), attemptNum)
		}

		delay := g.backoff(attempt)
		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_ms", delay.Milliseconds())

		if err := g.sleep(ctx, delay); err != nil {
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", err.Error())
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *Generator) backoff(attempt int) time.Duration {
	base := float64(g.baseDelay) * math.Pow(2, float64(attempt))
	jitter := 0.5 + g.rng.Float64()*0.5
	return time.Duration(base * jitter)
}

// extractText returns the text of the first candidate, or a permanent error.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
