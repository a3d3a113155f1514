package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when text generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when the LLM answers with no text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrUnrecognizedTag is returned when a classification reply names no known tier
	ErrUnrecognizedTag = errors.New("no priority tag in response")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrNotConfigured is reported when no language model credentials are set
	ErrNotConfigured = errors.New("language model not configured")

	// ErrNoTasks is reported when an advisory is requested for an empty list
	ErrNoTasks = errors.New("no tasks to summarize")
)
