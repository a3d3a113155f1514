// Package gemini implements generation.TextGenerator with Google's Gemini API.
//
// Generator sends one prompt per call and returns the concatenated text of the
// first candidate. Transient API errors are retried with exponential backoff
// and jitter; safety blocks and malformed responses are returned at once.
// Callers that need the never-fail classification behavior wrap it in
// generation.Service.
package gemini
