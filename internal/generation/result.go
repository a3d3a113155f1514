package generation

import (
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/redact"
)

// FallbackAdvisoryText is returned whenever an advisory cannot be generated.
const FallbackAdvisoryText = "Keep focusing on your high-priority items!"

// Outcome says whether a result came from the model or from a fallback.
type Outcome string

// Possible outcomes
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFallback Outcome = "fallback"
)

// Classification is the result of classifying one task.
type Classification struct {
	Priority domain.Priority `json:"priority"`
	Outcome  Outcome         `json:"outcome"`
	// Reason describes why the fallback was used. Empty on success.
	Reason string `json:"reason,omitempty"`
}

// IsFallback reports whether the default tier was substituted.
func (c Classification) IsFallback() bool {
	return c.Outcome == OutcomeFallback
}

// ClassifiedAs is a successful classification.
func ClassifiedAs(p domain.Priority) Classification {
	return Classification{Priority: p, Outcome: OutcomeSuccess}
}

// FallbackClassification returns the default tier, recording the redacted
// err as the reason.
func FallbackClassification(err error) Classification {
	c := Classification{Priority: domain.DefaultPriority, Outcome: OutcomeFallback}
	if err != nil {
		c.Reason = redact.Error(err)
	}
	return c
}

// Advisory is a short productivity tip for the current task list.
type Advisory struct {
	Text    string  `json:"text"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// IsFallback reports whether the fixed tip was substituted.
func (a Advisory) IsFallback() bool {
	return a.Outcome == OutcomeFallback
}

// AdvisedAs is a successful advisory.
func AdvisedAs(text string) Advisory {
	return Advisory{Text: text, Outcome: OutcomeSuccess}
}

// FallbackAdvisory returns the fixed tip, recording err as the reason.
func FallbackAdvisory(err error) Advisory {
	a := Advisory{Text: FallbackAdvisoryText, Outcome: OutcomeFallback}
	if err != nil {
		a.Reason = redact.Error(err)
	}
	return a
}
