package generation

import (
	"strings"

	"github.com/phrazzld/traffic-tasker/internal/domain"
)

// tagWords maps reply words to tiers, checked in this order. The first tier
// with any word present in the reply wins.
var tagWords = []struct {
	priority domain.Priority
	words    []string
}{
	{domain.PriorityHigh, []string{"red", "high"}},
	{domain.PriorityStandard, []string{"yellow", "standard"}},
	{domain.PriorityLow, []string{"green", "low"}},
}

// ParsePriority finds a priority tag in a model reply. Matching is
// case-insensitive and by substring, so "Answer: RED." maps to high.
// The second return value is false when no tag word is present.
func ParsePriority(reply string) (domain.Priority, bool) {
	normalized := strings.ToLower(strings.TrimSpace(reply))
	if normalized == "" {
		return domain.DefaultPriority, false
	}

	for _, tag := range tagWords {
		for _, word := range tag.words {
			if strings.Contains(normalized, word) {
				return tag.priority, true
			}
		}
	}
	return domain.DefaultPriority, false
}
