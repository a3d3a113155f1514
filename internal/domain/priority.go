package domain

import (
	"fmt"
	"strings"
)

// Priority is one of the three fixed classification tiers of a task.
type Priority string

// Possible priority values
const (
	PriorityHigh     Priority = "high"
	PriorityStandard Priority = "standard"
	PriorityLow      Priority = "low"
)

// DefaultPriority is used whenever a classification is unavailable.
const DefaultPriority = PriorityStandard

// Light is the traffic-light color a priority is rendered with.
type Light string

// Traffic-light colors
const (
	LightRed    Light = "red"
	LightYellow Light = "yellow"
	LightGreen  Light = "green"
)

// Priorities lists the tiers from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityStandard, PriorityLow}
}

// IsValid reports whether p is one of the known tiers.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityStandard, PriorityLow:
		return true
	default:
		return false
	}
}

// Light returns the traffic-light color for the priority.
// Unknown priorities render as the default tier.
func (p Priority) Light() Light {
	switch p {
	case PriorityHigh:
		return LightRed
	case PriorityLow:
		return LightGreen
	default:
		return LightYellow
	}
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// ParsePriority converts user input into a Priority. It accepts either the
// tier name or its traffic-light color, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "red":
		return PriorityHigh, nil
	case "standard", "yellow":
		return PriorityStandard, nil
	case "low", "green":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}
