package output

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects how results are written.
type Format string

// Supported formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a flag value into a Format. An empty value is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (want text, json or yaml)", ErrUnknownFormat, s)
	}
}
