package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTasks() []domain.Task {
	created := time.Date(2025, time.May, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Task{
		{
			ID:          uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001"),
			Title:       "Fix outage",
			Description: "prod is down",
			Priority:    domain.PriorityHigh,
			CreatedAt:   created,
		},
		{
			ID:        uuid.MustParse("7b1d0e2f-0000-4000-8000-000000000002"),
			Title:     "Water plants",
			Priority:  domain.PriorityLow,
			Completed: true,
			CreatedAt: created.Add(-time.Hour),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPrinterTasks_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Tasks(sampleTasks()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "1.")
	assert.Contains(t, lines[0], ActiveSymbol)
	assert.Contains(t, lines[0], "Fix outage")
	assert.Contains(t, lines[0], "3f2a9c1e")
	assert.Contains(t, lines[1], "prod is down")
	assert.Contains(t, lines[2], "2.")
	assert.Contains(t, lines[2], CompletedSymbol)
	assert.Contains(t, lines[2], "Water plants")

	assert.NotContains(t, buf.String(), "\x1b[", "non-terminal writers get no escape codes")
}

func TestPrinterTasks_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Tasks(nil))
	assert.Equal(t, EmptyListText+"\n", buf.String())
}

func TestPrinterTasks_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Tasks(sampleTasks()))

	var views []TaskView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 2)

	assert.Equal(t, 1, views[0].Index)
	assert.Equal(t, "3f2a9c1e-0000-4000-8000-000000000001", views[0].ID)
	assert.Equal(t, domain.LightRed, views[0].Light)
	assert.Equal(t, 2, views[1].Index)
	assert.True(t, views[1].Completed)
	assert.Equal(t, domain.LightGreen, views[1].Light)
}

func TestPrinterTasks_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Tasks(nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestPrinterTasks_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML).Tasks(sampleTasks()))

	var views []TaskView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 2)

	assert.Equal(t, "Fix outage", views[0].Title)
	assert.Equal(t, domain.PriorityHigh, views[0].Priority)
	assert.True(t, views[0].CreatedAt.Equal(sampleTasks()[0].CreatedAt))
	assert.Empty(t, views[1].Description)
}

func TestPrinterTask(t *testing.T) {
	task := sampleTasks()[0]

	var text bytes.Buffer
	require.NoError(t, NewPrinter(&text, FormatText).Task(0, task))
	assert.Contains(t, text.String(), "Fix outage")
	assert.NotContains(t, text.String(), "0.")

	var js bytes.Buffer
	require.NoError(t, NewPrinter(&js, FormatJSON).Task(3, task))
	var view TaskView
	require.NoError(t, json.Unmarshal(js.Bytes(), &view))
	assert.Equal(t, 3, view.Index)
	assert.Equal(t, task.ID.String(), view.ID)
}

func TestPrinterAdvisory(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, NewPrinter(&text, FormatText).Advisory(generation.AdvisedAs("Start with the outage.")))
	assert.Equal(t, "Tip: Start with the outage.\n", text.String())

	var js bytes.Buffer
	require.NoError(t, NewPrinter(&js, FormatJSON).Advisory(generation.FallbackAdvisory(generation.ErrNotConfigured)))

	var view AdvisoryView
	require.NoError(t, json.Unmarshal(js.Bytes(), &view))
	assert.Equal(t, generation.FallbackAdvisoryText, view.Text)
	assert.Equal(t, generation.OutcomeFallback, view.Outcome)
	assert.NotEmpty(t, view.Reason)
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")
	assert.Equal(t, "3f2a9c1e", ShortID(id))
}
