package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"gopkg.in/yaml.v3"
)

// Symbols drawn for each task
const (
	ActiveSymbol    = "●"
	CompletedSymbol = "✓"
)

// EmptyListText is shown instead of an empty task list.
const EmptyListText = "No tasks yet. Add one with: tasker add <title>"

// Printer writes results to a single writer in one format. Colors follow
// the writer's terminal capabilities and are dropped for pipes and files.
type Printer struct {
	w      io.Writer
	format Format
	styles styles
}

type styles struct {
	lights    map[domain.Light]lipgloss.Style
	index     lipgloss.Style
	title     lipgloss.Style
	done      lipgloss.Style
	id        lipgloss.Style
	desc      lipgloss.Style
	tip       lipgloss.Style
	tipLabel  lipgloss.Style
	fallback  lipgloss.Style
	emptyList lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		lights: map[domain.Light]lipgloss.Style{
			domain.LightRed:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			domain.LightYellow: r.NewStyle().Foreground(lipgloss.Color("226")),
			domain.LightGreen:  r.NewStyle().Foreground(lipgloss.Color("46")),
		},
		index:     r.NewStyle().Foreground(lipgloss.Color("241")).Width(4).Align(lipgloss.Right),
		title:     r.NewStyle().Bold(true),
		done:      r.NewStyle().Faint(true).Strikethrough(true),
		id:        r.NewStyle().Foreground(lipgloss.Color("240")),
		desc:      r.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(7),
		tip:       r.NewStyle().Italic(true),
		tipLabel:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		fallback:  r.NewStyle().Faint(true),
		emptyList: r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatText
	}
	return &Printer{
		w:      w,
		format: format,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Tasks writes the list in the given order.
func (p *Printer) Tasks(tasks []domain.Task) error {
	views := NewTaskViews(tasks)
	switch p.format {
	case FormatJSON:
		return p.json(views)
	case FormatYAML:
		return p.yaml(views)
	}

	if len(tasks) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.emptyList.Render(EmptyListText))
		return err
	}
	for i, t := range tasks {
		if err := p.taskLine(i+1, t); err != nil {
			return err
		}
	}
	return nil
}

// Task writes one task. index is its 1-based list position, or 0 if unknown.
func (p *Printer) Task(index int, t domain.Task) error {
	switch p.format {
	case FormatJSON:
		return p.json(NewTaskView(index, t))
	case FormatYAML:
		return p.yaml(NewTaskView(index, t))
	}
	return p.taskLine(index, t)
}

// Advisory writes a productivity tip.
func (p *Printer) Advisory(a generation.Advisory) error {
	switch p.format {
	case FormatJSON:
		return p.json(NewAdvisoryView(a))
	case FormatYAML:
		return p.yaml(NewAdvisoryView(a))
	}

	text := p.styles.tip.Render(a.Text)
	if a.IsFallback() {
		text = p.styles.fallback.Render(a.Text)
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.styles.tipLabel.Render("Tip:"), text)
	return err
}

// Light renders the traffic-light symbol for a task.
func (p *Printer) Light(t domain.Task) string {
	symbol := ActiveSymbol
	if t.Completed {
		symbol = CompletedSymbol
	}
	return p.styles.lights[t.Priority.Light()].Render(symbol)
}

func (p *Printer) taskLine(index int, t domain.Task) error {
	title := p.styles.title.Render(t.Title)
	if t.Completed {
		title = p.styles.done.Render(t.Title)
	}

	position := ""
	if index > 0 {
		position = fmt.Sprintf("%d.", index)
	}

	_, err := fmt.Fprintf(p.w, "%s %s %s %s\n",
		p.styles.index.Render(position),
		p.Light(t),
		title,
		p.styles.id.Render(ShortID(t.ID)))
	if err != nil || t.Description == "" {
		return err
	}

	_, err = fmt.Fprintln(p.w, p.styles.desc.Render(t.Description))
	return err
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
