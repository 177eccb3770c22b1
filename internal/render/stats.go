package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/sectorboard/internal/formbuilder"
	"github.com/mesh-intelligence/sectorboard/internal/notify"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Stat is one labelled figure on a statistics card.
type Stat struct {
	Label string
	Value string
}

// Stats draws figures as a row of cards.
func (r *Renderer) Stats(title string, stats []Stat) error {
	cards := make([]string, len(stats))
	for i, s := range stats {
		body := r.styles.Muted.Render(s.Label) + "\n" + r.styles.Header.UnsetPadding().Render(s.Value)
		cards[i] = r.styles.Card.Render(body)
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if title != "" {
		out = r.styles.Title.Render(title) + "\n" + out
	}
	_, err := io.WriteString(r.w, out+"\n")
	return err
}

// Preview draws a form as its respondent would see it. Every control is
// shown disabled.
func (r *Renderer) Preview(name, description string, controls []formbuilder.Control) error {
	var sb strings.Builder
	sb.WriteString(r.styles.Title.Render(name))
	sb.WriteString("\n")
	if description != "" {
		sb.WriteString(r.styles.Muted.Render(description))
		sb.WriteString("\n")
	}
	for _, c := range controls {
		label := c.Label
		if c.Required {
			label += " *"
		}
		sb.WriteString(r.styles.Header.UnsetPadding().Render(label))
		sb.WriteString("\n")
		sb.WriteString(r.styles.Card.Render(controlBody(c)))
		sb.WriteString("\n")
	}
	if len(controls) == 0 {
		sb.WriteString(r.styles.Muted.Render("(no fields)"))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}

func controlBody(c formbuilder.Control) string {
	switch c.Kind {
	case formbuilder.ControlCheckbox:
		return "[ ] " + c.Label
	case formbuilder.ControlSelect:
		return "v " + strings.Join(c.Options, " | ")
	case formbuilder.ControlDate:
		return "YYYY-MM-DD"
	case formbuilder.ControlTextArea:
		return c.Placeholder + "\n\n"
	default:
		return c.Placeholder
	}
}

// Notifications draws transient messages, coloured by level.
func (r *Renderer) Notifications(items []notify.Notification) error {
	var sb strings.Builder
	for _, n := range items {
		style := r.styles.Info
		switch n.Level {
		case types.LevelSuccess:
			style = r.styles.Success
		case types.LevelError:
			style = r.styles.Error
		}
		sb.WriteString(style.Render(fmt.Sprintf("[%s] %s", n.Level, n.Message)))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}

// Sector draws a sector configuration: its modules and evaluation
// framework.
func (r *Renderer) Sector(s types.SectorConfig, current bool) error {
	var sb strings.Builder
	title := s.Name
	if current {
		title += " (current)"
	}
	sb.WriteString(r.styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(r.styles.Muted.Render(s.Description))
	sb.WriteString("\n")
	for _, m := range s.Modules {
		fmt.Fprintf(&sb, "\n%s  %s\n", r.styles.Header.UnsetPadding().Render(m.Name), r.styles.Muted.Render(m.Description))
		for _, f := range m.Fields {
			line := fmt.Sprintf("  - %s (%s", f.Label, f.Kind)
			if f.Unit != "" {
				line += ", " + f.Unit
			}
			if f.Required {
				line += ", required"
			}
			sb.WriteString(line + ")\n")
		}
		for _, mt := range m.Metrics {
			fmt.Fprintf(&sb, "  * %s [%s]\n", mt.Label, mt.Type)
		}
	}
	fw := s.EvaluationFramework
	if fw.Name != "" {
		fmt.Fprintf(&sb, "\n%s\n", r.styles.Header.UnsetPadding().Render(fw.Name))
		for _, p := range fw.Phases {
			fmt.Fprintf(&sb, "  %s: %s (%s)\n", p.Name, p.Description, p.Timeframe)
		}
		for _, ind := range fw.Indicators {
			fmt.Fprintf(&sb, "  * %s, %s, %s\n", ind.Name, ind.DataSource, ind.Frequency)
		}
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}
