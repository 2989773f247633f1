package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	dim      lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	notice   lipgloss.Style
	help     lipgloss.Style
	modal    lipgloss.Style
	priority map[models.Priority]lipgloss.Style

	calTitle    lipgloss.Style
	calHeader   lipgloss.Style
	calSelected lipgloss.Style
	calToday    lipgloss.Style
	calCursor   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		subtitle: r.NewStyle().Foreground(lipgloss.Color("62")),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		done:     r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("244")),
		label:    r.NewStyle().Width(10),
		focused:  r.NewStyle().Width(10).Foreground(lipgloss.Color("212")).Bold(true),
		notice:   r.NewStyle().Foreground(lipgloss.Color("196")),
		help:     r.NewStyle().Foreground(lipgloss.Color("241")),
		modal: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2),
		priority: map[models.Priority]lipgloss.Style{
			models.PriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			models.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("214")),
			models.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("70")),
		},

		calTitle:    r.NewStyle().Bold(true),
		calHeader:   r.NewStyle().Foreground(lipgloss.Color("62")),
		calSelected: r.NewStyle().Reverse(true),
		calToday:    r.NewStyle().Underline(true),
		calCursor:   r.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("212")),
	}
}

func (s styles) priorityStyle(p models.Priority) lipgloss.Style {
	if style, ok := s.priority[p]; ok {
		return style
	}
	return s.dim
}
