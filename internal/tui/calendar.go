package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/pocket-todo/internal/core"
)

// RenderCalendar draws the picker's displayed month, Sunday first, with
// the selected day and today highlighted.
func RenderCalendar(p *core.DatePicker, now time.Time, r *lipgloss.Renderer) string {
	return renderCalendar(p, now, newStyles(r), 0)
}

// renderCalendar draws the month grid; cursor marks the day under the
// keyboard cursor, 0 for none.
func renderCalendar(p *core.DatePicker, now time.Time, s styles, cursor int) string {
	headers := core.WeekdayHeaders(p.Locale)
	width := 2
	for _, h := range headers {
		if n := len([]rune(h)); n > width {
			width = n
		}
	}

	var b strings.Builder
	rowWidth := 7*width + 6
	title := p.Title()
	if pad := (rowWidth - len([]rune(title))) / 2; pad > 0 {
		title = strings.Repeat(" ", pad) + title
	}
	b.WriteString(s.calTitle.Render(title))
	b.WriteByte('\n')

	cols := make([]string, len(headers))
	for i, h := range headers {
		cols[i] = s.calHeader.Render(fmt.Sprintf("%*s", width, h))
	}
	b.WriteString(strings.Join(cols, " "))

	grid := p.Grid()
	for i, cell := range grid {
		if i%7 == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		if cell.Blank() {
			b.WriteString(strings.Repeat(" ", width))
			continue
		}
		text := fmt.Sprintf("%*d", width, cell.Day)
		switch {
		case cell.Day == cursor:
			text = s.calCursor.Render(text)
		case p.IsSelected(cell.Day):
			text = s.calSelected.Render(text)
		case p.IsToday(cell.Day, now):
			text = s.calToday.Render(text)
		}
		b.WriteString(text)
	}
	return b.String()
}
