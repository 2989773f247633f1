// Package tui is the interactive terminal screen for a task list. It only
// presents a core.Session and forwards key presses to it; every rule about
// tasks lives in core.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeCalendar
)

// Form fields in focus order. The simple list only has the title.
const (
	fieldTitle = iota
	fieldSubject
	fieldDeadline
	fieldPriority
)

// Model is the bubbletea model for one list screen.
type Model struct {
	sess   *core.Session
	now    func() time.Time
	styles styles

	inputs []textinput.Model
	mode   mode
	focus  int
	cursor int
	calDay int
}

// Option customizes a Model.
type Option func(*Model)

// WithClock sets the clock used to highlight today in the calendar.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithRenderer sets the lipgloss renderer, e.g. one bound to a test buffer.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) { m.styles = newStyles(r) }
}

// New creates a Model over sess.
func New(sess *core.Session, opts ...Option) Model {
	m := Model{
		sess:   sess,
		now:    time.Now,
		styles: newStyles(nil),
	}
	for _, opt := range opts {
		opt(&m)
	}

	placeholders := []string{"What needs doing?", "Subject", "Deadline (ctrl+o for calendar)"}
	m.inputs = make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.Prompt = ""
		in.CharLimit = 200
		m.inputs[i] = in
	}
	return m
}

// Run starts the full-screen program and blocks until the user quits.
func Run(sess *core.Session, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(New(sess), opts...).Run(); err != nil {
		return fmt.Errorf("running task screen: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if _, ok := m.sess.Pending(); ok {
			return m.updateConfirm(msg)
		}
		switch m.mode {
		case modeCalendar:
			return m.updateCalendar(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == modeForm && m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, hasTask := m.selected()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
	case " ", "x":
		if hasTask {
			_, _ = m.sess.RequestToggle(task.ID)
		}
	case "d", "delete":
		if hasTask {
			_, _ = m.sess.RequestDelete(task.ID)
		}
	case "e", "enter":
		if hasTask && m.sess.StartEdit(task.ID) {
			return m.openForm()
		}
	case "a", "n":
		m.sess.CancelEdit()
		return m.openForm()
	case "f":
		if m.sess.Capabilities().Filtering {
			m.sess.SetFilter(m.sess.Filter().Next())
			m.cursor = 0
		}
	case "r":
		m.sess.ClearNotice()
		_ = m.sess.Store().Load()
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.fieldCount()
	rich := m.sess.Capabilities().RichFields

	switch msg.String() {
	case "esc":
		m.sess.CancelEdit()
		m.sess.ClearNotice()
		m.closeForm()
		return m, nil
	case "tab", "down":
		cmd := m.setFocus((m.focus + 1) % n)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus((m.focus - 1 + n) % n)
		return m, cmd
	case "enter":
		m.syncBuffer()
		editing := m.sess.Buffer().Editing()
		outcome, _ := m.sess.Submit()
		if outcome == core.OutcomeCommitted {
			m.closeForm()
			if !editing {
				m.cursor = len(m.sess.Visible()) - 1
			}
			m.clampCursor()
		}
		return m, nil
	case "ctrl+o":
		if rich {
			m.syncBuffer()
			m.openCalendar()
		}
		return m, nil
	}

	if m.focus == fieldPriority {
		buf := m.sess.Buffer()
		switch msg.String() {
		case "right", "l", " ":
			m.sess.SetPriority(buf.Priority.Next())
		case "left", "h":
			m.sess.SetPriority(prevPriority(buf.Priority))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncBuffer()
	return m, cmd
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.sess.Picker()

	switch msg.String() {
	case "esc", "q":
		m.mode = modeForm
		cmd := m.setFocus(fieldDeadline)
		return m, cmd
	case "left", "h":
		m.calDay--
	case "right", "l":
		m.calDay++
	case "up", "k":
		m.calDay -= 7
	case "down", "j":
		m.calDay += 7
	case "pgup", "[":
		p.PrevMonth()
	case "pgdown", "]":
		p.NextMonth()
	case "{":
		p.PrevYear()
	case "}":
		p.NextYear()
	case "enter", " ":
		if m.sess.PickDay(m.calDay) {
			m.inputs[fieldDeadline].SetValue(m.sess.Buffer().Deadline)
			m.mode = modeForm
			cmd := m.setFocus(fieldDeadline)
			return m, cmd
		}
	}

	if days := core.DaysInMonth(p.Year, p.Month); m.calDay > days {
		m.calDay = days
	}
	if m.calDay < 1 {
		m.calDay = 1
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := m.sess.Pending()

	switch msg.String() {
	case "y", "Y", "enter":
		outcome, _ := m.sess.Confirm()
		if action.Kind == core.ActionEdit && outcome == core.OutcomeCommitted {
			m.closeForm()
		}
	case "n", "N", "esc", "q":
		m.sess.Cancel()
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) openForm() (tea.Model, tea.Cmd) {
	buf := m.sess.Buffer()
	m.inputs[fieldTitle].SetValue(buf.Title)
	m.inputs[fieldSubject].SetValue(buf.Subject)
	m.inputs[fieldDeadline].SetValue(buf.Deadline)
	m.mode = modeForm
	cmd := tea.Batch(m.setFocus(fieldTitle), textinput.Blink)
	return *m, cmd
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}

func (m *Model) openCalendar() {
	p := m.sess.OpenPicker()
	m.calDay = 1
	if sel, ok := p.Selected(); ok && p.IsSelected(sel.Day()) {
		m.calDay = sel.Day()
	}
	m.mode = modeCalendar
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// syncBuffer copies the text inputs into the session's edit buffer.
func (m *Model) syncBuffer() {
	m.sess.SetTitle(m.inputs[fieldTitle].Value())
	if m.sess.Capabilities().RichFields {
		m.sess.SetSubject(m.inputs[fieldSubject].Value())
		m.sess.SetDeadline(m.inputs[fieldDeadline].Value())
	}
}

func (m Model) fieldCount() int {
	if m.sess.Capabilities().RichFields {
		return fieldPriority + 1
	}
	return fieldTitle + 1
}

func (m Model) selected() (models.Task, bool) {
	visible := m.sess.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.sess.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func prevPriority(p models.Priority) models.Priority {
	for i, candidate := range models.Priorities {
		if candidate == p {
			return models.Priorities[(i-1+len(models.Priorities))%len(models.Priorities)]
		}
	}
	return models.DefaultPriority
}

func (m Model) View() string {
	var b strings.Builder

	caps := m.sess.Capabilities()
	b.WriteString(m.styles.title.Render(" Pocket Todo "))
	b.WriteString(" " + m.styles.subtitle.Render(string(caps.Variant)))
	if caps.Filtering {
		b.WriteString(m.styles.dim.Render(" · filter: " + string(m.sess.Filter())))
	}
	b.WriteString("\n" + m.viewSummary() + "\n\n")

	b.WriteString(m.viewList())

	switch m.mode {
	case modeForm:
		b.WriteString("\n" + m.viewForm())
	case modeCalendar:
		b.WriteString("\n" + renderCalendar(m.sess.Picker(), m.now(), m.styles, m.calDay) + "\n")
	}

	if action, ok := m.sess.Pending(); ok {
		b.WriteString("\n" + m.styles.modal.Render(action.Prompt()+"\n\ny: yes   n: no") + "\n")
	}

	if notice := m.sess.Notice(); notice != "" {
		b.WriteString("\n" + m.styles.notice.Render(notice) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render(m.helpLine()))
	return b.String()
}

// viewSummary shows the counts of the whole list, whatever the filter.
func (m Model) viewSummary() string {
	sum := m.sess.Store().Summary()
	parts := []string{
		fmt.Sprintf("Total %d", sum.Total),
		fmt.Sprintf("Completed %d", sum.Completed),
		fmt.Sprintf("Open %d", sum.Open),
	}
	line := m.styles.dim.Render(strings.Join(parts, "  "))
	if sum.ByPriority == nil {
		return line
	}
	for _, p := range models.Priorities {
		line += "  " + m.styles.priorityStyle(p).Render(fmt.Sprintf("%s %d", p, sum.ByPriority[p]))
	}
	return line
}

func (m Model) viewList() string {
	visible := m.sess.Visible()
	if len(visible) == 0 {
		return m.styles.dim.Render("  No tasks.") + "\n"
	}

	rich := m.sess.Capabilities().RichFields
	var b strings.Builder
	for i, t := range visible {
		pointer := "  "
		if m.mode == modeList && i == m.cursor {
			pointer = m.styles.cursor.Render("> ")
		}
		mark := "[ ] "
		title := t.Title
		if t.Completed {
			mark = "[x] "
			title = m.styles.done.Render(title)
		}
		b.WriteString(pointer + mark + title)
		if rich {
			var details []string
			if t.Subject != "" {
				details = append(details, t.Subject)
			}
			if t.Deadline != "" {
				details = append(details, "due "+t.Deadline)
			}
			if len(details) > 0 {
				b.WriteString(" " + m.styles.dim.Render("("+strings.Join(details, ", ")+")"))
			}
			if t.Priority != "" {
				b.WriteString(" " + m.styles.priorityStyle(t.Priority).Render(string(t.Priority)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) viewForm() string {
	labels := []string{"Title", "Subject", "Deadline", "Priority"}
	heading := "New task"
	if m.sess.Buffer().Editing() {
		heading = "Edit task"
	}

	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(heading) + "\n")
	for field := 0; field < m.fieldCount(); field++ {
		label := m.styles.label.Render(labels[field])
		if field == m.focus {
			label = m.styles.focused.Render(labels[field])
		}
		value := ""
		if field == fieldPriority {
			p := m.sess.Buffer().Priority
			value = "< " + m.styles.priorityStyle(p).Render(string(p)) + " >"
		} else {
			value = m.inputs[field].View()
		}
		b.WriteString(label + " " + value + "\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	if _, ok := m.sess.Pending(); ok {
		return "y: confirm | n: cancel"
	}
	switch m.mode {
	case modeForm:
		help := "enter: save | tab: next field | esc: cancel"
		if m.sess.Capabilities().RichFields {
			help += " | ctrl+o: calendar | ←/→: priority"
		}
		return help
	case modeCalendar:
		return "arrows: move | [/]: month | {/}: year | enter: pick | esc: back"
	}
	help := "a: add | e: edit | space: toggle | d: delete"
	if m.sess.Capabilities().Filtering {
		help += " | f: filter"
	}
	return help + " | r: reload | q: quit"
}
