package core

import (
	"errors"
	"time"

	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// EditBuffer is the transient input state used to stage a new task or the
// changes to an existing one.
type EditBuffer struct {
	Title    string
	Subject  string
	Deadline string
	Priority models.Priority
	// EditingID is the task being edited; empty in create mode.
	EditingID string
}

// Editing reports whether the buffer targets an existing task.
func (b EditBuffer) Editing() bool {
	return b.EditingID != ""
}

// Draft converts the buffer into store input.
func (b EditBuffer) Draft() Draft {
	return Draft{Title: b.Title, Subject: b.Subject, Deadline: b.Deadline, Priority: b.Priority}
}

func emptyBuffer(caps Capabilities) EditBuffer {
	if caps.RichFields {
		return EditBuffer{Priority: models.DefaultPriority}
	}
	return EditBuffer{}
}

// Session is the view-model of one list screen. Presenters read the
// visible tasks, filter, buffer, pending confirmation and notice from it and
// feed user intents back through its methods.
type Session struct {
	store     TaskStore
	confirmer *Confirmer
	buffer    EditBuffer
	filter    models.Filter
	notice    string
	picker    *DatePicker
	now       func() time.Time
}

// NewSession creates a session over store. locale picks the month names
// used by the date picker; a nil clock uses time.Now.
func NewSession(store TaskStore, locale string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:     store,
		confirmer: NewConfirmer(store),
		buffer:    emptyBuffer(store.Capabilities()),
		filter:    models.FilterAll,
		picker:    NewDatePicker(now(), locale),
		now:       now,
	}
}

// Store returns the underlying task store.
func (s *Session) Store() TaskStore { return s.store }

// Capabilities returns the store's capabilities.
func (s *Session) Capabilities() Capabilities { return s.store.Capabilities() }

// Buffer returns the current edit buffer.
func (s *Session) Buffer() EditBuffer { return s.buffer }

// Buffer setters mirror text input changes.
func (s *Session) SetTitle(v string) { s.buffer.Title = v }

func (s *Session) SetSubject(v string) { s.buffer.Subject = v }

func (s *Session) SetDeadline(v string) { s.buffer.Deadline = v }

func (s *Session) SetPriority(p models.Priority) { s.buffer.Priority = p }

// Notice returns the last user-facing message, if any.
func (s *Session) Notice() string { return s.notice }

// ClearNotice dismisses the current notice.
func (s *Session) ClearNotice() { s.notice = "" }

// Filter returns the active completion filter.
func (s *Session) Filter() models.Filter { return s.filter }

// SetFilter changes the view filter. Stores without filtering ignore it.
func (s *Session) SetFilter(f models.Filter) {
	if !s.Capabilities().Filtering {
		return
	}
	s.filter = f
}

// Visible returns the tasks shown under the active filter.
func (s *Session) Visible() []models.Task {
	if !s.Capabilities().Filtering {
		return s.store.Tasks()
	}
	return s.store.Filter(s.filter)
}

// Pending returns the action awaiting confirmation, if any.
func (s *Session) Pending() (PendingAction, bool) {
	return s.confirmer.Pending()
}

// Submit creates a task from the buffer, or in edit mode requests saving
// the edit. Validation failures set the notice and leave everything as is.
func (s *Session) Submit() (Outcome, error) {
	s.notice = ""
	if s.buffer.Editing() {
		return s.request(PendingAction{
			Kind:   ActionEdit,
			TaskID: s.buffer.EditingID,
			Draft:  s.buffer.Draft(),
		})
	}

	if _, err := s.store.Create(s.buffer.Draft()); err != nil {
		s.setNotice(err)
		return OutcomeNone, err
	}
	s.buffer = emptyBuffer(s.Capabilities())
	return OutcomeCommitted, nil
}

// StartEdit enters edit mode for id and prefills the buffer with the task's
// current values. Unknown IDs are ignored.
func (s *Session) StartEdit(id string) bool {
	task, ok := s.store.Get(id)
	if !ok {
		return false
	}
	s.buffer = EditBuffer{
		Title:     task.Title,
		Subject:   task.Subject,
		Deadline:  task.Deadline,
		Priority:  task.Priority,
		EditingID: task.ID,
	}
	if s.Capabilities().RichFields && s.buffer.Priority == "" {
		s.buffer.Priority = models.DefaultPriority
	}
	return true
}

// CancelEdit leaves edit mode and clears the buffer.
func (s *Session) CancelEdit() {
	s.buffer = emptyBuffer(s.Capabilities())
}

// RequestToggle asks to flip the completion flag of id.
func (s *Session) RequestToggle(id string) (Outcome, error) {
	return s.request(PendingAction{Kind: ActionToggle, TaskID: id})
}

// RequestDelete asks to delete id.
func (s *Session) RequestDelete(id string) (Outcome, error) {
	return s.request(PendingAction{Kind: ActionDelete, TaskID: id})
}

func (s *Session) request(action PendingAction) (Outcome, error) {
	outcome, err := s.confirmer.Request(action)
	return s.finish(action, outcome, err)
}

// Confirm commits the pending action.
func (s *Session) Confirm() (Outcome, error) {
	action, _ := s.confirmer.Pending()
	outcome, err := s.confirmer.Confirm()
	return s.finish(action, outcome, err)
}

// Cancel discards the pending action. The edit buffer is kept so the user
// can keep editing after declining to save.
func (s *Session) Cancel() Outcome {
	return s.confirmer.Cancel()
}

// finish leaves edit mode once the edit is saved or the edited task is gone.
func (s *Session) finish(action PendingAction, outcome Outcome, err error) (Outcome, error) {
	if err != nil {
		s.setNotice(err)
		return outcome, err
	}
	if outcome != OutcomeCommitted || !s.buffer.Editing() {
		return outcome, nil
	}
	switch action.Kind {
	case ActionEdit:
		s.CancelEdit()
	case ActionDelete:
		if action.TaskID == s.buffer.EditingID {
			s.CancelEdit()
		}
	}
	return outcome, nil
}

func (s *Session) setNotice(err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		s.notice = ve.Notice
		return
	}
	s.notice = err.Error()
}

// Picker returns the deadline date picker.
func (s *Session) Picker() *DatePicker { return s.picker }

// OpenPicker resets the picker to the current month, as when the calendar
// is shown.
func (s *Session) OpenPicker() *DatePicker {
	s.picker.Reset(s.now())
	return s.picker
}

// PickDay selects day of the picker's displayed month and writes the
// formatted date into the buffer's deadline. Padding cells are ignored.
func (s *Session) PickDay(day int) bool {
	formatted, ok := s.picker.Select(day)
	if !ok {
		return false
	}
	s.buffer.Deadline = formatted
	return true
}
