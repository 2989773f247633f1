package core

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/pocket-todo/internal/logging"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// SnapshotKey is the fixed storage key under which a list is persisted.
const SnapshotKey = "tasks"

// SnapshotStore is the subset of storage.KeyValueStore the task store needs.
// Defining it here keeps core independent of the storage package.
type SnapshotStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Draft holds user input for a new or edited task. Fields are trimmed by
// the store; rich fields are ignored when the store does not enable them.
type Draft struct {
	Title    string
	Subject  string
	Deadline string
	Priority models.Priority
}

// TaskStore holds the authoritative in-memory task collection and mirrors
// every change to persistent storage.
type TaskStore interface {
	Capabilities() Capabilities

	// Load replaces the collection with the persisted snapshot. A missing
	// snapshot leaves the collection empty. Read or parse failures are
	// logged, the collection is reset to empty, and the error is returned
	// for diagnostics.
	Load() error
	// Save overwrites the persisted snapshot with the whole collection.
	Save() error

	Tasks() []models.Task
	Get(id string) (models.Task, bool)
	Filter(f models.Filter) []models.Task
	// Summary counts the current collection.
	Summary() Summary

	// Validate reports the *ValidationError Create or Update would return
	// for d without mutating anything.
	Validate(d Draft) error
	Create(d Draft) (models.Task, error)
	Toggle(id string) (models.Task, bool)
	Update(id string, d Draft) (models.Task, bool, error)
	Delete(id string) bool
	// Replace swaps in a whole collection, used by import.
	Replace(tasks []models.Task) error

	// Subscribe registers fn to receive the collection after every change.
	Subscribe(fn func([]models.Task)) (cancel func())
}

// StoreOption customizes a task store.
type StoreOption func(*taskStore)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *taskStore) { s.logger = l }
}

// WithEventLogger records store mutations to an activity log.
func WithEventLogger(e EventLogger) StoreOption {
	return func(s *taskStore) { s.events = e }
}

// WithIDGenerator overrides the task ID generator.
func WithIDGenerator(g TaskIDGenerator) StoreOption {
	return func(s *taskStore) { s.ids = g }
}

// WithKey overrides the storage key.
func WithKey(key string) StoreOption {
	return func(s *taskStore) { s.key = key }
}

type taskStore struct {
	mu     sync.Mutex
	kv     SnapshotStore
	key    string
	caps   Capabilities
	tasks  []models.Task
	ids    TaskIDGenerator
	logger *log.Logger
	events EventLogger

	nextSub     int
	subscribers map[int]func([]models.Task)
}

// NewTaskStore creates a TaskStore persisted in kv and configured by caps.
// The store starts empty; call Load to read the persisted snapshot.
func NewTaskStore(kv SnapshotStore, caps Capabilities, opts ...StoreOption) TaskStore {
	s := &taskStore{
		kv:          kv,
		key:         SnapshotKey,
		caps:        caps,
		tasks:       []models.Task{},
		subscribers: make(map[int]func([]models.Task)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewTaskIDGenerator(nil)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

func (s *taskStore) Capabilities() Capabilities {
	return s.caps
}

func (s *taskStore) Load() error {
	value, found, err := s.kv.Get(s.key)
	if err != nil {
		s.loadFailed(err)
		return fmt.Errorf("loading tasks: %w", err)
	}
	if !found {
		s.logger.Debug("no saved tasks", "key", s.key)
		s.reset(nil)
		return nil
	}

	tasks, err := DecodeSnapshot(value)
	if err == nil {
		tasks, err = s.conform(tasks)
	}
	if err != nil {
		s.loadFailed(err)
		return fmt.Errorf("loading tasks: %w", err)
	}
	for _, t := range tasks {
		s.ids.Observe(t.ID)
	}
	s.reset(tasks)
	s.logger.Debug("tasks loaded", "key", s.key, "count", len(tasks))
	return nil
}

func (s *taskStore) loadFailed(err error) {
	s.logger.Error("failed to load tasks", "key", s.key, "err", err)
	s.logEvent(EventLoadFailed, map[string]any{"key": s.key, "error": err.Error()})
	s.reset(nil)
}

func (s *taskStore) reset(tasks []models.Task) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.mu.Lock()
	s.tasks = tasks
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

func (s *taskStore) Save() error {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	return s.save(snapshot)
}

func (s *taskStore) save(tasks []models.Task) error {
	value, err := EncodeSnapshot(tasks)
	if err == nil {
		err = s.kv.Set(s.key, value)
	}
	if err != nil {
		s.logger.Error("failed to save tasks", "key", s.key, "err", err)
		s.logEvent(EventSaveFailed, map[string]any{"key": s.key, "error": err.Error()})
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.logger.Debug("tasks saved", "key", s.key, "count", len(tasks))
	return nil
}

// commit persists and broadcasts a snapshot taken after a mutation. Save
// failures are already logged and leave the in-memory state authoritative.
func (s *taskStore) commit(snapshot []models.Task) {
	_ = s.save(snapshot)
	s.notify(snapshot)
}

func (s *taskStore) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *taskStore) snapshotLocked() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *taskStore) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *taskStore) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

func (s *taskStore) Filter(f models.Filter) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// normalize trims the draft and checks it against the capabilities.
func (s *taskStore) Summary() Summary {
	sum := Summarize(s.Tasks())
	if !s.caps.RichFields {
		sum.ByPriority = nil
	}
	return sum
}

func (s *taskStore) normalize(d Draft) (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Subject = strings.TrimSpace(d.Subject)
	d.Deadline = strings.TrimSpace(d.Deadline)

	if !s.caps.RichFields {
		return Draft{Title: d.Title}, validateTitle(d.Title, s.caps.MinTitleLength)
	}

	if d.Title == "" || (s.caps.RequireSubject && d.Subject == "") {
		field := "title"
		if d.Title != "" {
			field = "subject"
		}
		return d, &ValidationError{Field: field, Notice: "please fill in the title and subject"}
	}
	if err := validateTitle(d.Title, s.caps.MinTitleLength); err != nil {
		return d, err
	}
	p, err := models.ParsePriority(string(d.Priority))
	if err != nil {
		return d, &ValidationError{Field: "priority", Notice: err.Error()}
	}
	d.Priority = p
	return d, nil
}

func (s *taskStore) Validate(d Draft) error {
	_, err := s.normalize(d)
	return err
}

func validateTitle(title string, minLen int) error {
	if title == "" {
		return &ValidationError{Field: "title", Notice: "please fill in the title"}
	}
	if minLen > 0 && utf8.RuneCountInString(title) < minLen {
		return &ValidationError{
			Field:  "title",
			Notice: fmt.Sprintf("title must be at least %d characters", minLen),
		}
	}
	return nil
}

func (s *taskStore) Create(d Draft) (models.Task, error) {
	d, err := s.normalize(d)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:    s.ids.GenerateTaskID(),
		Title: d.Title,
	}
	if s.caps.RichFields {
		task.Subject = d.Subject
		task.Deadline = d.Deadline
		task.Priority = d.Priority
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logEvent(EventTaskCreated, map[string]any{"task_id": task.ID, "title": task.Title, "variant": string(s.caps.Variant)})
	s.commit(snapshot)
	return task, nil
}

func (s *taskStore) Toggle(id string) (models.Task, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	task := s.tasks[i]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	eventType := EventTaskCompleted
	if !task.Completed {
		eventType = EventTaskReopened
	}
	s.logEvent(eventType, map[string]any{"task_id": id, "title": task.Title})
	s.commit(snapshot)
	return task, true
}

func (s *taskStore) Update(id string, d Draft) (models.Task, bool, error) {
	if _, ok := s.Get(id); !ok {
		return models.Task{}, false, nil
	}
	d, err := s.normalize(d)
	if err != nil {
		return models.Task{}, true, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, false, nil
	}
	task := s.tasks[i]
	task.Title = d.Title
	if s.caps.RichFields {
		task.Subject = d.Subject
		task.Deadline = d.Deadline
		task.Priority = d.Priority
	}
	s.tasks[i] = task
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logEvent(EventTaskUpdated, map[string]any{"task_id": id, "title": task.Title})
	s.commit(snapshot)
	return task, true, nil
}

func (s *taskStore) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.tasks[i]
	kept := make([]models.Task, 0, len(s.tasks)-1)
	kept = append(kept, s.tasks[:i]...)
	kept = append(kept, s.tasks[i+1:]...)
	s.tasks = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logEvent(EventTaskDeleted, map[string]any{"task_id": id, "title": removed.Title})
	s.commit(snapshot)
	return true
}

func (s *taskStore) Replace(tasks []models.Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			return &ValidationError{Field: "id", Notice: "every task needs an id"}
		}
		if seen[t.ID] {
			return &ValidationError{Field: "id", Notice: fmt.Sprintf("duplicate task id %s", t.ID)}
		}
		seen[t.ID] = true
	}

	next, err := s.conform(tasks)
	if err != nil {
		return err
	}
	// Never persist a snapshot that Load would reject.
	value, err := EncodeSnapshot(next)
	if err == nil {
		_, err = DecodeSnapshot(value)
	}
	if err != nil {
		return &ValidationError{Field: "tasks", Notice: err.Error()}
	}
	for _, t := range next {
		s.ids.Observe(t.ID)
	}

	s.mu.Lock()
	s.tasks = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logEvent(EventTasksImported, map[string]any{"count": len(next)})
	err = s.save(snapshot)
	s.notify(snapshot)
	return err
}

// conform returns a copy of tasks shaped for this store: the simple list
// drops rich fields, the rich list requires a known priority and fills in
// the default when it is missing.
func (s *taskStore) conform(tasks []models.Task) ([]models.Task, error) {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if !s.caps.RichFields {
			out[i] = models.Task{ID: t.ID, Title: t.Title, Completed: t.Completed}
			continue
		}
		p, err := models.ParsePriority(string(t.Priority))
		if err != nil {
			return nil, &ValidationError{Field: "priority", Notice: fmt.Sprintf("task %s: %s", t.ID, err)}
		}
		t.Priority = p
		out[i] = t
	}
	return out, nil
}

func (s *taskStore) Subscribe(fn func([]models.Task)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *taskStore) notify(snapshot []models.Task) {
	s.mu.Lock()
	fns := make([]func([]models.Task), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		out := make([]models.Task, len(snapshot))
		copy(out, snapshot)
		fn(out)
	}
}

func (s *taskStore) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.LogEvent(eventType, data); err != nil {
		s.logger.Warn("failed to record event", "type", eventType, "err", err)
	}
}
