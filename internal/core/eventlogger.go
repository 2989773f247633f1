package core

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Event types recorded by the task store.
const (
	EventTaskCreated   = "task.created"
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
	EventTaskUpdated   = "task.updated"
	EventTaskDeleted   = "task.deleted"
	EventLoadFailed    = "store.load_failed"
	EventSaveFailed    = "store.save_failed"
	EventTasksImported = "store.imported"
)
