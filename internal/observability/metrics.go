package observability

import (
	"fmt"
	"strconv"
	"time"
)

// Stats summarizes the activity log over a time window.
type Stats struct {
	TasksCreated   int            `json:"tasks_created"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksReopened  int            `json:"tasks_reopened"`
	TasksUpdated   int            `json:"tasks_updated"`
	TasksDeleted   int            `json:"tasks_deleted"`
	Imports        int            `json:"imports"`
	LoadFailures   int            `json:"load_failures"`
	SaveFailures   int            `json:"save_failures"`
	CreatedBy      map[string]int `json:"created_by_variant"`
	EventCount     int            `json:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty"`
}

// StatsCalculator derives Stats from the event log.
type StatsCalculator interface {
	Calculate(since time.Time) (*Stats, error)
}

type statsCalculator struct {
	eventLog EventLog
}

// NewStatsCalculator creates a StatsCalculator reading from eventLog.
func NewStatsCalculator(eventLog EventLog) StatsCalculator {
	return &statsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since.
func (sc *statsCalculator) Calculate(since time.Time) (*Stats, error) {
	events, err := sc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for stats: %w", err)
	}

	s := &Stats{CreatedBy: make(map[string]int)}
	s.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			s.OldestEvent = &t
		}
		t := event.Time
		s.NewestEvent = &t

		switch event.Type {
		case "task.created":
			s.TasksCreated++
			if variant, ok := event.Data["variant"].(string); ok {
				s.CreatedBy[variant]++
			}
		case "task.completed":
			s.TasksCompleted++
		case "task.reopened":
			s.TasksReopened++
		case "task.updated":
			s.TasksUpdated++
		case "task.deleted":
			s.TasksDeleted++
		case "store.imported":
			s.Imports++
		case "store.load_failed":
			s.LoadFailures++
		case "store.save_failed":
			s.SaveFailures++
		}
	}

	return s, nil
}

// ParseSince converts a window such as "7d", "24h" or "90m" into the start
// time relative to now.
func ParseSince(window string, now time.Time) (time.Time, error) {
	if window == "" {
		window = "7d"
	}
	if n := len(window); n > 1 && window[n-1] == 'd' {
		days, err := strconv.Atoi(window[:n-1])
		if err != nil || days < 0 {
			return time.Time{}, fmt.Errorf("invalid window %q", window)
		}
		return now.AddDate(0, 0, -days), nil
	}
	d, err := time.ParseDuration(window)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid window %q: use e.g. 7d, 24h or 90m", window)
	}
	return now.Add(-d), nil
}
