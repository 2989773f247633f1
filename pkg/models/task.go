package models

import "fmt"

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// DefaultPriority is assigned when a rich task is created without one.
const DefaultPriority = PriorityMedium

// ParsePriority converts user input into a Priority. An empty string yields
// the default priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return DefaultPriority, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q: must be one of low, medium, high", s)
}

// Next returns the priority after p, wrapping from high back to low.
func (p Priority) Next() Priority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return DefaultPriority
}

// Task is a single to-do item. The simple variant only uses ID, Title and
// Completed; the optional fields are omitted from its snapshots.
type Task struct {
	ID        string   `json:"id" yaml:"id" toml:"id"`
	Title     string   `json:"title" yaml:"title" toml:"title"`
	Completed bool     `json:"completed" yaml:"completed" toml:"completed"`
	Subject   string   `json:"subject,omitempty" yaml:"subject,omitempty" toml:"subject,omitempty"`
	Deadline  string   `json:"deadline,omitempty" yaml:"deadline,omitempty" toml:"deadline,omitempty"`
	Priority  Priority `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty"`
}

// Filter selects tasks by completion state. It is a view concern and is
// never persisted.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters lists the filters in the order a presenter cycles through them.
var Filters = []Filter{FilterAll, FilterCompleted, FilterIncomplete}

// ParseFilter converts user input into a Filter. An empty string yields
// FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterIncomplete:
		return Filter(s), nil
	}
	return "", fmt.Errorf("invalid filter %q: must be one of all, completed, incomplete", s)
}

// Matches reports whether t belongs to the view selected by f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterIncomplete:
		return !t.Completed
	default:
		return true
	}
}

// Next returns the filter after f in presentation order.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Variant names one of the two list flavours.
type Variant string

const (
	VariantSimple Variant = "simple"
	VariantRich   Variant = "rich"
)

// ParseVariant converts user input into a Variant. An empty string yields
// the rich variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "":
		return VariantRich, nil
	case VariantSimple, VariantRich:
		return Variant(s), nil
	}
	return "", fmt.Errorf("invalid variant %q: must be simple or rich", s)
}
