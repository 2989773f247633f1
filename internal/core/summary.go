package core

import "github.com/valter-silva-au/pocket-todo/pkg/models"

// Summary counts the tasks of a collection. It is derived on demand and
// never persisted.
type Summary struct {
	Total     int
	Completed int
	Open      int
	// ByPriority holds a count for every known priority. It is nil for
	// lists without rich fields.
	ByPriority map[models.Priority]int
}

// Summarize counts tasks by completion and priority.
func Summarize(tasks []models.Task) Summary {
	sum := Summary{
		Total:      len(tasks),
		ByPriority: make(map[models.Priority]int, len(models.Priorities)),
	}
	for _, p := range models.Priorities {
		sum.ByPriority[p] = 0
	}
	for _, t := range tasks {
		if t.Completed {
			sum.Completed++
		} else {
			sum.Open++
		}
		if t.Priority != "" {
			sum.ByPriority[t.Priority]++
		}
	}
	return sum
}
