// Package stats computes summary counts over the full task collection.
package stats

import (
	"math"
	"time"

	"github.com/nonce-firewall/taskflow/internal/task"
)

// Summary is the aggregate dashboard view of the collection. All counts are
// derived from the full collection, not a filtered view.
type Summary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Todo           int `json:"todo"`
	Overdue        int `json:"overdue"`
	UrgentOpen     int `json:"urgentOpen"`
	CompletionRate int `json:"completionRate"` // percent, 0 when the collection is empty
}

// Compute derives a Summary from the collection snapshot. Recomputed on
// every call; nothing is memoized.
func Compute(tasks []*task.Task, now time.Time) Summary {
	s := Summary{Total: len(tasks)}

	for _, t := range tasks {
		switch t.Status {
		case task.StatusCompleted:
			s.Completed++
		case task.StatusInProgress:
			s.InProgress++
		default:
			s.Todo++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
		if t.Priority == task.PriorityUrgent && t.Status != task.StatusCompleted {
			s.UrgentOpen++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
