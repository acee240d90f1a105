// Package domain provides core business rules for the reports bounded context.
package domain

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// allowedTransitions is the fixed report workflow. Resolved and rejected are
// terminal.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
	StatusResolved:   {},
	StatusRejected:   {},
}

// IsKnownStatus reports whether the status name is part of the workflow.
func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// IsTerminalStatus returns true when no further transitions are possible.
func IsTerminalStatus(status string) bool {
	next, ok := allowedTransitions[status]
	return ok && len(next) == 0
}

// CanTransition reports whether the workflow permits moving from one status
// to another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
