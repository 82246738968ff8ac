package models

import "fmt"

// Status is the closed set of petition lifecycle states. Every petition
// starts at StatusPendingModeration; moderators move it through the
// transition table below.
type Status string

const (
	StatusPendingModeration Status = "pending_moderation"
	StatusInReview          Status = "in_review"
	StatusInProgress        Status = "in_progress"
	StatusResolved          Status = "resolved"
	StatusRejected          Status = "rejected"
)

// transitions lists the statuses reachable from each state. Resolved and
// rejected are terminal.
var transitions = map[Status][]Status{
	StatusPendingModeration: {StatusInReview, StatusRejected},
	StatusInReview:          {StatusInProgress, StatusRejected},
	StatusInProgress:        {StatusResolved, StatusRejected},
	StatusResolved:          {},
	StatusRejected:          {},
}

// ParseStatus validates a status string against the closed set.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// CanTransitionTo reports whether a petition in state s may move to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
