package models

import "fmt"

// Status is a request's lifecycle state.
type Status string

const (
	StatusNew        Status = "New"
	StatusReviewed   Status = "Reviewed"
	StatusConfirmed  Status = "Confirmed"
	StatusDispatched Status = "Dispatched"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// transitions is the explicit lifecycle table. Cancelled is reachable from
// any non-terminal state; everything else progresses strictly forward.
var transitions = map[Status][]Status{
	StatusNew:        {StatusReviewed, StatusCancelled},
	StatusReviewed:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("invalid status: %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether moving from -> to is legal. Re-issuing the
// current status is always allowed and is a no-op for the caller.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
