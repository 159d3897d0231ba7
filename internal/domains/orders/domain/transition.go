package domain

import (
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether the lifecycle allows from → to.
// pending → processing → shipped → delivered; cancelled from pending or processing.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *TransitionError) Error() string {
	if e.To == StatusCancelled {
		return fmt.Sprintf("order cannot be cancelled while %s", e.From)
	}
	return fmt.Sprintf("order cannot move from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return errkind.InvalidTransition }
