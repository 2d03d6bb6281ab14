package booking

import "fmt"

type Action string

const (
	ActionCancel   Action = "cancel"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
)

// Transition returns the status a booking in from moves to under action.
//
//	cancel:   pending, approved -> canceled
//	approve:  pending           -> approved
//	reject:   pending           -> rejected
//	complete: approved          -> completed
func Transition(from Status, action Action) (Status, error) {
	switch action {
	case ActionCancel:
		if from == StatusPending || from == StatusApproved {
			return StatusCanceled, nil
		}
	case ActionApprove:
		if from == StatusPending {
			return StatusApproved, nil
		}
	case ActionReject:
		if from == StatusPending {
			return StatusRejected, nil
		}
	case ActionComplete:
		if from == StatusApproved {
			return StatusCompleted, nil
		}
	default:
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	return from, fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, action, from)
}
