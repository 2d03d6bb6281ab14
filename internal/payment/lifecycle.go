package payment

import "fmt"

// next validates a payment status move.
//
//	created, pending -> success | failed
//	success          -> refunded
func next(from, to Status) error {
	switch to {
	case StatusSuccess, StatusFailed:
		if from == StatusCreated || from == StatusPending {
			return nil
		}
	case StatusRefunded:
		if from == StatusSuccess {
			return nil
		}
	case StatusCreated, StatusPending:
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
