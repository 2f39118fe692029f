package doselog

import "errors"

var (
	ErrDoseLogNotFound = errors.New("dose log not found")
	ErrNonPositiveDose = errors.New("quantity taken must be positive")
	ErrTakenAtInFuture = errors.New("taken_at cannot be in the future")
)
