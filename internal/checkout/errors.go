package checkout

import "errors"

var (
	ErrCheckoutInFlight  = errors.New("checkout already in progress")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// ValidationError is returned when a checkout is rejected before reaching the
// backend.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return e.Result.Message()
}
