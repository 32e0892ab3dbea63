package lottery

import "errors"

var (
	ErrUnauthorized        = errors.New("lottery: unauthorized")
	ErrPaused              = errors.New("lottery: draws paused")
	ErrInsufficientPayment = errors.New("lottery: insufficient payment")
	ErrNoRewardsConfigured = errors.New("lottery: no rewards configured")
	ErrInvalidWeight       = errors.New("lottery: weight must be positive")
	ErrInvalidEntry        = errors.New("lottery: invalid reward entry")
	ErrUnknownRequest      = errors.New("lottery: unknown request")
	ErrAlreadyFulfilled    = errors.New("lottery: request already fulfilled")
	ErrDistributionFailed  = errors.New("lottery: distribution failed")
	ErrNotFulfilled        = errors.New("lottery: request not fulfilled")
	ErrAlreadyDelivered    = errors.New("lottery: reward already delivered")
)
