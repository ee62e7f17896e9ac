package verification

import "errors"

// Hard stops abort before any side effect, or right after the authoritative
// write fails. Soft stops (notification, billing) are folded into a Result.
var (
	ErrUnauthorized       = errors.New("Unauthorized")
	ErrNotFound           = errors.New("account not found")
	ErrStoreReadFailed    = errors.New("failed to load account")
	ErrStoreWriteFailed   = errors.New("failed to update account")
	ErrNotificationFailed = errors.New("notification failed")
	ErrBillingFailed      = errors.New("billing cleanup failed")
	ErrInvalidAction      = errors.New("Invalid action")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountBusy        = errors.New("account is being reviewed by another request")
)
