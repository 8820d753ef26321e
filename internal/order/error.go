package order

import "errors"

var (
	// -- Validation & Input --
	ErrOrderIDRequired = errors.New("order id is required")
	ErrReasonRequired  = errors.New("cancellation reason is required")

	// -- Resource State --
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)
