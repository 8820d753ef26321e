package coupon

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyCode = errors.New("coupon code is required")

	// -- Resource State --
	ErrStaleResponse = errors.New("superseded by a newer coupon validation")
)
