package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a named discount rule. Validity is decided server-side against
// the order amount; the client only carries the result.
type Coupon struct {
	ID             string          `json:"_id,omitempty"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	IsActive       bool            `json:"isActive,omitempty"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
}
