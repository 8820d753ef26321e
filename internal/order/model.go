package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

type PaymentMethod string

const (
	MethodCOD PaymentMethod = "COD"
	// MethodOnline is the wire value the backend expects for the online
	// gateway flow.
	MethodOnline PaymentMethod = "Razorpay"
)

type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Item is a decoupled snapshot of a cart line taken at submission time;
// later cart mutations never reach a placed order.
type Item struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is backend-owned once created. The client never mutates one locally
// to mark it paid or delivered; it only re-fetches.
type Order struct {
	ID              string          `json:"_id"`
	Items           []Item          `json:"orderItems"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	DiscountPrice   decimal.Decimal `json:"discountPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Coupon          string          `json:"coupon,omitempty"`
	Status          Status          `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	IsDelivered     bool            `json:"isDelivered"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CancelReason    string          `json:"cancelReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateInput is the submission payload assembled by the checkout
// orchestrator.
type CreateInput struct {
	Items           []Item          `json:"orderItems"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	DiscountPrice   decimal.Decimal `json:"discountPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Coupon          string          `json:"coupon,omitempty"`
}

// CanCancel reports whether the cancel affordance should be offered. The
// backend is the source of truth; this only hides the action where it is
// guaranteed to fail.
func CanCancel(s Status) bool {
	return s == StatusPending || s == StatusProcessing
}
