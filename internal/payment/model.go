package payment

import "context"

// Prefill seeds the widget's customer fields.
type Prefill struct {
	Name    string
	Email   string
	Contact string
}

// Options parameterizes one widget invocation.
type Options struct {
	Key         string
	OrderID     string
	Amount      int64
	Currency    string
	Name        string
	Description string
	Prefill     Prefill
}

// WidgetResult is what the gateway hands back after the user completes the
// widget flow.
type WidgetResult struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// Widget abstracts the external Razorpay checkout surface. The real one
// lives outside this process; tests and headless fronts inject fakes.
type Widget interface {
	Open(ctx context.Context, opts Options) (*WidgetResult, error)
}

// CheckoutOrder is the gateway-side order created before the widget opens.
type CheckoutOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
