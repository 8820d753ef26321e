// Package checkout coordinates the cart, coupon and order stores into one
// order submission, then routes to payment. It is the only component that
// reads three stores at once; it mutates them solely through their own
// operations.
package checkout

import (
	"context"
	"errors"
	"sync"

	"herbal-store-client/internal/cart"
	"herbal-store-client/internal/coupon"
	"herbal-store-client/internal/logger"
	"herbal-store-client/internal/order"
	"herbal-store-client/internal/payment"

	"go.uber.org/zap"
)

var ErrWidgetRequired = errors.New("online payment requires a payment widget")

// State tracks a checkout attempt. PaymentFailed is terminal from the
// client's perspective; the user consults the order status later.
type State string

const (
	StateIdle            State = "Idle"
	StateSubmitting      State = "Submitting"
	StateOrderCreated    State = "OrderCreated"
	StateSubmitFailed    State = "SubmitFailed"
	StateAwaitingPayment State = "AwaitingPayment"
	StatePaymentVerified State = "PaymentVerified"
	StatePaymentFailed   State = "PaymentFailed"
	StateCompleted       State = "Completed"
)

// Result is the outcome of one Submit call. When the attempt ends with an
// unpaid order (PaymentFailed), Order still carries the created record so
// the view can route to its detail page instead of losing it.
type Result struct {
	State State
	Order *order.Order

	// TotalMismatch flags a backend recompute that diverged from the
	// submitted total. Surfaced, never hidden.
	TotalMismatch bool
}

type Orchestrator struct {
	cart     *cart.Store
	coupons  *coupon.Store
	orders   *order.Store
	payments *payment.Flow

	mu    sync.Mutex
	state State
}

func New(cartStore *cart.Store, couponStore *coupon.Store, orderStore *order.Store, flow *payment.Flow) *Orchestrator {
	return &Orchestrator{
		cart:     cartStore,
		coupons:  couponStore,
		orders:   orderStore,
		payments: flow,
		state:    StateIdle,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// SubmitParams carries the view's input for one checkout attempt.
type SubmitParams struct {
	Address order.Address
	Method  order.PaymentMethod

	// Widget and Prefill are only consulted for online payment.
	Widget  payment.Widget
	Prefill payment.Prefill
}

// Submit assembles and places the order, then completes payment.
//
// COD: on success the cart and coupon are cleared and the attempt
// completes. Online: the cart and coupon are cleared only after the
// backend verifies the payment; any widget or verification failure leaves
// the order created and unpaid, and the caller routes to its detail view.
func (o *Orchestrator) Submit(ctx context.Context, params SubmitParams) (*Result, error) {
	// Each attempt starts fresh; State() must not report the previous one.
	o.setState(StateIdle)

	if params.Method == order.MethodOnline && params.Widget == nil {
		return &Result{State: StateIdle}, ErrWidgetRequired
	}

	input, err := BuildSubmission(o.cart.Snapshot(), o.coupons.Applied(), params.Address, params.Method)
	if err != nil {
		// Local validation failure; no attempt was started.
		return &Result{State: StateIdle}, err
	}

	o.setState(StateSubmitting)
	log := logger.FromCtx(ctx)

	ord, err := o.orders.Create(ctx, input)
	if err != nil {
		o.setState(StateSubmitFailed)
		return &Result{State: StateSubmitFailed}, err
	}
	o.setState(StateOrderCreated)

	mismatch := !ord.TotalPrice.Equal(input.TotalPrice)
	if mismatch {
		log.Warn("backend recomputed order total",
			zap.String("order_id", ord.ID),
			zap.String("submitted", input.TotalPrice.String()),
			zap.String("returned", ord.TotalPrice.String()),
		)
	}

	if params.Method == order.MethodCOD {
		o.finish()
		o.setState(StateCompleted)
		return &Result{State: StateCompleted, Order: ord, TotalMismatch: mismatch}, nil
	}

	o.setState(StateAwaitingPayment)
	if err := o.payments.Collect(ctx, params.Widget, ord.ID, ord.TotalPrice, params.Prefill); err != nil {
		// The order exists and is unpaid; never silently lost.
		o.setState(StatePaymentFailed)
		return &Result{State: StatePaymentFailed, Order: ord, TotalMismatch: mismatch}, err
	}

	o.finish()
	o.setState(StatePaymentVerified)
	return &Result{State: StatePaymentVerified, Order: ord, TotalMismatch: mismatch}, nil
}

// finish clears session state that belongs to the placed order.
func (o *Orchestrator) finish() {
	o.cart.Clear()
	o.coupons.Remove()
}
