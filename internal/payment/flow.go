// Package payment drives the online payment leg of checkout: fetch the
// gateway key, create a gateway order, open the widget, then verify the
// result with the backend. Order state stays untouched throughout; a failed
// leg leaves the order created and unpaid.
package payment

import (
	"context"
	"errors"
	"net/http"

	"herbal-store-client/internal/api"
	"herbal-store-client/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
)

type Flow struct {
	api       *api.Client
	storeName string
}

func NewFlow(client *api.Client, storeName string) *Flow {
	return &Flow{api: client, storeName: storeName}
}

// GetKey fetches the publishable gateway key.
func (f *Flow) GetKey(ctx context.Context) (string, error) {
	var resp struct {
		Key string `json:"key"`
	}
	if err := f.api.Do(ctx, http.MethodGet, "/payment/getkey", nil, &resp, api.TierStrict); err != nil {
		return "", err
	}
	return resp.Key, nil
}

type checkoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateCheckout creates the gateway-side order for amount.
func (f *Flow) CreateCheckout(ctx context.Context, amount decimal.Decimal) (*CheckoutOrder, error) {
	var resp struct {
		Order CheckoutOrder `json:"order"`
	}
	if err := f.api.Do(ctx, http.MethodPost, "/payment/checkout", checkoutRequest{Amount: amount}, &resp, api.TierStrict); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"order_id"`
}

// Verify asks the backend to check the widget's signature against the
// gateway and mark the order paid.
func (f *Flow) Verify(ctx context.Context, result WidgetResult, orderID string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	req := verifyRequest{
		RazorpayOrderID:   result.RazorpayOrderID,
		RazorpayPaymentID: result.RazorpayPaymentID,
		RazorpaySignature: result.RazorpaySignature,
		OrderID:           orderID,
	}
	if err := f.api.Do(ctx, http.MethodPost, "/payment/verification", req, &resp, api.TierStrict); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// Collect runs the whole leg for an already created order. Any error leaves
// the order unpaid; the caller routes the user to the order's detail view
// rather than retrying.
func (f *Flow) Collect(ctx context.Context, widget Widget, orderID string, amount decimal.Decimal, prefill Prefill) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	key, err := f.GetKey(ctx)
	if err != nil {
		log.Error("failed fetching gateway key", zap.Error(err))
		return err
	}

	gatewayOrder, err := f.CreateCheckout(ctx, amount)
	if err != nil {
		log.Error("failed creating gateway order", zap.Error(err))
		return err
	}

	result, err := widget.Open(ctx, Options{
		Key:         key,
		OrderID:     gatewayOrder.ID,
		Amount:      gatewayOrder.Amount,
		Currency:    gatewayOrder.Currency,
		Name:        f.storeName,
		Description: "Order Payment",
		Prefill:     prefill,
	})
	if err != nil {
		log.Warn("payment widget failed", zap.Error(err))
		return err
	}

	ok, err := f.Verify(ctx, *result, orderID)
	if err != nil {
		log.Error("verification call failed", zap.Error(err))
		return err
	}
	if !ok {
		log.Warn("payment not verified")
		return ErrVerificationFailed
	}

	log.Info("payment verified")
	return nil
}
