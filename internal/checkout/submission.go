package checkout

import (
	"errors"

	"herbal-store-client/internal/cart"
	"herbal-store-client/internal/coupon"
	"herbal-store-client/internal/order"

	"github.com/shopspring/decimal"
)

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrIncompleteAddress = errors.New("shipping address is incomplete")
)

// BuildSubmission composes a cart snapshot, the applied coupon and the
// shipping address into an order payload. Pure function; no store is
// mutated and no network is touched.
//
// The discount is capped at the items total so the final price floors at
// zero; the backend never sees a negative total.
func BuildSubmission(snap cart.Snapshot, applied *coupon.Coupon, addr order.Address, method order.PaymentMethod) (order.CreateInput, error) {
	if snap.Empty() {
		return order.CreateInput{}, ErrCartEmpty
	}
	if !addressComplete(addr) {
		return order.CreateInput{}, ErrIncompleteAddress
	}

	items := make([]order.Item, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, order.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.ImageRef,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	discount := decimal.Zero
	couponCode := ""
	if applied != nil {
		discount = applied.DiscountAmount
		couponCode = applied.Code
		if discount.GreaterThan(snap.TotalPrice) {
			discount = snap.TotalPrice
		}
	}

	return order.CreateInput{
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		ItemsPrice:      snap.TotalPrice,
		TaxPrice:        decimal.Zero,
		ShippingPrice:   decimal.Zero,
		DiscountPrice:   discount,
		TotalPrice:      snap.TotalPrice.Sub(discount),
		Coupon:          couponCode,
	}, nil
}

func addressComplete(addr order.Address) bool {
	fields := []string{addr.Name, addr.Phone, addr.Street, addr.City, addr.State, addr.Pincode, addr.Country}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}
