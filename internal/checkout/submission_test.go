package checkout

import (
	"testing"

	"herbal-store-client/internal/cart"
	"herbal-store-client/internal/coupon"
	"herbal-store-client/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fullAddress() order.Address {
	return order.Address{
		Name: "Asha", Phone: "9999999999", Street: "12 MG Road",
		City: "Bilaspur", State: "CG", Pincode: "495001", Country: "India",
	}
}

func snapshotOf(items ...cart.Item) cart.Snapshot {
	s := cart.NewStore()
	for _, item := range items {
		s.AddItem(item, item.Quantity)
	}
	return s.Snapshot()
}

func TestBuildSubmission(t *testing.T) {
	t.Run("Empty cart rejected", func(t *testing.T) {
		_, err := BuildSubmission(cart.Snapshot{}, nil, fullAddress(), order.MethodCOD)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("Incomplete address rejected", func(t *testing.T) {
		snap := snapshotOf(cart.Item{ProductID: "p1", UnitPrice: decimal.NewFromInt(100), Quantity: 1})
		addr := fullAddress()
		addr.Pincode = ""

		_, err := BuildSubmission(snap, nil, addr, order.MethodCOD)
		assert.ErrorIs(t, err, ErrIncompleteAddress)
	})

	t.Run("Coupon discount subtracts from total", func(t *testing.T) {
		// cart = [{price:100, qty:2}], discount 50 -> 150
		snap := snapshotOf(cart.Item{
			ProductID: "p1", Name: "Tulsi Drops", ImageRef: "https://cdn.test/t.jpg",
			UnitPrice: decimal.NewFromInt(100), Quantity: 2,
		})
		applied := &coupon.Coupon{Code: "HERBAL50", DiscountAmount: decimal.NewFromInt(50)}

		input, err := BuildSubmission(snap, applied, fullAddress(), order.MethodCOD)
		assert.NoError(t, err)
		assert.True(t, input.ItemsPrice.Equal(decimal.NewFromInt(200)))
		assert.True(t, input.DiscountPrice.Equal(decimal.NewFromInt(50)))
		assert.True(t, input.TotalPrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, input.TaxPrice.IsZero())
		assert.True(t, input.ShippingPrice.IsZero())
		assert.Equal(t, "HERBAL50", input.Coupon)

		assert.Len(t, input.Items, 1)
		assert.Equal(t, "p1", input.Items[0].ProductID)
		assert.Equal(t, "https://cdn.test/t.jpg", input.Items[0].Image)
		assert.Equal(t, 2, input.Items[0].Quantity)
	})

	t.Run("Discount larger than total floors at zero", func(t *testing.T) {
		snap := snapshotOf(cart.Item{ProductID: "p1", UnitPrice: decimal.NewFromInt(100), Quantity: 1})
		applied := &coupon.Coupon{Code: "MEGA", DiscountAmount: decimal.NewFromInt(150)}

		input, err := BuildSubmission(snap, applied, fullAddress(), order.MethodOnline)
		assert.NoError(t, err)
		assert.True(t, input.DiscountPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, input.TotalPrice.IsZero())
	})

	t.Run("No coupon means zero discount", func(t *testing.T) {
		snap := snapshotOf(cart.Item{ProductID: "p1", UnitPrice: decimal.NewFromFloat(99.99), Quantity: 3})

		input, err := BuildSubmission(snap, nil, fullAddress(), order.MethodCOD)
		assert.NoError(t, err)
		assert.True(t, input.DiscountPrice.IsZero())
		assert.True(t, input.TotalPrice.Equal(decimal.NewFromFloat(299.97)))
		assert.Empty(t, input.Coupon)
	})
}
