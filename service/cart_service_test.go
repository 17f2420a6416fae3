package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-orders/models"
)

func TestCartAddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "W-7841", 2, nil)
	require.NoError(t, err)
	cart, err := f.cart.Add(ctx, "u1", "W-7841", 3, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	// repriced at the merged quantity: wholesale band
	assert.Equal(t, "1.80", cart.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "9.00", cart.Total.StringFixed(2))
}

func TestCartAddMergesKeyVariants(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "w7841", 1, nil)
	require.NoError(t, err)
	cart, err := f.cart.Add(ctx, "u1", "W-7841", 1, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "W-7841", cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Cuaderno universitario", cart.Items[0].Name)
}

func TestCartClientPriceIsAdopted(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	cart, err := f.cart.Add(ctx, "u1", "W-7841", 1, price(1.33))
	require.NoError(t, err)
	assert.Equal(t, "1.33", cart.Items[0].UnitPrice.StringFixed(2))

	cart, err = f.cart.Add(ctx, "u1", "W-7841", 1, price(1.25))
	require.NoError(t, err)
	assert.Equal(t, "1.25", cart.Items[0].UnitPrice.StringFixed(2))

	cart, err = f.cart.UpdateQuantity(ctx, "u1", "W-7841", 20, price(0.99))
	require.NoError(t, err)
	assert.Equal(t, "0.99", cart.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 20, cart.Items[0].Quantity)
}

func TestCartInvalidClientPriceFallsBackToTiers(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	cart, err := f.cart.Add(ctx, "u1", "W-7841", 12, price(0))
	require.NoError(t, err)
	assert.Equal(t, "1.50", cart.Items[0].UnitPrice.StringFixed(2))

	cart, err = f.cart.Add(ctx, "u1", "U-100", 5, price(-3))
	require.NoError(t, err)
	// unit + bulk only: 1-11 stays on unit
	assert.Equal(t, "0.50", cart.Items[1].UnitPrice.StringFixed(2))
}

func TestCartUpdateKeepsLockedPrice(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "W-7841", 1, nil)
	require.NoError(t, err)

	cart, err := f.cart.UpdateQuantity(ctx, "u1", "W-7841", 12, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cart.Items[0].Quantity)
	assert.Equal(t, "2.00", cart.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "24.00", cart.Total.StringFixed(2))
}

func TestCartUpdateBackfillsUnusablePrice(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	require.NoError(t, f.carts.Save(ctx, "u1", []models.CartItem{
		{ProductID: "W-7841", Code: "W-7841", Name: "Cuaderno", UnitPrice: money("0"), Quantity: 1},
	}))

	cart, err := f.cart.UpdateQuantity(ctx, "u1", "W-7841", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.80", cart.Items[0].UnitPrice.StringFixed(2))
}

func TestCartUpdateRemovesOnNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "W-7841", 1, nil)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u1", "S-1", 1, nil)
	require.NoError(t, err)

	cart, err := f.cart.UpdateQuantity(ctx, "u1", "W-7841", 0, nil)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "S-1", cart.Items[0].ProductID)

	cart, err = f.cart.UpdateQuantity(ctx, "u1", "S-1", -2, nil)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateAbsentItem(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.UpdateQuantity(ctx, "u1", "W-7841", 3, nil)
	assert.Equal(t, ErrNotFound, KindOf(err))

	cart, err := f.cart.UpdateQuantity(ctx, "u1", "W-7841", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartPlaceholderForUnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	cart, err := f.cart.Add(ctx, "u1", "ZZ-404", 2, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.True(t, item.Placeholder)
	assert.Equal(t, "Producto ZZ-404", item.Name)
	assert.Equal(t, "1.20", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "2.40", cart.Total.StringFixed(2))
}

func TestCartAddRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "   ", 1, nil)
	assert.Equal(t, ErrNotFound, KindOf(err))

	_, err = f.cart.Add(ctx, "u1", "W-7841", 0, nil)
	assert.Equal(t, ErrInvalidData, KindOf(err))

	_, err = f.cart.Add(ctx, "", "W-7841", 1, nil)
	assert.Equal(t, ErrInvalidData, KindOf(err))
}

func TestCartTotalUsesLockedPrices(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	require.NoError(t, f.carts.Save(ctx, "u1", []models.CartItem{
		// locked below every tier; must not be recomputed
		{ProductID: "W-7841", Code: "W-7841", Name: "Cuaderno", UnitPrice: money("1.00"), Quantity: 5},
		// no usable price: priced from tiers at quantity 3
		{ProductID: "S-1", Code: "S-1", Name: "Regla", UnitPrice: money("0"), Quantity: 3},
	}))

	total, err := f.cart.Total(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "7.70", total.StringFixed(2))
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "u1", "W-7841", 1, nil)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u1", "S-1", 1, nil)
	require.NoError(t, err)

	cart, err := f.cart.Remove(ctx, "u1", "w7841")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = f.cart.Remove(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, f.cart.Clear(ctx, "u1"))
	cart, err = f.cart.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}
