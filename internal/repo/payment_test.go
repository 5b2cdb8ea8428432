package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Desorr/dropshipping-store/internal/models"
)

func TestBalance_SumsLedger(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	balance, err := r.Balance(ctx, 1)
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	_, err = r.AddPayment(ctx, 1, decimal.RequireFromString("100.50"))
	require.NoError(t, err)
	_, err = r.AddPayment(ctx, 1, decimal.RequireFromString("49.50"))
	require.NoError(t, err)
	_, err = r.AddPayment(ctx, 2, decimal.RequireFromString("7"))
	require.NoError(t, err)

	balance, err = r.Balance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "150", balance.String())
}

func TestAddPayment_SettlesOldestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	cheap := createProduct(t, r, "cheap", "10")
	pricey := createProduct(t, r, "pricey", "90")

	cart, err := r.GetCart(ctx, 1)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, cart.ID, cheap.ID, 1)
	require.NoError(t, err)
	first, err := r.MakeOrder(ctx, 1, cart.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusWaitingForPayment, first.Status)

	cart, err = r.GetCart(ctx, 1)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, cart.ID, pricey.ID, 1)
	require.NoError(t, err)
	second, err := r.MakeOrder(ctx, 1, cart.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusWaitingForPayment, second.Status)

	// covers the first order only; the walk stops at the second
	paid, err := r.AddPayment(ctx, 1, decimal.RequireFromString("50"))
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.Equal(t, first.ID, paid[0].ID)

	var still models.Order
	require.NoError(t, r.DB.First(&still, second.ID).Error)
	require.Equal(t, models.OrderStatusWaitingForPayment, still.Status)

	balance, err := r.Balance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "40", balance.String())

	paid, err = r.AddPayment(ctx, 1, decimal.RequireFromString("50"))
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.Equal(t, second.ID, paid[0].ID)

	balance, err = r.Balance(ctx, 1)
	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestAddPayment_InsufficientFundsTouchNothing(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := createProduct(t, r, "pin", "4")
	cart, err := r.GetCart(ctx, 1)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, cart.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := r.MakeOrder(ctx, 1, cart.ID)
	require.NoError(t, err)

	paid, err := r.AddPayment(ctx, 1, decimal.RequireFromString("3"))
	require.NoError(t, err)
	require.Empty(t, paid)

	var after models.Order
	require.NoError(t, r.DB.First(&after, order.ID).Error)
	require.Equal(t, models.OrderStatusWaitingForPayment, after.Status)

	balance, err := r.Balance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "3", balance.String())
}
