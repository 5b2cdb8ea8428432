package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Desorr/dropshipping-store/internal/models"
	"github.com/Desorr/dropshipping-store/internal/transport"
)

func TestGetCart_CreatesEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.OrderStatusCart, resp.Status)
	require.True(t, resp.Amount.IsZero())
	require.Len(t, resp.Items, 0)
}

func TestAddToCart_ReturnsLineAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("shirt", "19.99")

	load := map[string]uint{
		"product_id": p.ID,
		"quantity":   2,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.OrderItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, p.ID, item.ProductID)
	require.EqualValues(t, 2, item.Quantity)
	require.Equal(t, "19.99", item.Price.String())

	require.Len(t, env.Pub.events, 1)
	require.Equal(t, "add_cart_items", env.Pub.events[0]["type"])
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	load := map[string]uint{"product_id": 42, "quantity": 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)

	err := env.Cart.AddToCart(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteOneFromCart(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("shirt", "10")

	load := map[string]uint{"product_id": p.ID, "quantity": 2}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	var item models.OrderItem
	require.NoError(t, env.DB.Where("product_id = ?", p.ID).First(&item).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1", nil)
	env.asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	require.NoError(t, env.Cart.DeleteOneFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.OrderItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Quantity)
}

func TestDeleteAllFromCart(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("shirt", "10")

	load := map[string]uint{"product_id": p.ID, "quantity": 5}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	var item models.OrderItem
	require.NoError(t, env.DB.Where("product_id = ?", p.ID).First(&item).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1/all", nil)
	env.asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	require.NoError(t, env.Cart.DeleteAllFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	// the cart order survives with a zero amount
	var order models.Order
	require.NoError(t, env.DB.Where("user_id = ? AND status = ?", 1, models.OrderStatusCart).First(&order).Error)
	require.True(t, order.Amount.IsZero())
}

func TestMakeOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/order", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.MakeOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.OrderStatusCart, resp.Status)
	require.Empty(t, env.Pub.events)
}

func TestMakeOrder_WaitsForPayment(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("pin", "4")

	load := map[string]uint{"product_id": p.ID, "quantity": 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/order", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.MakeOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.OrderStatusWaitingForPayment, resp.Status)
	require.Equal(t, "4", resp.Amount.String())
}

func TestMakeOrder_PaidFromBalance(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("chair", "1000")

	load := map[string]any{"amount": "10000"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/balance", load)
	env.asUser(c, 1)
	require.NoError(t, env.Balance.TopUp(c))

	item := map[string]uint{"product_id": p.ID, "quantity": 1}
	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart", item)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/order", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.MakeOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.OrderStatusPaid, resp.Status)

	types := make([]string, 0, len(env.Pub.events))
	for _, ev := range env.Pub.events {
		types = append(types, ev["type"].(string))
	}
	require.Contains(t, types, "order_created")
	require.Contains(t, types, "order_paid")
}

func TestListOrders_ReportsUnpaidAmount(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("pin", "4")

	load := map[string]uint{"product_id": p.ID, "quantity": 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart/order", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.MakeOrder(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Cart.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.OrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	require.Equal(t, "4", resp.UnpaidAmount.String())
}
