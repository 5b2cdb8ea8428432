package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Desorr/dropshipping-store/internal/models"
	"github.com/Desorr/dropshipping-store/internal/mykafka"
	"github.com/Desorr/dropshipping-store/internal/service"
	"github.com/Desorr/dropshipping-store/internal/transport"
	"github.com/Desorr/dropshipping-store/internal/util"
)

type CartHandler struct {
	Shop     *service.ShopService
	Producer mykafka.Publisher
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	cart, items, err := h.Shop.GetCart(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.CartResponse{
		OrderID: cart.ID,
		Number:  cart.Number,
		Status:  cart.Status,
		Amount:  cart.Amount,
		Items:   items,
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.Shop.AddToCart(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "add_cart_items",
		"userID":    userID,
		"productID": item.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := h.Shop.RemoveOneFromCart(c.Request().Context(), userID, uint(id))
	if err != nil {
		return httpError(err)
	}

	if item == nil {
		h.publish(c, map[string]any{
			"type":         "cart_item_deleted",
			"userID":       userID,
			"deleted_item": id,
		})
		return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
	}

	h.publish(c, map[string]any{
		"type":         "one_elem_deleted",
		"userID":       userID,
		"id":           item.ID,
		"new_quantity": item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteAllFromCart(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Shop.DeleteFromCart(c.Request().Context(), userID, uint(id)); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}

func (h *CartHandler) MakeOrder(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	order, err := h.Shop.MakeOrder(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	if order.Status != models.OrderStatusCart {
		h.publish(c, map[string]any{
			"type":    "order_created",
			"userID":  userID,
			"orderID": order.ID,
			"number":  order.Number,
			"status":  order.Status,
		})
	}
	if order.Status == models.OrderStatusPaid {
		h.publish(c, map[string]any{
			"type":    "order_paid",
			"userID":  userID,
			"orderID": order.ID,
			"number":  order.Number,
		})
	}

	return c.JSON(http.StatusOK, transport.OrderResponse{
		OrderID: order.ID,
		Number:  order.Number,
		Status:  order.Status,
		Amount:  order.Amount,
	})
}

func (h *CartHandler) ListOrders(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Shop.Orders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return httpError(err)
	}
	unpaid, err := h.Shop.UnpaidAmount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.OrdersResponse{
		Orders:       orders,
		UnpaidAmount: unpaid,
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
