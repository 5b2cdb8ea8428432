package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Desorr/dropshipping-store/internal/mykafka"
	"github.com/Desorr/dropshipping-store/internal/service"
	"github.com/Desorr/dropshipping-store/internal/transport"
)

type BalanceHandler struct {
	Balance  *service.BalanceService
	Producer mykafka.Publisher
}

func (h *BalanceHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "payment_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *BalanceHandler) GetBalance(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	balance, err := h.Balance.Balance(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.BalanceResponse{Balance: balance})
}

func (h *BalanceHandler) TopUp(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req transport.TopUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paid, err := h.Balance.TopUp(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":   "payment_added",
		"userID": userID,
		"amount": req.Amount,
	})
	for _, order := range paid {
		h.publish(c, map[string]any{
			"type":    "order_paid",
			"userID":  userID,
			"orderID": order.ID,
			"number":  order.Number,
		})
	}

	balance, err := h.Balance.Balance(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.TopUpResponse{
		Balance:    balance,
		PaidOrders: paid,
	})
}

func (h *BalanceHandler) ListPayments(c echo.Context) error {
	userID, err := service.CurrentUserID(c)
	if err != nil {
		return err
	}

	payments, err := h.Balance.Payments(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payments)
}
