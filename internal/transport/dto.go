package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Desorr/dropshipping-store/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CartResponse struct {
	OrderID uint               `json:"order_id"`
	Number  string             `json:"number"`
	Status  string             `json:"status"`
	Amount  decimal.Decimal    `json:"amount"`
	Items   []models.OrderItem `json:"items"`
}

type OrderResponse struct {
	OrderID uint            `json:"order_id"`
	Number  string          `json:"number"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
}

type OrdersResponse struct {
	Orders       []models.Order  `json:"orders"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
}

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type TopUpResponse struct {
	Balance    decimal.Decimal `json:"balance"`
	PaidOrders []models.Order  `json:"paid_orders"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type ContactForm struct {
	Name    string `form:"first-name" json:"first_name"`
	Phone   string `form:"phone"      json:"phone"`
	Email   string `form:"email"      json:"email"`
	Message string `form:"message"    json:"message"`
}
