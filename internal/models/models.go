package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusCart              = "cart"
	OrderStatusWaitingForPayment = "waiting_for_payment"
	OrderStatusPaid              = "paid"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string          `gorm:"not null"                  json:"name"`
	Description string          `gorm:"not null"                  json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"     json:"price"`
}

// Order is both the cart (status "cart") and the placed order. Amount caches
// the sum of item price*quantity and is refreshed on every item change.
type Order struct {
	ID        uint            `gorm:"primaryKey"            json:"id"`
	Number    string          `gorm:"uniqueIndex;not null"  json:"number"`
	UserID    uint            `gorm:"index;not null"        json:"user_id"`
	Status    string          `gorm:"index;not null"        json:"status"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null"              json:"created_at"`
}

// OrderItem snapshots the product price at add time; later product price
// changes do not reprice existing lines.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Price     decimal.Decimal `gorm:"type:numeric;not null"       json:"price"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// Payment is an append-only ledger row: positive adds funds, negative is
// written by settlement. Rows are never updated in place.
type Payment struct {
	ID        uint            `gorm:"primaryKey"            json:"id"`
	UserID    uint            `gorm:"index;not null"        json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null"              json:"created_at"`
}
