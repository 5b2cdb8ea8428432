package repo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Desorr/dropshipping-store/internal/models"
)

// ErrNotCart is returned when an order operation expects a cart but the order
// has already been placed.
var ErrNotCart = errors.New("order is not a cart")

// Balance is the running sum of the user's payment ledger, zero when the
// ledger is empty.
func (r *GormRepo) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return r.balanceTx(r.DB.WithContext(ctx), userID)
}

func (r *GormRepo) balanceTx(tx *gorm.DB, userID uint) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := tx.Model(&models.Payment{}).
		Where("user_id = ?", userID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, a := range amounts {
		balance = balance.Add(a)
	}
	return balance, nil
}

func (r *GormRepo) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// AddPayment appends a ledger row and re-runs settlement, so a top-up that
// covers outstanding orders pays them off immediately. Returns the orders the
// settlement marked paid.
func (r *GormRepo) AddPayment(ctx context.Context, userID uint, amount decimal.Decimal) ([]models.Order, error) {
	var paid []models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := models.Payment{
			UserID:    userID,
			Amount:    amount,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		var err error
		paid, err = r.settleTx(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// settleTx walks the user's unpaid orders oldest first and, while the running
// balance covers an order, marks it paid and appends the offsetting negative
// ledger row. An order the balance cannot cover stops the walk and stays
// waiting_for_payment.
func (r *GormRepo) settleTx(tx *gorm.DB, userID uint) ([]models.Order, error) {
	balance, err := r.balanceTx(tx, userID)
	if err != nil {
		return nil, err
	}

	var unpaid []models.Order
	err = tx.
		Where("user_id = ? AND status = ?", userID, models.OrderStatusWaitingForPayment).
		Order("created_at ASC").
		Find(&unpaid).Error
	if err != nil {
		return nil, err
	}

	var paid []models.Order
	for _, order := range unpaid {
		if balance.LessThan(order.Amount) {
			break
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusPaid).Error; err != nil {
			return nil, err
		}
		debit := models.Payment{
			UserID:    userID,
			Amount:    order.Amount.Neg(),
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&debit).Error; err != nil {
			return nil, err
		}

		balance = balance.Sub(order.Amount)
		order.Status = models.OrderStatusPaid
		paid = append(paid, order)
	}
	return paid, nil
}
