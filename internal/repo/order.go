package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Desorr/dropshipping-store/internal/models"
)

// GetCart returns the user's current cart, creating one when none exists.
// A cart older than CartTTL is dropped together with its items and replaced
// by a fresh empty one.
func (r *GormRepo) GetCart(ctx context.Context, userID uint) (*models.Order, error) {
	var cart models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND status = ?", userID, models.OrderStatusCart).
			Order("created_at DESC").
			First(&cart).Error
		if err == nil {
			if time.Since(cart.CreatedAt) <= CartTTL {
				return nil
			}
			if err := tx.Where("order_id = ?", cart.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cart = models.Order{
			Number:    uuid.NewString(),
			UserID:    userID,
			Status:    models.OrderStatusCart,
			Amount:    decimal.Zero,
			CreatedAt: time.Now(),
		}
		return tx.Create(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the order. An existing line
// for the same product is merged and keeps its original price snapshot; a new
// line snapshots the current product price.
func (r *GormRepo) AddItem(ctx context.Context, orderID, productID uint, quantity uint) (*models.OrderItem, error) {
	var item models.OrderItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error
		if err == nil {
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
			return r.refreshAmount(tx, orderID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		item = models.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Price:     product.Price,
			Quantity:  quantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return r.refreshAmount(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveOneItem decrements a line by one unit, deleting the line when it hits
// zero. Returns the line as it remains, or nil when deleted.
func (r *GormRepo) RemoveOneItem(ctx context.Context, orderID, itemID uint) (*models.OrderItem, error) {
	var (
		item    models.OrderItem
		deleted bool
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			item.Quantity -= 1
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			deleted = true
		}
		return r.refreshAmount(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, nil
	}
	return &item, nil
}

// DeleteItem removes a whole line. Deleting the last line keeps the order;
// its amount recomputes to zero.
func (r *GormRepo) DeleteItem(ctx context.Context, orderID, itemID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND order_id = ?", itemID, orderID).Delete(&models.OrderItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.refreshAmount(tx, orderID)
	})
}

func (r *GormRepo) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MakeOrder transitions a cart to waiting_for_payment and runs settlement for
// its owner. An empty cart is left untouched. The returned order carries the
// post-settlement status.
func (r *GormRepo) MakeOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			return err
		}
		if order.Status != models.OrderStatusCart {
			return ErrNotCart
		}

		var count int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}

		if err := r.refreshAmount(tx, orderID); err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderStatusWaitingForPayment).Error; err != nil {
			return err
		}

		if _, err := r.settleTx(tx, userID); err != nil {
			return err
		}
		return tx.First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.OrderStatusCart).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UnpaidAmount sums the amounts of the user's waiting_for_payment orders.
// Carts and paid orders are excluded.
func (r *GormRepo) UnpaidAmount(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return r.unpaidAmountTx(r.DB.WithContext(ctx), userID)
}

func (r *GormRepo) unpaidAmountTx(tx *gorm.DB, userID uint) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := tx.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusWaitingForPayment).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// refreshAmount recomputes the cached order amount from its lines. Summing in
// Go over decimals keeps the total exact on every backend.
func (r *GormRepo) refreshAmount(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}

	amount := decimal.Zero
	for _, it := range items {
		amount = amount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("amount", amount).Error
}
