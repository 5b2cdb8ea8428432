package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Desorr/dropshipping-store/internal/models"
	"github.com/Desorr/dropshipping-store/internal/repo"
)

type ShopService struct {
	Repo *repo.GormRepo
}

// GetCart fetches or creates the user's active cart. Calling it twice without
// modification returns the same order.
func (s *ShopService) GetCart(ctx context.Context, userID uint) (*models.Order, []models.OrderItem, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.Repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, items, nil
}

func (s *ShopService) AddToCart(ctx context.Context, userID, productID uint, quantity uint) (*models.OrderItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.AddItem(ctx, cart.ID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return item, err
}

// RemoveOneFromCart takes one unit off a cart line; the last unit deletes the
// line. Returns the remaining line, nil when the line is gone.
func (s *ShopService) RemoveOneFromCart(ctx context.Context, userID, itemID uint) (*models.OrderItem, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.RemoveOneItem(ctx, cart.ID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return item, err
}

func (s *ShopService) DeleteFromCart(ctx context.Context, userID, itemID uint) error {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	err = s.Repo.DeleteItem(ctx, cart.ID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return err
}

// MakeOrder places the user's cart. An empty cart stays a cart; a non-empty
// one moves to waiting_for_payment and may come back already paid when the
// balance covers it.
func (s *ShopService) MakeOrder(ctx context.Context, userID uint) (*models.Order, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.MakeOrder(ctx, userID, cart.ID)
	if errors.Is(err, repo.ErrNotCart) {
		return nil, fmt.Errorf("order already placed: %w", ErrConflict)
	}
	return order, err
}

func (s *ShopService) Orders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

func (s *ShopService) UnpaidAmount(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.Repo.UnpaidAmount(ctx, userID)
}
