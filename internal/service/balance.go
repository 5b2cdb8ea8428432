package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Desorr/dropshipping-store/internal/models"
	"github.com/Desorr/dropshipping-store/internal/repo"
)

type BalanceService struct {
	Repo *repo.GormRepo
}

func (s *BalanceService) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.Repo.Balance(ctx, userID)
}

// TopUp adds funds and settles whatever the new balance now covers.
func (s *BalanceService) TopUp(ctx context.Context, userID uint, amount decimal.Decimal) ([]models.Order, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	return s.Repo.AddPayment(ctx, userID, amount)
}

func (s *BalanceService) Payments(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.Repo.ListPayments(ctx, userID)
}
