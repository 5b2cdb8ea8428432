package repo

import (
	"time"

	"gorm.io/gorm"
)

// CartTTL is how long a cart stays usable; older carts are expired and
// replaced on next access.
const CartTTL = 7 * 24 * time.Hour

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
