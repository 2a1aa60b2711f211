package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementInventory when the product row
// exists but its inventory is below the requested amount.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}
