package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `gorm:"not null"                  json:"description"`
	Price       float64   `gorm:"not null"                  json:"price"`
	Category    string    `gorm:"not null;index"            json:"category"`
	ImageURL    string    `json:"image_url"`
	VendorID    string    `gorm:"index"                     json:"vendor_id"`
	Inventory   int       `gorm:"not null;default:0"        json:"inventory"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"  json:"id"`
	CustomerID string      `gorm:"index;not null"        json:"customer_id"`
	Amount     float64     `gorm:"not null"              json:"amount"`
	Status     string      `gorm:"not null"              json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"    json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"         json:"product_id"`
	VendorID  string    `gorm:"index"                      json:"vendor_id"`
	Quantity  int       `gorm:"not null;check:quantity>0"  json:"quantity"`
	Price     float64   `gorm:"not null"                   json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
