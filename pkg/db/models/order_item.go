package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a frozen snapshot of a purchased line. ProductName and
// UnitPrice are copied at settlement time so later catalog edits never change
// what the order says was bought.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string    `gorm:"column:product_name;not null"`
	OptColor     string    `gorm:"column:opt_color;not null;default:''"`
	OptColorName string    `gorm:"column:opt_color_name;not null;default:''"`
	OptSize      string    `gorm:"column:opt_size;not null;default:''"`
	Quantity     int       `gorm:"column:quantity;not null"`
	UnitPrice    int       `gorm:"column:unit_price;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
