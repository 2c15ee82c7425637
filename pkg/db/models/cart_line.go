package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product-plus-options row in a cart. OptColor and OptSize
// store the normalized option values with the empty string meaning "absent",
// which lets the uniqueness constraint deduplicate optionless lines as well.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_line_options"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_line_options"`
	OptColor  string    `gorm:"column:opt_color;not null;default:'';uniqueIndex:ux_cart_line_options"`
	OptSize   string    `gorm:"column:opt_size;not null;default:'';uniqueIndex:ux_cart_line_options"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
