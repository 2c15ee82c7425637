package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant holds per-option stock for a product. Color and Size use the
// empty string for "not applicable" so the uniqueness constraint covers
// optionless products too.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_variant_options"`
	Color     string    `gorm:"column:color;not null;default:'';uniqueIndex:ux_variant_options"`
	ColorName string    `gorm:"column:color_name;not null;default:''"`
	Size      string    `gorm:"column:size;not null;default:'';uniqueIndex:ux_variant_options"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
