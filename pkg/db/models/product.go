package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/pkg/enums"
)

// Product represents the canonical catalog listing. Stock mirrors the sum of
// the variant stocks and is recomputed whenever a variant row changes.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Brand         string              `gorm:"column:brand;not null;default:''"`
	Description   *string             `gorm:"column:description"`
	ThumbnailURL  *string             `gorm:"column:thumbnail_url"`
	Price         int                 `gorm:"column:price;not null"`
	DiscountPrice *int                `gorm:"column:discount_price"`
	DiscountRate  *int                `gorm:"column:discount_rate"`
	Stock         int                 `gorm:"column:stock;not null;default:0"`
	Status        enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	Variants      []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
