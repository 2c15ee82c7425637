package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/pkg/enums"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

// Order is the settled purchase record. Amount is the final charged total in
// KRW including the shipping fee; OrderUID is the merchant-facing identifier
// shared with the payment gateway.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderUID        string                `gorm:"column:order_uid;not null;uniqueIndex"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Amount          int                   `gorm:"column:amount;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'paid'"`
	GatewayRef      *string               `gorm:"column:gateway_ref"`
	ShippingAddress types.ShippingAddress `gorm:"embedded;embeddedPrefix:ship_"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
