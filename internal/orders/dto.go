package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/pkg/enums"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

// ItemInput is one purchased line in a settlement request.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Color     string
	Size      string
}

// CreateOrderInput carries everything needed to settle one order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	OrderUID        string
	GatewayRef      *string
	Items           []ItemInput
	VerifiedAmount  *int
	ShippingAddress types.ShippingAddress
}

// ItemSummary is the frozen view of one purchased line.
type ItemSummary struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Color       string    `json:"color,omitempty"`
	ColorName   string    `json:"color_name,omitempty"`
	Size        string    `json:"size,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int       `json:"unit_price"`
}

// Summary is the order view returned from settlement and reads.
type Summary struct {
	OrderUID        string                `json:"order_uid"`
	Amount          int                   `json:"amount"`
	Status          enums.OrderStatus     `json:"status"`
	GatewayRef      *string               `json:"gateway_ref,omitempty"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Items           []ItemSummary         `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

// List wraps the paginated order summaries plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
