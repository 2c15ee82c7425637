package payments

import (
	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/internal/orders"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

// Quote is the server-side price for a pending checkout. MerchantUID is
// handed to the payment gateway and comes back on the confirmation callback.
type Quote struct {
	MerchantUID string `json:"merchant_uid"`
	Amount      int    `json:"amount"`
	ItemsAmount int    `json:"items_amount"`
	ShippingFee int    `json:"shipping_fee"`
}

// VerifyInput carries the gateway confirmation callback for one charge.
type VerifyInput struct {
	UserID          uuid.UUID
	MerchantUID     string
	GatewayRef      string
	ClientAmount    int
	Items           []orders.ItemInput
	ShippingAddress types.ShippingAddress
}
