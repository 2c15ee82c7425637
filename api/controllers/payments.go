package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/api/responses"
	"github.com/minsukoh/vesture-backend/api/validators"
	ordersvc "github.com/minsukoh/vesture-backend/internal/orders"
	paymentsvc "github.com/minsukoh/vesture-backend/internal/payments"
	"github.com/minsukoh/vesture-backend/pkg/logger"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

type paymentItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
	Color     string    `json:"color" validate:"max=64"`
	Size      string    `json:"size" validate:"max=64"`
}

type paymentReadyRequest struct {
	Items []paymentItemRequest `json:"items" validate:"required,min=1,dive"`
}

type paymentCompleteRequest struct {
	MerchantUID     string               `json:"merchant_uid" validate:"required"`
	GatewayRef      string               `json:"gateway_ref"`
	Amount          int                  `json:"amount"`
	Items           []paymentItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress shippingAddressDTO   `json:"shipping_address" validate:"required"`
}

type shippingAddressDTO struct {
	ReceiverName  string `json:"receiver_name" validate:"required,max=120"`
	ReceiverPhone string `json:"receiver_phone" validate:"required,max=32"`
	Zipcode       string `json:"zipcode" validate:"required,max=16"`
	Address1      string `json:"address1" validate:"required,max=255"`
	Address2      string `json:"address2" validate:"max=255"`
}

// PaymentReady quotes the authoritative charge for the requested items.
func PaymentReady(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentReadyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Ready(r.Context(), userID, toItemInputs(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// PaymentComplete reconciles a gateway confirmation and settles the order.
func PaymentComplete(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentCompleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.VerifyAndProcess(r.Context(), paymentsvc.VerifyInput{
			UserID:       userID,
			MerchantUID:  validators.SanitizeString(payload.MerchantUID, 64),
			GatewayRef:   validators.SanitizeString(payload.GatewayRef, 64),
			ClientAmount: payload.Amount,
			Items:        toItemInputs(payload.Items),
			ShippingAddress: types.ShippingAddress{
				ReceiverName:  payload.ShippingAddress.ReceiverName,
				ReceiverPhone: payload.ShippingAddress.ReceiverPhone,
				Zipcode:       payload.ShippingAddress.Zipcode,
				Address1:      payload.ShippingAddress.Address1,
				Address2:      payload.ShippingAddress.Address2,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

func toItemInputs(items []paymentItemRequest) []ordersvc.ItemInput {
	inputs := make([]ordersvc.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ordersvc.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
		})
	}
	return inputs
}
