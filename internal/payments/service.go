package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/internal/catalog"
	"github.com/minsukoh/vesture-backend/internal/orders"
	"github.com/minsukoh/vesture-backend/pkg/config"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
	"github.com/minsukoh/vesture-backend/pkg/logger"
	"github.com/minsukoh/vesture-backend/pkg/metrics"
)

// Service quotes checkout amounts and reconciles gateway confirmations into
// settled orders.
type Service interface {
	Ready(ctx context.Context, userID uuid.UUID, items []orders.ItemInput) (*Quote, error)
	VerifyAndProcess(ctx context.Context, input VerifyInput) (*orders.Summary, error)
}

type service struct {
	catalog catalog.Repository
	orders  orders.Service
	cfg     config.CheckoutConfig
	metrics *metrics.SettlementMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the payment reconciler.
func NewService(
	catalogRepo catalog.Repository,
	orderService orders.Service,
	cfg config.CheckoutConfig,
	settlementMetrics *metrics.SettlementMetrics,
	logg *logger.Logger,
) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orderService == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog: catalogRepo,
		orders:  orderService,
		cfg:     cfg,
		metrics: settlementMetrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Ready quotes the charge for the requested items. The quote is pure: nothing
// is reserved or persisted, and the same sum is recomputed at settlement.
func (s *service) Ready(ctx context.Context, userID uuid.UUID, items []orders.ItemInput) (*Quote, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	itemsSum, err := s.itemsSum(ctx, items)
	if err != nil {
		return nil, err
	}
	if itemsSum <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "quoted amount must be positive").
			WithDetails(map[string]any{"items_amount": itemsSum})
	}

	return &Quote{
		MerchantUID: NewMerchantUID(s.now()),
		Amount:      itemsSum + s.cfg.ShippingFee,
		ItemsAmount: itemsSum,
		ShippingFee: s.cfg.ShippingFee,
	}, nil
}

// VerifyAndProcess recomputes the charge from the catalog and settles the
// order with that server sum. The client-reported amount is reconciled for
// audit only; a mismatch is logged and counted but never blocks settlement.
func (s *service) VerifyAndProcess(ctx context.Context, input VerifyInput) (*orders.Summary, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.MerchantUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant uid required")
	}

	itemsSum, err := s.itemsSum(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	serverAmount := itemsSum + s.cfg.ShippingFee
	if itemsSum <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "settlement amount must be positive").
			WithDetails(map[string]any{"items_amount": itemsSum})
	}

	if input.ClientAmount != serverAmount {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"merchant_uid":  input.MerchantUID,
			"client_amount": input.ClientAmount,
			"server_amount": serverAmount,
		})
		s.logg.Warn(logCtx, "client amount differs from server quote, settling with server amount")
		s.metrics.IncAmountMismatch()
	}

	var gatewayRef *string
	if input.GatewayRef != "" {
		gatewayRef = &input.GatewayRef
	}

	return s.orders.CreateOrder(ctx, orders.CreateOrderInput{
		UserID:          input.UserID,
		OrderUID:        input.MerchantUID,
		GatewayRef:      gatewayRef,
		Items:           input.Items,
		VerifiedAmount:  &serverAmount,
		ShippingAddress: input.ShippingAddress,
	})
}

// itemsSum prices the requested items off the catalog using the same applied
// price rule the cart and settlement use.
func (s *service) itemsSum(ctx context.Context, items []orders.ItemInput) (int, error) {
	if len(items) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}

	sum := 0
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		product, err := s.catalog.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": item.ProductID})
			}
			return 0, err
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		sum += catalog.AppliedPrice(product) * qty
	}
	return sum, nil
}
