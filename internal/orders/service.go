package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/internal/cart"
	"github.com/minsukoh/vesture-backend/internal/catalog"
	"github.com/minsukoh/vesture-backend/internal/inventory"
	"github.com/minsukoh/vesture-backend/pkg/db"
	"github.com/minsukoh/vesture-backend/pkg/db/models"
	"github.com/minsukoh/vesture-backend/pkg/enums"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
	"github.com/minsukoh/vesture-backend/pkg/logger"
	"github.com/minsukoh/vesture-backend/pkg/metrics"
	"github.com/minsukoh/vesture-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartCleaner removes purchased option tuples from the buyer's cart after
// settlement. Failures here must never affect the committed order.
type CartCleaner interface {
	RemoveByOptions(ctx context.Context, userID uuid.UUID, keys []cart.OptionKey) error
}

// Service settles carts into immutable orders and reads them back.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Summary, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	FindByOrderUID(ctx context.Context, userID uuid.UUID, orderUID string) (*Summary, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	stock   inventory.Store
	cart    CartCleaner
	tx      txRunner
	metrics *metrics.SettlementMetrics
	logg    *logger.Logger
}

// NewService builds an orders service. The cart cleaner is optional; when nil
// purchased lines simply stay in the cart.
func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	stock inventory.Store,
	cartCleaner CartCleaner,
	tx txRunner,
	settlementMetrics *metrics.SettlementMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		stock:   stock,
		cart:    cartCleaner,
		tx:      tx,
		metrics: settlementMetrics,
		logg:    logg,
	}, nil
}

// CreateOrder settles every requested item inside one transaction. Any stock
// shortfall or missing option aborts the whole order and leaves inventory
// untouched.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Summary, error) {
	started := time.Now()

	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order uid required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	address := input.ShippingAddress.Normalized()
	if !address.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete")
	}

	order := &models.Order{
		OrderUID:        input.OrderUID,
		UserID:          input.UserID,
		Status:          enums.OrderStatusPaid,
		GatewayRef:      input.GatewayRef,
		ShippingAddress: address,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)

		itemsSum := 0
		for _, item := range input.Items {
			if item.ProductID == uuid.Nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
			}

			product, findErr := catalogRepo.FindProduct(ctx, item.ProductID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": item.ProductID})
				}
				return findErr
			}

			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}

			opt := inventory.NormalizeOption(item.Color, item.Size)
			variant, decErr := s.stock.DecrementForSale(ctx, tx, product.ID, opt, qty)
			if decErr != nil {
				return decErr
			}

			unitPrice := catalog.AppliedPrice(product)
			itemsSum += unitPrice * qty

			order.Items = append(order.Items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				OptColor:     variant.Color,
				OptColorName: variant.ColorName,
				OptSize:      variant.Size,
				Quantity:     qty,
				UnitPrice:    unitPrice,
			})
		}

		order.Amount = itemsSum
		if input.VerifiedAmount != nil {
			order.Amount = *input.VerifiedAmount
		}

		created, createErr := s.repo.WithTx(tx).Create(ctx, order)
		if createErr != nil {
			if db.IsUniqueViolation(createErr, "order_uid") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order uid already settled").
					WithDetails(map[string]any{"order_uid": input.OrderUID})
			}
			return createErr
		}
		order = created
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	s.metrics.IncSettled(order.Amount)
	s.metrics.ObserveDuration("create_order", time.Since(started))
	s.cleanupCart(ctx, input)

	return toSummary(order), nil
}

// cleanupCart removes the purchased option tuples from the buyer's cart. The
// order is already committed, so errors are logged and counted but swallowed.
func (s *service) cleanupCart(ctx context.Context, input CreateOrderInput) {
	if s.cart == nil {
		return
	}

	keys := make([]cart.OptionKey, 0, len(input.Items))
	for _, item := range input.Items {
		keys = append(keys, cart.OptionKey{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	if err := s.cart.RemoveByOptions(ctx, input.UserID, keys); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_uid": input.OrderUID,
			"user_id":   input.UserID.String(),
		})
		s.logg.Warn(ctx, "cart cleanup after settlement failed: "+err.Error())
		s.metrics.IncCartCleanup("error")
		return
	}
	s.metrics.IncCartCleanup("ok")
}

func (s *service) recordFailure(err error) {
	reason := "internal"
	if typed := pkgerrors.As(err); typed != nil {
		reason = string(typed.Code())
	}
	s.metrics.IncFailure(reason)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	records, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	list := &List{Orders: make([]Summary, 0, len(records)), NextCursor: next}
	for i := range records {
		list.Orders = append(list.Orders, *toSummary(&records[i]))
	}
	return list, nil
}

// FindByOrderUID loads one order and hides other users' orders behind a not
// found error.
func (s *service) FindByOrderUID(ctx context.Context, userID uuid.UUID, orderUID string) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order uid required")
	}

	order, err := s.repo.FindByOrderUID(ctx, orderUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toSummary(order), nil
}

func toSummary(order *models.Order) *Summary {
	summary := &Summary{
		OrderUID:        order.OrderUID,
		Amount:          order.Amount,
		Status:          order.Status,
		GatewayRef:      order.GatewayRef,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]ItemSummary, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.Items {
		summary.Items = append(summary.Items, ItemSummary{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Color:       item.OptColor,
			ColorName:   item.OptColorName,
			Size:        item.OptSize,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return summary
}
