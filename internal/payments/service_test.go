package payments

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/internal/catalog"
	"github.com/minsukoh/vesture-backend/internal/orders"
	"github.com/minsukoh/vesture-backend/pkg/config"
	"github.com/minsukoh/vesture-backend/pkg/db/models"
	"github.com/minsukoh/vesture-backend/pkg/enums"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
	"github.com/minsukoh/vesture-backend/pkg/logger"
	"github.com/minsukoh/vesture-backend/pkg/metrics"
	"github.com/minsukoh/vesture-backend/pkg/pagination"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

type recordingOrderService struct {
	lastInput orders.CreateOrderInput
	summary   *orders.Summary
	err       error
}

func (s *recordingOrderService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.Summary, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	if s.summary != nil {
		return s.summary, nil
	}
	return &orders.Summary{
		OrderUID: input.OrderUID,
		Amount:   *input.VerifiedAmount,
		Status:   enums.OrderStatusPaid,
	}, nil
}

func (s *recordingOrderService) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.List, error) {
	return &orders.List{}, nil
}

func (s *recordingOrderService) FindByOrderUID(ctx context.Context, userID uuid.UUID, orderUID string) (*orders.Summary, error) {
	return nil, gorm.ErrRecordNotFound
}

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:payments_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  description TEXT,
  thumbnail_url TEXT,
  price INTEGER NOT NULL,
  discount_price INTEGER,
  discount_rate INTEGER,
  stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newPaymentsService(t *testing.T, db *gorm.DB, orderService orders.Service) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "payments-test"})
	svc, err := NewService(
		catalog.NewRepository(db),
		orderService,
		config.CheckoutConfig{ShippingFee: 3000},
		metrics.NewSettlementMetrics(nil),
		logg,
	)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, price int, discountPrice *int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Linen Shirt",
		Brand:         "vesture",
		Price:         price,
		DiscountPrice: discountPrice,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func testAddress() types.ShippingAddress {
	return types.ShippingAddress{
		ReceiverName:  "Minsu Koh",
		ReceiverPhone: "010-1234-5678",
		Zipcode:       "06236",
		Address1:      "123 Teheran-ro",
	}
}

func TestNewMerchantUID_Format(t *testing.T) {
	now := time.Date(2026, 8, 30, 13, 45, 0, 0, time.UTC)
	uid := NewMerchantUID(now)
	require.Regexp(t, regexp.MustCompile(`^ORD-20260830-134500-[0-9a-f]{6}$`), uid)
	require.NotEqual(t, uid, NewMerchantUID(now))
}

func TestReady_QuotesAppliedPricePlusShipping(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db, &recordingOrderService{})
	ctx := context.Background()

	discount := 42000
	coat := seedProduct(t, db, 58000, &discount)
	shirt := seedProduct(t, db, 15000, nil)

	quote, err := svc.Ready(ctx, uuid.New(), []orders.ItemInput{
		{ProductID: coat.ID, Quantity: 2},
		{ProductID: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 2*42000+15000, quote.ItemsAmount)
	require.Equal(t, 3000, quote.ShippingFee)
	require.Equal(t, quote.ItemsAmount+3000, quote.Amount)
	require.NotEmpty(t, quote.MerchantUID)
}

func TestReady_FloorsQuantityToOne(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db, &recordingOrderService{})
	ctx := context.Background()

	shirt := seedProduct(t, db, 15000, nil)

	quote, err := svc.Ready(ctx, uuid.New(), []orders.ItemInput{{ProductID: shirt.ID, Quantity: 0}})
	require.NoError(t, err)
	require.Equal(t, 15000, quote.ItemsAmount)
}

func TestReady_RejectsNonPositiveAmount(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db, &recordingOrderService{})
	ctx := context.Background()

	free := seedProduct(t, db, 0, nil)

	_, err := svc.Ready(ctx, uuid.New(), []orders.ItemInput{{ProductID: free.ID, Quantity: 1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInvalidAmount, typed.Code())
}

func TestReady_UnknownProductRejected(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db, &recordingOrderService{})
	ctx := context.Background()

	_, err := svc.Ready(ctx, uuid.New(), []orders.ItemInput{{ProductID: uuid.New(), Quantity: 1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVerifyAndProcess_ServerSumIsAuthoritative(t *testing.T) {
	db := setupPaymentsTestDB(t)
	recorder := &recordingOrderService{}
	svc := newPaymentsService(t, db, recorder)
	ctx := context.Background()
	userID := uuid.New()

	shirt := seedProduct(t, db, 15000, nil)

	// Client reports a tampered amount; settlement still uses the server sum.
	summary, err := svc.VerifyAndProcess(ctx, VerifyInput{
		UserID:          userID,
		MerchantUID:     "ORD-20260830-140000-abc123",
		GatewayRef:      "imp_5550001234",
		ClientAmount:    100,
		Items:           []orders.ItemInput{{ProductID: shirt.ID, Quantity: 2}},
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)
	require.Equal(t, 33000, summary.Amount)

	require.NotNil(t, recorder.lastInput.VerifiedAmount)
	require.Equal(t, 33000, *recorder.lastInput.VerifiedAmount)
	require.Equal(t, "ORD-20260830-140000-abc123", recorder.lastInput.OrderUID)
	require.NotNil(t, recorder.lastInput.GatewayRef)
	require.Equal(t, "imp_5550001234", *recorder.lastInput.GatewayRef)
}

func TestVerifyAndProcess_MatchesReadyQuote(t *testing.T) {
	db := setupPaymentsTestDB(t)
	recorder := &recordingOrderService{}
	svc := newPaymentsService(t, db, recorder)
	ctx := context.Background()
	userID := uuid.New()

	discount := 9900
	shirt := seedProduct(t, db, 15000, &discount)
	items := []orders.ItemInput{{ProductID: shirt.ID, Quantity: 3}}

	quote, err := svc.Ready(ctx, userID, items)
	require.NoError(t, err)

	_, err = svc.VerifyAndProcess(ctx, VerifyInput{
		UserID:          userID,
		MerchantUID:     quote.MerchantUID,
		GatewayRef:      "imp_5550005678",
		ClientAmount:    quote.Amount,
		Items:           items,
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)
	require.Equal(t, quote.Amount, *recorder.lastInput.VerifiedAmount)
}

func TestVerifyAndProcess_RequiresMerchantUID(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db, &recordingOrderService{})
	ctx := context.Background()

	shirt := seedProduct(t, db, 15000, nil)

	_, err := svc.VerifyAndProcess(ctx, VerifyInput{
		UserID:          uuid.New(),
		Items:           []orders.ItemInput{{ProductID: shirt.ID, Quantity: 1}},
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
