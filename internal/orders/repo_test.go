package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
	"github.com/minsukoh/vesture-backend/pkg/enums"
	"github.com/minsukoh/vesture-backend/pkg/pagination"
	"github.com/minsukoh/vesture-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:orders_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_uid TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'paid',
  gateway_ref TEXT,
  ship_receiver_name TEXT NOT NULL DEFAULT '',
  ship_receiver_phone TEXT NOT NULL DEFAULT '',
  ship_zipcode TEXT NOT NULL DEFAULT '',
  ship_address1 TEXT NOT NULL DEFAULT '',
  ship_address2 TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  opt_color TEXT NOT NULL DEFAULT '',
  opt_color_name TEXT NOT NULL DEFAULT '',
  opt_size TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testAddress() types.ShippingAddress {
	return types.ShippingAddress{
		ReceiverName:  "Minsu Koh",
		ReceiverPhone: "010-1234-5678",
		Zipcode:       "06236",
		Address1:      "123 Teheran-ro",
		Address2:      "Apt 501",
	}
}

func newOrder(userID uuid.UUID, orderUID string, amount int, createdAt time.Time) *models.Order {
	return &models.Order{
		OrderUID:        orderUID,
		UserID:          userID,
		Amount:          amount,
		Status:          enums.OrderStatusPaid,
		ShippingAddress: testAddress(),
		CreatedAt:       createdAt,
		Items: []models.OrderItem{
			{
				ProductID:   uuid.New(),
				ProductName: "Wool Coat",
				OptColor:    "black",
				OptSize:     "M",
				Quantity:    1,
				UnitPrice:   amount,
			},
		},
	}
}

func TestRepositoryCreate_PersistsOrderAndItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(uuid.New(), "ORD-20260830-101500-abc123", 52000, time.Now().UTC())
	order.Items = append(order.Items, models.OrderItem{
		ProductID:   uuid.New(),
		ProductName: "Silk Scarf",
		OptColor:    "ivory",
		OptSize:     "",
		Quantity:    2,
		UnitPrice:   9000,
	})

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", created.ID).Find(&items).Error)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, created.ID, item.OrderID)
		require.NotEqual(t, uuid.Nil, item.ID)
	}
}

func TestRepositoryCreate_RejectsDuplicateOrderUID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder(uuid.New(), "ORD-20260830-101500-dup001", 10000, time.Now().UTC()))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newOrder(uuid.New(), "ORD-20260830-101500-dup001", 20000, time.Now().UTC()))
	require.Error(t, err)
}

func TestRepositoryFindByOrderUID_PreloadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.Create(ctx, newOrder(userID, "ORD-20260830-110000-find01", 33000, time.Now().UTC()))
	require.NoError(t, err)

	found, err := repo.FindByOrderUID(ctx, "ORD-20260830-110000-find01")
	require.NoError(t, err)
	require.Equal(t, userID, found.UserID)
	require.Len(t, found.Items, 1)
	require.Equal(t, "Wool Coat", found.Items[0].ProductName)

	_, err = repo.FindByOrderUID(ctx, "ORD-20260830-110000-miss99")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUser_PaginatesNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		order := newOrder(userID, "ORD-20260830-12000"+string(rune('0'+i))+"-page0"+string(rune('0'+i)), 10000*(i+1), base.Add(time.Duration(i)*time.Minute))
		_, err := repo.Create(ctx, order)
		require.NoError(t, err)
	}
	// Another user's order must never leak into the page.
	_, err := repo.Create(ctx, newOrder(uuid.New(), "ORD-20260830-120009-other1", 5000, base))
	require.NoError(t, err)

	first, next, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, next)
	require.Equal(t, 30000, first[0].Amount)
	require.Equal(t, 20000, first[1].Amount)

	second, last, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Empty(t, last)
	require.Equal(t, 10000, second[0].Amount)
}
