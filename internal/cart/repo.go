package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
)

// Repository defines persistence operations for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	LockCart(ctx context.Context, cartID uuid.UUID) error
	FindLine(ctx context.Context, cartID, productID uuid.UUID, color, size string) (*models.CartLine, error)
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartLine, error)
	CreateLine(ctx context.Context, line *models.CartLine) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, qty int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteByOption(ctx context.Context, cartID, productID uuid.UUID, color, size string) (int64, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// The id is assigned here so follow-up lookups work even on databases
	// without a uuid default.
	cart = models.Cart{ID: uuid.New(), UserID: userID}
	if createErr := r.db.WithContext(ctx).Create(&cart).Error; createErr != nil {
		// A concurrent request may have created it between the read and the
		// insert; the unique index on user_id makes the reread safe.
		var existing models.Cart
		if rereadErr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; rereadErr == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &cart, nil
}

// LockCart takes a row lock on the cart so the check-then-insert span for a
// line runs exclusively. No-op outside a transaction.
func (r *repository) LockCart(ctx context.Context, cartID uuid.UUID) error {
	var cart models.Cart
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&cart, "id = ?", cartID).Error
}

func (r *repository) FindLine(ctx context.Context, cartID, productID uuid.UUID, color, size string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND opt_color = ? AND opt_size = ?", cartID, productID, color, size).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", lineID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) CreateLine(ctx context.Context, line *models.CartLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		UpdateColumn("quantity", qty).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ?", lineID).Error
}

func (r *repository) DeleteByOption(ctx context.Context, cartID, productID uuid.UUID, color, size string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND opt_color = ? AND opt_size = ?", cartID, productID, color, size).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
