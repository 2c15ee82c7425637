package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
)

// Repository defines persistence operations for per-variant stock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Variant lookups match color and size case-insensitively.
	FindVariant(ctx context.Context, productID uuid.UUID, color, size string) (*models.ProductVariant, error)
	FindVariantByColor(ctx context.Context, productID uuid.UUID, color string) (*models.ProductVariant, error)
	Decrement(ctx context.Context, variantID uuid.UUID, qty int) (bool, error)
	RecomputeProductStock(ctx context.Context, productID uuid.UUID) error
	CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVariant(ctx context.Context, productID uuid.UUID, color, size string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND LOWER(color) = LOWER(?) AND LOWER(size) = LOWER(?)", productID, color, size).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) FindVariantByColor(ctx context.Context, productID uuid.UUID, color string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND LOWER(color) = LOWER(?)", productID, color).
		Order("size ASC").
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// Decrement atomically reduces a variant's stock, refusing to go negative.
// The boolean reports whether the row was updated.
func (r *repository) Decrement(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return true, nil
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE product_variants
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, variantID, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecomputeProductStock refreshes the product-level aggregate from the sum of
// its variant stocks.
func (r *repository) RecomputeProductStock(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = COALESCE((
			SELECT SUM(stock) FROM product_variants WHERE product_id = ?
		), 0),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, productID, productID).Error
}

func (r *repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}
