package cart

import (
	"github.com/google/uuid"

	"github.com/minsukoh/vesture-backend/internal/inventory"
)

// AddInput carries one add-to-cart request.
type AddInput struct {
	ProductID uuid.UUID
	Quantity  int
	Color     string
	Size      string
}

// OptionKey identifies one (product, color, size) tuple for option-scoped
// removal.
type OptionKey struct {
	ProductID uuid.UUID
	Color     string
	Size      string
}

// Normalized returns the option key with trimmed option values.
func (k OptionKey) Normalized() OptionKey {
	opt := inventory.NormalizeOption(k.Color, k.Size)
	return OptionKey{ProductID: k.ProductID, Color: opt.Color, Size: opt.Size}
}

// LineView is one cart line joined with live catalog and stock data.
type LineView struct {
	LineID         uuid.UUID `json:"line_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand,omitempty"`
	ThumbnailURL   *string   `json:"thumbnail_url,omitempty"`
	UnitPrice      int       `json:"unit_price"`
	OriginalPrice  int       `json:"original_price"`
	DiscountPrice  *int      `json:"discount_price,omitempty"`
	Quantity       int       `json:"quantity"`
	Color          string    `json:"color,omitempty"`
	ColorName      string    `json:"color_name,omitempty"`
	Size           string    `json:"size,omitempty"`
	AvailableStock *int      `json:"available_stock,omitempty"`
	SoldOut        bool      `json:"sold_out"`
}

// ListView wraps the cart lines plus the recomputed totals.
type ListView struct {
	Lines      []LineView `json:"lines"`
	TotalItems int        `json:"total_items"`
	TotalPrice int        `json:"total_price"`
}
