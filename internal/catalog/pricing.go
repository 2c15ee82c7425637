package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
)

// AppliedPrice returns the unit price a buyer actually pays for the product.
// A positive discount price wins over the list price; the result never goes
// below zero.
func AppliedPrice(p *models.Product) int {
	if p == nil {
		return 0
	}
	price := p.Price
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		price = *p.DiscountPrice
	}
	if price < 0 {
		return 0
	}
	return price
}

// NormalizeDiscount reconciles the discount fields on a product definition so
// that rate and price always agree. The rate takes priority when both are
// supplied; whichever field is present derives the other. Rates are clamped
// to [0, 100] and discount prices to [0, list price], with half-up rounding
// on derived values.
func NormalizeDiscount(p *models.Product) {
	if p == nil {
		return
	}

	listPrice := p.Price
	if listPrice < 0 {
		listPrice = 0
		p.Price = 0
	}

	switch {
	case p.DiscountRate != nil:
		rate := clampInt(*p.DiscountRate, 0, 100)
		derived := decimal.NewFromInt(int64(listPrice)).
			Mul(decimal.NewFromInt(int64(100 - rate))).
			Div(decimal.NewFromInt(100)).
			Round(0)
		price := clampInt(int(derived.IntPart()), 0, listPrice)
		p.DiscountRate = &rate
		p.DiscountPrice = &price

	case p.DiscountPrice != nil:
		price := clampInt(*p.DiscountPrice, 0, listPrice)
		rate := 0
		if listPrice > 0 {
			derived := decimal.NewFromInt(int64(listPrice - price)).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(listPrice))).
				Round(0)
			rate = clampInt(int(derived.IntPart()), 0, 100)
		}
		p.DiscountPrice = &price
		p.DiscountRate = &rate
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
