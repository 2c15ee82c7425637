package catalog

import (
	"testing"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
)

func intPtr(v int) *int { return &v }

func TestAppliedPrice(t *testing.T) {
	cases := []struct {
		name    string
		product *models.Product
		want    int
	}{
		{"nil product", nil, 0},
		{"no discount", &models.Product{Price: 10000}, 10000},
		{"positive discount wins", &models.Product{Price: 10000, DiscountPrice: intPtr(8000)}, 8000},
		{"zero discount ignored", &models.Product{Price: 10000, DiscountPrice: intPtr(0)}, 10000},
		{"negative price floors to zero", &models.Product{Price: -500}, 0},
		{"negative discount ignored", &models.Product{Price: 10000, DiscountPrice: intPtr(-100)}, 10000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AppliedPrice(tc.product); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestNormalizeDiscount_RateDerivesPrice(t *testing.T) {
	p := &models.Product{Price: 10000, DiscountRate: intPtr(30)}
	NormalizeDiscount(p)

	if p.DiscountRate == nil || *p.DiscountRate != 30 {
		t.Fatalf("expected rate 30, got %v", p.DiscountRate)
	}
	if p.DiscountPrice == nil || *p.DiscountPrice != 7000 {
		t.Fatalf("expected discount price 7000, got %v", p.DiscountPrice)
	}
}

func TestNormalizeDiscount_RateRoundsHalfUp(t *testing.T) {
	p := &models.Product{Price: 999, DiscountRate: intPtr(33)}
	NormalizeDiscount(p)

	// 999 * 67 / 100 = 669.33 rounds to 669
	if p.DiscountPrice == nil || *p.DiscountPrice != 669 {
		t.Fatalf("expected 669, got %v", p.DiscountPrice)
	}
}

func TestNormalizeDiscount_RateClamped(t *testing.T) {
	p := &models.Product{Price: 10000, DiscountRate: intPtr(150)}
	NormalizeDiscount(p)

	if *p.DiscountRate != 100 {
		t.Fatalf("expected clamped rate 100, got %d", *p.DiscountRate)
	}
	if *p.DiscountPrice != 0 {
		t.Fatalf("expected discount price 0, got %d", *p.DiscountPrice)
	}

	p = &models.Product{Price: 10000, DiscountRate: intPtr(-20)}
	NormalizeDiscount(p)
	if *p.DiscountRate != 0 {
		t.Fatalf("expected clamped rate 0, got %d", *p.DiscountRate)
	}
	if *p.DiscountPrice != 10000 {
		t.Fatalf("expected discount price equal to list, got %d", *p.DiscountPrice)
	}
}

func TestNormalizeDiscount_PriceDerivesRate(t *testing.T) {
	p := &models.Product{Price: 10000, DiscountPrice: intPtr(7500)}
	NormalizeDiscount(p)

	if p.DiscountRate == nil || *p.DiscountRate != 25 {
		t.Fatalf("expected derived rate 25, got %v", p.DiscountRate)
	}
	if *p.DiscountPrice != 7500 {
		t.Fatalf("discount price should stay 7500, got %d", *p.DiscountPrice)
	}
}

func TestNormalizeDiscount_PriceClampedToList(t *testing.T) {
	p := &models.Product{Price: 5000, DiscountPrice: intPtr(9000)}
	NormalizeDiscount(p)

	if *p.DiscountPrice != 5000 {
		t.Fatalf("expected clamp to list price, got %d", *p.DiscountPrice)
	}
	if *p.DiscountRate != 0 {
		t.Fatalf("expected rate 0, got %d", *p.DiscountRate)
	}
}

func TestNormalizeDiscount_RateWinsOverPrice(t *testing.T) {
	p := &models.Product{Price: 10000, DiscountPrice: intPtr(1234), DiscountRate: intPtr(50)}
	NormalizeDiscount(p)

	if *p.DiscountPrice != 5000 {
		t.Fatalf("rate should derive price 5000, got %d", *p.DiscountPrice)
	}
}

func TestNormalizeDiscount_NoDiscountFields(t *testing.T) {
	p := &models.Product{Price: 10000}
	NormalizeDiscount(p)

	if p.DiscountPrice != nil || p.DiscountRate != nil {
		t.Fatal("expected discount fields to stay nil")
	}
}
