package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/pkg/db/models"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
)

// Option is a normalized color/size pair. Empty strings mean the option is
// absent.
type Option struct {
	Color string
	Size  string
}

// NormalizeOption trims both values so lookups and uniqueness checks agree on
// a single storage form.
func NormalizeOption(color, size string) Option {
	return Option{
		Color: strings.TrimSpace(color),
		Size:  strings.TrimSpace(size),
	}
}

// Label renders the option for error messages and logs.
func (o Option) Label() string {
	switch {
	case o.Color != "" && o.Size != "":
		return fmt.Sprintf("%s/%s", o.Color, o.Size)
	case o.Color != "":
		return o.Color
	case o.Size != "":
		return o.Size
	default:
		return "(none)"
	}
}

// Store resolves per-variant stock and applies settlement decrements.
type Store interface {
	// Resolve returns the variant matching the option, or (nil, nil) when the
	// stock level cannot be determined for the option.
	Resolve(ctx context.Context, productID uuid.UUID, opt Option) (*models.ProductVariant, error)
	// ResolveStock reports the known stock level; known is false when no
	// variant row answers for the option.
	ResolveStock(ctx context.Context, productID uuid.UUID, opt Option) (stock int, known bool, err error)
	// DecrementForSale atomically consumes qty units from the variant backing
	// the option inside tx and refreshes the product aggregate. Returns the
	// consumed variant so callers can snapshot its display fields.
	DecrementForSale(ctx context.Context, tx *gorm.DB, productID uuid.UUID, opt Option, qty int) (*models.ProductVariant, error)
}

type lookupStrategy func(ctx context.Context, repo Repository, productID uuid.UUID, opt Option) (*models.ProductVariant, error)

type store struct {
	repo       Repository
	strategies []lookupStrategy
}

// NewStore builds the variant stock store over the provided repository.
func NewStore(repo Repository) (Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &store{
		repo: repo,
		strategies: []lookupStrategy{
			lookupExact,
			lookupColorOnly,
		},
	}, nil
}

func lookupExact(ctx context.Context, repo Repository, productID uuid.UUID, opt Option) (*models.ProductVariant, error) {
	return repo.FindVariant(ctx, productID, opt.Color, opt.Size)
}

func lookupColorOnly(ctx context.Context, repo Repository, productID uuid.UUID, opt Option) (*models.ProductVariant, error) {
	return repo.FindVariantByColor(ctx, productID, opt.Color)
}

func (s *store) Resolve(ctx context.Context, productID uuid.UUID, opt Option) (*models.ProductVariant, error) {
	// Options without a color cannot be matched against variant rows.
	if opt.Color == "" {
		return nil, nil
	}
	return resolveWith(ctx, s.repo, productID, opt, s.strategies)
}

// saleStrategies narrows the lookup for settlement: a requested size must
// match a variant row exactly, and the color-only fallback applies only when
// no size was given. Display lookups keep the unconditional fallback.
func (s *store) saleStrategies(opt Option) []lookupStrategy {
	if opt.Size != "" {
		return []lookupStrategy{lookupExact}
	}
	return s.strategies
}

func resolveWith(ctx context.Context, repo Repository, productID uuid.UUID, opt Option, strategies []lookupStrategy) (*models.ProductVariant, error) {
	for _, lookup := range strategies {
		variant, err := lookup(ctx, repo, productID, opt)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		return variant, nil
	}
	return nil, nil
}

func (s *store) ResolveStock(ctx context.Context, productID uuid.UUID, opt Option) (int, bool, error) {
	variant, err := s.Resolve(ctx, productID, opt)
	if err != nil {
		return 0, false, err
	}
	if variant == nil {
		return 0, false, nil
	}
	return variant.Stock, true, nil
}

func (s *store) DecrementForSale(ctx context.Context, tx *gorm.DB, productID uuid.UUID, opt Option, qty int) (*models.ProductVariant, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}

	repo := s.repo.WithTx(tx)
	if opt.Color == "" {
		return nil, pkgerrors.New(pkgerrors.CodeOptionNotFound, "product option required").
			WithDetails(map[string]any{"product_id": productID, "option": opt.Label()})
	}

	variant, err := resolveWith(ctx, repo, productID, opt, s.saleStrategies(opt))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve variant")
	}
	if variant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeOptionNotFound, "product option not found").
			WithDetails(map[string]any{"product_id": productID, "option": opt.Label()})
	}
	if qty <= 0 {
		return variant, nil
	}

	ok, err := repo.Decrement(ctx, variant.ID, qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for option").
			WithDetails(map[string]any{
				"product_id": productID,
				"option":     opt.Label(),
				"requested":  qty,
				"available":  variant.Stock,
			})
	}

	if err := repo.RecomputeProductStock(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute product stock")
	}
	variant.Stock -= qty
	return variant, nil
}
