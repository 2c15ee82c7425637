package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/minsukoh/vesture-backend/internal/catalog"
	"github.com/minsukoh/vesture-backend/internal/inventory"
	"github.com/minsukoh/vesture-backend/pkg/db"
	"github.com/minsukoh/vesture-backend/pkg/db/models"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
	"github.com/minsukoh/vesture-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the cart operations exposed to controllers and settlement.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddInput) error
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
	RemoveByOptions(ctx context.Context, userID uuid.UUID, keys []OptionKey) error
	List(ctx context.Context, userID uuid.UUID) (*ListView, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	stock   inventory.Store
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, catalogRepo catalog.Repository, stock inventory.Store, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
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
		tx:      tx,
		logg:    logg,
	}, nil
}

// Add inserts a cart line for the normalized option, or silently succeeds when
// the line already exists. Repeat adds never merge quantities.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	opt := inventory.NormalizeOption(input.Color, input.Size)

	product, err := s.catalog.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindOrCreateCart(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart")
		}
		if err := repo.LockCart(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		_, err = repo.FindLine(ctx, cart.ID, product.ID, opt.Color, opt.Size)
		if err == nil {
			// Existing line for this option: deliberate no-op, not a merge.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing line")
		}

		qty, err := s.capQuantity(ctx, product.ID, opt, input.Quantity)
		if err != nil {
			return err
		}

		line := &models.CartLine{
			CartID:    cart.ID,
			ProductID: product.ID,
			OptColor:  opt.Color,
			OptSize:   opt.Size,
			Quantity:  qty,
		}
		if err := repo.CreateLine(ctx, line); err != nil {
			if db.IsUniqueViolation(err, "") {
				// Lost the insert race; the other request's line wins.
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
		}
		return nil
	})
	return err
}

// capQuantity clamps the requested quantity to the known stock, flooring at 1.
// Unknown stock skips the cap entirely.
func (s *service) capQuantity(ctx context.Context, productID uuid.UUID, opt inventory.Option, qty int) (int, error) {
	stock, known, err := s.stock.ResolveStock(ctx, productID, opt)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve stock")
	}
	if known && qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}

	opt := inventory.Option{Color: line.OptColor, Size: line.OptSize}
	capped, err := s.capQuantity(ctx, line.ProductID, opt, qty)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateLineQuantity(ctx, line.ID, capped); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quantity")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

// RemoveByOptions deletes exactly the given normalized option tuples from the
// user's cart. Missing tuples are silent no-ops; per-key failures are
// aggregated so one bad key never hides the rest.
func (s *service) RemoveByOptions(ctx context.Context, userID uuid.UUID, keys []OptionKey) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(keys) == 0 {
		return nil
	}

	cart, err := s.repo.FindOrCreateCart(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart")
	}

	var errs []error
	for _, key := range keys {
		k := key.Normalized()
		removed, err := s.repo.DeleteByOption(ctx, cart.ID, k.ProductID, k.Color, k.Size)
		if err != nil {
			errs = append(errs, fmt.Errorf("remove option %s/%s for product %s: %w", k.Color, k.Size, k.ProductID, err))
			continue
		}
		if removed == 0 {
			s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
				"product_id": k.ProductID,
				"opt_color":  k.Color,
				"opt_size":   k.Size,
			}), "cart line already absent")
		}
	}
	return multierr.Combine(errs...)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*ListView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindOrCreateCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart")
	}

	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	if len(lines) == 0 {
		return &ListView{Lines: []LineView{}}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		productIDs = append(productIDs, line.ProductID)
	}

	products, err := s.catalog.FindProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	view := &ListView{Lines: make([]LineView, 0, len(lines))}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			// Product removed from the catalog since the line was added.
			continue
		}

		item := LineView{
			LineID:        line.ID,
			ProductID:     product.ID,
			Name:          product.Name,
			Brand:         product.Brand,
			ThumbnailURL:  product.ThumbnailURL,
			UnitPrice:     catalog.AppliedPrice(product),
			OriginalPrice: product.Price,
			DiscountPrice: product.DiscountPrice,
			Quantity:      line.Quantity,
			Color:         line.OptColor,
			Size:          line.OptSize,
		}

		opt := inventory.Option{Color: line.OptColor, Size: line.OptSize}
		variant, err := s.stock.Resolve(ctx, line.ProductID, opt)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve stock")
		}
		if variant != nil {
			stock := variant.Stock
			item.AvailableStock = &stock
			item.SoldOut = stock <= 0
			item.ColorName = variant.ColorName
		}

		view.Lines = append(view.Lines, item)
		view.TotalItems += line.Quantity
		view.TotalPrice += item.UnitPrice * line.Quantity
	}
	return view, nil
}

func (s *service) ownedLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	cart, err := s.repo.FindOrCreateCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart")
	}
	if line.CartID != cart.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart line does not belong to user")
	}
	return line, nil
}
