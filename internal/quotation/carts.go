package quotation

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// ProductLookup resolves a catalog product for a cart line. Missing products
// return a CodeNotFound error.
type ProductLookup interface {
	QuotableProduct(ctx context.Context, id uint) (ProductRef, dbtypes.Dimensions, error)
}

// CartsParams groups dependencies for server-side carts.
type CartsParams struct {
	Products ProductLookup
	KV       KV
	// Key maps a cart id to its storage key. Defaults to
	// "carpenter-quotation:<cartId>".
	Key    func(cartID string) string
	Logger *logger.Logger
}

// CartView is the response shape of a server-side cart.
type CartView struct {
	Items     []Line `json:"items"`
	ItemCount int    `json:"itemCount"`
}

type AddItemInput struct {
	ProductID          uint               `json:"productId" validate:"required"`
	SelectedDimensions SelectedDimensions `json:"selectedDimensions"`
	Quantity           int                `json:"quantity" validate:"omitempty,min=1"`
}

// Carts exposes quotation carts persisted per client-generated cart id.
type Carts interface {
	Get(ctx context.Context, cartID string) (CartView, error)
	AddItem(ctx context.Context, cartID string, input AddItemInput) (CartView, error)
	UpdateItem(ctx context.Context, cartID, lineID string, quantity int) (CartView, error)
	RemoveItem(ctx context.Context, cartID, lineID string) (CartView, error)
	Clear(ctx context.Context, cartID string) error
}

type carts struct {
	products ProductLookup
	kv       KV
	key      func(string) string
	logg     *logger.Logger

	// serialises read-modify-write cycles on the same cart within this
	// process. Fixed size, so unknown cart ids cannot grow it.
	locks [cartLockStripes]sync.Mutex
}

const cartLockStripes = 256

func NewCarts(params CartsParams) (Carts, error) {
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product lookup is required")
	}
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart kv is required")
	}
	key := params.Key
	if key == nil {
		key = func(cartID string) string { return StorageKey + ":" + cartID }
	}
	return &carts{
		products: params.Products,
		kv:       params.KV,
		key:      key,
		logg:     params.Logger,
	}, nil
}

func (c *carts) Get(ctx context.Context, cartID string) (CartView, error) {
	var view CartView
	err := c.withStore(ctx, cartID, func(s *Store) error {
		view = viewOf(s)
		return nil
	})
	return view, err
}

func (c *carts) AddItem(ctx context.Context, cartID string, input AddItemInput) (CartView, error) {
	if input.ProductID == 0 {
		return CartView{}, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	product, dims, err := c.products.QuotableProduct(ctx, input.ProductID)
	if err != nil {
		return CartView{}, err
	}
	sel := input.SelectedDimensions
	if !dbtypes.Offers(dims.Thickness, sel.Thickness) ||
		!dbtypes.Offers(dims.Width, sel.Width) ||
		!dbtypes.Offers(dims.Height, sel.Height) {
		return CartView{}, pkgerrors.New(pkgerrors.CodeValidation, "selected dimensions are not offered for this product")
	}

	var view CartView
	err = c.withStore(ctx, cartID, func(s *Store) error {
		s.Add(ctx, product, sel, input.Quantity)
		view = viewOf(s)
		return nil
	})
	return view, err
}

func (c *carts) UpdateItem(ctx context.Context, cartID, lineID string, quantity int) (CartView, error) {
	var view CartView
	err := c.withStore(ctx, cartID, func(s *Store) error {
		if _, ok := s.Line(lineID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		s.UpdateQuantity(ctx, lineID, quantity)
		view = viewOf(s)
		return nil
	})
	return view, err
}

func (c *carts) RemoveItem(ctx context.Context, cartID, lineID string) (CartView, error) {
	var view CartView
	err := c.withStore(ctx, cartID, func(s *Store) error {
		s.Remove(ctx, lineID)
		view = viewOf(s)
		return nil
	})
	return view, err
}

func (c *carts) Clear(ctx context.Context, cartID string) error {
	return c.withStore(ctx, cartID, func(s *Store) error {
		s.Clear(ctx)
		return nil
	})
}

// withStore loads the cart, runs fn and reports any persistence failure as a
// dependency error so clients know the change may not have been kept.
func (c *carts) withStore(ctx context.Context, cartID string, fn func(*Store) error) error {
	if _, err := uuid.Parse(cartID); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cartId must be a uuid")
	}
	mu := c.lockFor(cartID)
	mu.Lock()
	defer mu.Unlock()

	var persistErr error
	store := NewStore(
		NewRedisPersister(c.kv, c.key(cartID)),
		WithErrorHandler(func(err error) { persistErr = multierr.Append(persistErr, err) }),
	)
	store.Load(ctx)
	if persistErr != nil {
		return c.dependencyError(ctx, cartID, persistErr)
	}
	if err := fn(store); err != nil {
		return err
	}
	if persistErr != nil {
		return c.dependencyError(ctx, cartID, persistErr)
	}
	return nil
}

func (c *carts) dependencyError(ctx context.Context, cartID string, err error) error {
	if c.logg != nil {
		ctx = c.logg.WithCartID(ctx, cartID)
		c.logg.Error(ctx, "quotation.cart.persist_failed", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable")
}

// lockFor picks the stripe for cartID. Carts sharing a stripe wait on each
// other, which only costs latency.
func (c *carts) lockFor(cartID string) *sync.Mutex {
	return &c.locks[xxhash.Sum64String(cartID)%cartLockStripes]
}

func viewOf(s *Store) CartView {
	return CartView{Items: s.Items(), ItemCount: s.ItemCount()}
}
