package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

// ProductStore is the product API surface the services depend on.
type ProductStore interface {
	List(ctx context.Context) []domain.Product
	Fetch(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Replace(ctx context.Context, id domain.ProductID, p domain.Product) (domain.Product, error)
	PatchQuantity(ctx context.Context, id domain.ProductID, quantity int) (domain.Product, error)
	Delete(ctx context.Context, id domain.ProductID) error
	CreateOrder(ctx context.Context, o domain.OrderRecord) (domain.OrderRecord, error)
}

// Cart is an ordered list of lines, unique by product id.
type Cart struct {
	Items []domain.CartItem
}

func (c Cart) find(id domain.ProductID) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Quantity returns the units of id in the cart, zero when absent.
func (c Cart) Quantity(id domain.ProductID) int {
	if i := c.find(id); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// Count is the badge value: total units across lines.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

func (c Cart) Total() float64 {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(lineTotal(it.Price, it.Quantity))
	}
	return total.InexactFloat64()
}

func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

type CartService struct {
	Products ProductStore
	State    repos.StateStore
	Metrics  *metrics.Metrics
}

func NewCartService(products ProductStore, state repos.StateStore, m *metrics.Metrics) *CartService {
	return &CartService{Products: products, State: state, Metrics: m}
}

// Load restores the session's cart. An unreadable stored cart is logged and treated as empty.
func (s *CartService) Load(ctx context.Context, sid string) (Cart, error) {
	var items []domain.CartItem
	found, err := loadJSON(ctx, s.State, sid, KeyCart, &items)
	if isDecodeError(err) {
		applog.Error(nil, "cart.load.corrupt", err, map[string]any{"sid": sid})
		return Cart{Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return Cart{}, err
	}
	if !found || items == nil {
		items = []domain.CartItem{}
	}
	return Cart{Items: items}, nil
}

func (s *CartService) save(ctx context.Context, sid string, c Cart) error {
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return saveJSON(ctx, s.State, sid, KeyCart, c.Items)
}

// AddItem adds qty units of productID, checking the combined quantity against current stock.
func (s *CartService) AddItem(ctx context.Context, sid string, productID domain.ProductID, qty int) (err error) {
	defer func() { s.Metrics.ObserveCart("add", err) }()
	if qty < 1 {
		qty = 1
	}
	cart, err := s.Load(ctx, sid)
	if err != nil {
		return err
	}

	product, ok := domain.FindProduct(s.Products.List(ctx), productID)
	requested := cart.Quantity(productID) + qty
	if !ok {
		return &StockError{ProductID: productID, Requested: requested, Missing: true}
	}
	if requested > product.Quantity {
		return &StockError{ProductID: productID, Name: product.Name, Requested: requested, Available: product.Quantity}
	}

	if i := cart.find(productID); i >= 0 {
		cart.Items[i].Quantity += qty
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: qty,
			Image:    product.Image,
		})
	}
	return s.save(ctx, sid, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, sid string, productID domain.ProductID) (err error) {
	defer func() { s.Metrics.ObserveCart("remove", err) }()
	cart, err := s.Load(ctx, sid)
	if err != nil {
		return err
	}
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	return s.save(ctx, sid, cart)
}

// UpdateItemQuantity sets the line's quantity to n when current stock allows it.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sid string, productID domain.ProductID, n int) (err error) {
	defer func() { s.Metrics.ObserveCart("update", err) }()
	if n < 1 {
		return ErrInvalidQuantity
	}
	cart, err := s.Load(ctx, sid)
	if err != nil {
		return err
	}
	i := cart.find(productID)
	product, ok := domain.FindProduct(s.Products.List(ctx), productID)
	if i < 0 {
		return &StockError{ProductID: productID, Requested: n, Missing: true}
	}
	if !ok {
		return &StockError{ProductID: productID, Name: cart.Items[i].Name, Requested: n, Missing: true}
	}
	if n > product.Quantity {
		return &StockError{ProductID: productID, Name: cart.Items[i].Name, Requested: n, Available: product.Quantity}
	}
	cart.Items[i].Quantity = n
	return s.save(ctx, sid, cart)
}

func (s *CartService) Count(ctx context.Context, sid string) int {
	cart, err := s.Load(ctx, sid)
	if err != nil {
		applog.Error(nil, "cart.count.fail", err, nil)
		return 0
	}
	return cart.Count()
}

func (s *CartService) Clear(ctx context.Context, sid string) error {
	return s.save(ctx, sid, Cart{})
}

func (s *CartService) View(ctx context.Context, sid string) (CartView, error) {
	cart, err := s.Load(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	return BuildCartView(cart), nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
