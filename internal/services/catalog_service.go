package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

const (
	PlaceholderImage = "placeholder.jpg"
	currencySymbol   = "₹"
	imageBase        = "/static/img/"

	labelAddToCart  = "Add to Cart"
	labelOutOfStock = "Out of Stock"
)

// ProductCard is the catalog view of one product.
type ProductCard struct {
	ID          domain.ProductID
	Name        string
	Category    string
	Description string
	Image       string
	ImageURL    string
	PriceLabel  string
	StockLabel  string
	Quantity    int
	Disabled    bool
	ButtonLabel string
}

// AdminRow is one line of the inventory table. Actions address the product by ID.
type AdminRow struct {
	ID          domain.ProductID
	Name        string
	Category    string
	Description string
	Image       string
	ImageURL    string
	Quantity    int
	PriceLabel  string
	EditPath    string
	DeletePath  string
}

type CartLine struct {
	ID            domain.ProductID
	Name          string
	Image         string
	ImageURL      string
	Quantity      int
	PriceLabel    string
	SubtotalLabel string
}

type CartView struct {
	Lines      []CartLine
	Count      int
	Total      float64
	TotalLabel string
	Empty      bool
}

func PriceLabel(v float64) string {
	return currencySymbol + strconv.FormatFloat(v, 'f', -1, 64)
}

func imageOrPlaceholder(img string) string {
	if strings.TrimSpace(img) == "" {
		return PlaceholderImage
	}
	return img
}

// ImageURL resolves a stored image name against the static image directory.
// Absolute URLs and rooted paths pass through.
func ImageURL(img string) string {
	img = imageOrPlaceholder(img)
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") || strings.HasPrefix(img, "/") {
		return img
	}
	return imageBase + img
}

func Card(p domain.Product) ProductCard {
	card := ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       imageOrPlaceholder(p.Image),
		ImageURL:    ImageURL(p.Image),
		PriceLabel:  PriceLabel(p.Price),
		StockLabel:  "Available: " + strconv.Itoa(p.Quantity),
		Quantity:    p.Quantity,
		ButtonLabel: labelAddToCart,
	}
	if p.Quantity <= 0 {
		card.Disabled = true
		card.ButtonLabel = labelOutOfStock
	}
	return card
}

// CatalogCards maps products to cards, preserving order.
func CatalogCards(products []domain.Product) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, Card(p))
	}
	return cards
}

// FilterProducts keeps products whose name or description contains q and whose
// category equals category. Empty arguments do not filter; matching ignores case.
func FilterProducts(products []domain.Product, q, category string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	category = strings.TrimSpace(category)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists distinct non-empty categories in sorted order.
func Categories(products []domain.Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func AdminRows(products []domain.Product) []AdminRow {
	rows := make([]AdminRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, AdminRow{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Image:       imageOrPlaceholder(p.Image),
			ImageURL:    ImageURL(p.Image),
			Quantity:    p.Quantity,
			PriceLabel:  PriceLabel(p.Price),
			EditPath:    "/admin/inventory?edit=" + string(p.ID),
			DeletePath:  "/admin/products/" + string(p.ID) + "/delete",
		})
	}
	return rows
}

func BuildCartView(c Cart) CartView {
	v := CartView{Lines: make([]CartLine, 0, len(c.Items)), Empty: c.Empty(), Count: c.Count()}
	for _, it := range c.Items {
		v.Lines = append(v.Lines, CartLine{
			ID:            it.ID,
			Name:          it.Name,
			Image:         imageOrPlaceholder(it.Image),
			ImageURL:      ImageURL(it.Image),
			Quantity:      it.Quantity,
			PriceLabel:    PriceLabel(it.Price),
			SubtotalLabel: PriceLabel(lineTotal(it.Price, it.Quantity).InexactFloat64()),
		})
	}
	v.Total = c.Total()
	v.TotalLabel = PriceLabel(v.Total)
	return v
}

// BuildLastOrder snapshots the cart as the confirmation page will show it.
func BuildLastOrder(c Cart, now time.Time) domain.LastOrder {
	order := domain.LastOrder{
		Items: make([]domain.LastOrderItem, 0, len(c.Items)),
		Total: c.Total(),
		Date:  now.Format("02 Jan 2006, 15:04:05"),
	}
	for _, it := range c.Items {
		order.Items = append(order.Items, domain.LastOrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Image:    it.Image,
			Total:    lineTotal(it.Price, it.Quantity).InexactFloat64(),
		})
	}
	return order
}

type CatalogService struct {
	Products ProductStore
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{Products: products}
}

// Browse returns the filtered cards plus the category list for the filter bar.
func (s *CatalogService) Browse(ctx context.Context, q, category string) ([]ProductCard, []string) {
	products := s.Products.List(ctx)
	return CatalogCards(FilterProducts(products, q, category)), Categories(products)
}

func (s *CatalogService) Product(ctx context.Context, id domain.ProductID) (ProductCard, bool) {
	p, ok := domain.FindProduct(s.Products.List(ctx), id)
	if !ok {
		return ProductCard{}, false
	}
	return Card(p), true
}
