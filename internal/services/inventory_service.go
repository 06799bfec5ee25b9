package services

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := f.Tag.Get("form"); tag != "" {
			return tag
		}
		return f.Name
	})
	return v
}

// ProductForm is the admin editor's raw input. ID empty means create.
type ProductForm struct {
	ID          string `form:"id" validate:"omitempty,max=64"`
	Name        string `form:"name" validate:"required,max=120"`
	Category    string `form:"category" validate:"required,max=40"`
	Description string `form:"description" validate:"required,max=1000"`
	Quantity    string `form:"quantity" validate:"required,number"`
	Price       string `form:"price" validate:"required,numeric"`
	Image       string `form:"image" validate:"omitempty,max=512"`
}

// FormFromProduct prefills the editor with p.
func FormFromProduct(p domain.Product) ProductForm {
	return ProductForm{
		ID:          string(p.ID),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Quantity:    strconv.Itoa(p.Quantity),
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Image:       p.Image,
	}
}

func (f ProductForm) trimmed() ProductForm {
	return ProductForm{
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Category:    strings.TrimSpace(f.Category),
		Description: strings.TrimSpace(f.Description),
		Quantity:    strings.TrimSpace(f.Quantity),
		Price:       strings.TrimSpace(f.Price),
		Image:       strings.TrimSpace(f.Image),
	}
}

// Product validates the form and converts it. Errors are *ValidationError.
func (f ProductForm) Product() (domain.Product, error) {
	f = f.trimmed()
	fields := map[string]string{}
	if err := formValidator.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fieldMessage(fe)
			}
		} else {
			return domain.Product{}, fmt.Errorf("validate product form: %w", err)
		}
	}
	qty, qerr := strconv.Atoi(f.Quantity)
	if _, seen := fields["quantity"]; !seen && (qerr != nil || qty < 0) {
		fields["quantity"] = "must be a whole number of 0 or more"
	}
	price, perr := strconv.ParseFloat(f.Price, 64)
	if _, seen := fields["price"]; !seen && (perr != nil || price < 0) {
		fields["price"] = "must be 0 or more"
	}
	if len(fields) > 0 {
		return domain.Product{}, &ValidationError{Fields: fields}
	}
	return domain.Product{
		ID:          domain.ProductID(f.ID),
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Quantity:    qty,
		Price:       price,
		Image:       f.Image,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "number":
		return "must be a whole number of 0 or more"
	case "numeric":
		return "must be a number"
	}
	return "is invalid"
}

// InventoryService backs the admin editor.
type InventoryService struct {
	Products ProductStore
}

func NewInventoryService(products ProductStore) *InventoryService {
	return &InventoryService{Products: products}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.Fetch(ctx)
}

// Get finds a product by id in a fresh listing.
func (s *InventoryService) Get(ctx context.Context, id domain.ProductID) (domain.Product, bool, error) {
	products, err := s.Products.Fetch(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}
	p, ok := domain.FindProduct(products, id)
	return p, ok, nil
}

// Save creates the product when the form has no id and replaces it otherwise.
func (s *InventoryService) Save(ctx context.Context, form ProductForm) (domain.Product, error) {
	p, err := form.Product()
	if err != nil {
		return domain.Product{}, err
	}
	if p.ID == "" {
		if p.Image == "" {
			p.Image = PlaceholderImage
		}
		return s.Products.Create(ctx, p)
	}
	return s.Products.Replace(ctx, p.ID, p)
}

func (s *InventoryService) Delete(ctx context.Context, id domain.ProductID) error {
	return s.Products.Delete(ctx, id)
}
