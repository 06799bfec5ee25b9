package services_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"storefront/internal/domain"
)

type patch struct {
	ID       domain.ProductID
	Quantity int
}

// fakeProducts is an in-memory product API that records every call.
type fakeProducts struct {
	mu       sync.Mutex
	products []domain.Product
	orders   []domain.OrderRecord
	patches  []patch
	calls    int
	nextID   int

	listErr      error
	orderErrAt   int // fail the Nth CreateOrder (1-based); 0 never
	patchErr     error
	beforeList   func()
	orderAttempt int
}

func newFakeProducts(ps ...domain.Product) *fakeProducts {
	return &fakeProducts{products: ps, nextID: 100}
}

func (f *fakeProducts) List(ctx context.Context) []domain.Product {
	ps, err := f.Fetch(ctx)
	if err != nil {
		return []domain.Product{}
	}
	return ps
}

func (f *fakeProducts) Fetch(context.Context) ([]domain.Product, error) {
	if f.beforeList != nil {
		f.beforeList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeProducts) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.nextID++
	p.ID = domain.ProductID(strconv.Itoa(f.nextID))
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeProducts) Replace(_ context.Context, id domain.ProductID, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.products {
		if f.products[i].ID == id {
			p.ID = id
			f.products[i] = p
			return p, nil
		}
	}
	return domain.Product{}, errors.New("not found")
}

func (f *fakeProducts) PatchQuantity(_ context.Context, id domain.ProductID, q int) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.patchErr != nil {
		return domain.Product{}, f.patchErr
	}
	f.patches = append(f.patches, patch{ID: id, Quantity: q})
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Quantity = q
			return f.products[i], nil
		}
	}
	return domain.Product{}, errors.New("not found")
}

func (f *fakeProducts) Delete(_ context.Context, id domain.ProductID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeProducts) CreateOrder(_ context.Context, o domain.OrderRecord) (domain.OrderRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.orderAttempt++
	if f.orderErrAt != 0 && f.orderAttempt == f.orderErrAt {
		return domain.OrderRecord{}, errors.New("connection reset")
	}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeProducts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProducts) product(id domain.ProductID) domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, _ := domain.FindProduct(f.products, id)
	return p
}
