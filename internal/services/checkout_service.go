package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

// Stage is where a session is in the checkout flow.
type Stage string

const (
	StageReview       Stage = "review"
	StagePaymentEntry Stage = "payment"
	StageSubmitting   Stage = "submitting"
	StageCompleted    Stage = "completed"
)

type CheckoutService struct {
	Products ProductStore
	Carts    *CartService
	State    repos.StateStore
	Metrics  *metrics.Metrics
	Now      func() time.Time

	inflight sync.Map // sid -> struct{}
}

func NewCheckoutService(products ProductStore, carts *CartService, state repos.StateStore, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{Products: products, Carts: carts, State: state, Metrics: m, Now: time.Now}
}

func (s *CheckoutService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Stage returns the session's stage. No stored stage means Review.
func (s *CheckoutService) Stage(ctx context.Context, sid string) Stage {
	raw, err := s.State.Get(ctx, sid, KeyCheckoutStage)
	if err != nil || len(raw) == 0 {
		return StageReview
	}
	return Stage(raw)
}

func (s *CheckoutService) setStage(ctx context.Context, sid string, st Stage) {
	var err error
	if st == StageReview {
		err = s.State.Delete(ctx, sid, KeyCheckoutStage)
	} else {
		err = s.State.Set(ctx, sid, KeyCheckoutStage, []byte(st))
	}
	if err != nil {
		applog.Error(nil, "checkout.stage.fail", err, map[string]any{"stage": string(st)})
	}
}

// Proceed moves from Review to PaymentEntry. An empty cart is refused without
// contacting the product API.
func (s *CheckoutService) Proceed(ctx context.Context, sid string) error {
	cart, err := s.Carts.Load(ctx, sid)
	if err != nil {
		return err
	}
	if cart.Empty() {
		s.Metrics.IncCheckout("empty")
		return ErrEmptyCart
	}
	s.setStage(ctx, sid, StagePaymentEntry)
	return nil
}

// Cancel returns to Review from PaymentEntry.
func (s *CheckoutService) Cancel(ctx context.Context, sid string) {
	s.setStage(ctx, sid, StageReview)
}

// Place submits the cart after explicit confirmation.
//
// Every line is re-validated against freshly fetched stock first; one bad line
// aborts the whole checkout with a *StockError and nothing is posted. Then, line by
// line, an order record is posted and the product's stock patched down. A failure
// in that loop returns a *SubmissionError and leaves already-posted lines in place.
// On success the LastOrder snapshot is written and the cart cleared.
func (s *CheckoutService) Place(ctx context.Context, sid string, confirmed bool) (domain.LastOrder, error) {
	if !confirmed {
		return domain.LastOrder{}, ErrNotConfirmed
	}
	cart, err := s.Carts.Load(ctx, sid)
	if err != nil {
		return domain.LastOrder{}, err
	}
	if cart.Empty() {
		s.Metrics.IncCheckout("empty")
		return domain.LastOrder{}, ErrEmptyCart
	}
	if _, busy := s.inflight.LoadOrStore(sid, struct{}{}); busy {
		s.Metrics.IncCheckout("duplicate")
		return domain.LastOrder{}, ErrCheckoutInProgress
	}
	defer s.inflight.Delete(sid)

	switch s.Stage(ctx, sid) {
	case StagePaymentEntry:
	case StageSubmitting:
		// Another instance sharing this state store is submitting.
		s.Metrics.IncCheckout("duplicate")
		return domain.LastOrder{}, ErrCheckoutInProgress
	default:
		return domain.LastOrder{}, ErrPaymentNotStarted
	}

	s.setStage(ctx, sid, StageSubmitting)

	products := s.Products.List(ctx)
	stock := make(map[domain.ProductID]int, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := domain.FindProduct(products, it.ID)
		if !ok || p.Quantity < it.Quantity {
			s.setStage(ctx, sid, StageReview)
			s.Metrics.IncCheckout("stock_exceeded")
			return domain.LastOrder{}, &StockError{
				ProductID: it.ID,
				Name:      it.Name,
				Requested: it.Quantity,
				Available: p.Quantity,
				Missing:   !ok,
			}
		}
		stock[it.ID] = p.Quantity
	}

	done := make([]domain.ProductID, 0, len(cart.Items))
	for _, it := range cart.Items {
		if err := s.submitLine(ctx, it, stock[it.ID]); err != nil {
			s.setStage(ctx, sid, StagePaymentEntry)
			s.Metrics.IncCheckout("failed")
			return domain.LastOrder{}, &SubmissionError{Completed: done, Failed: it.ID, Err: err}
		}
		done = append(done, it.ID)
	}

	order := BuildLastOrder(cart, s.now())
	if err := saveJSON(ctx, s.State, sid, KeyLastOrder, order); err != nil {
		applog.Error(nil, "checkout.last_order.fail", err, nil)
	}
	// Every line is already posted; a cart that will not clear is logged, not failed.
	if err := s.Carts.Clear(ctx, sid); err != nil {
		applog.Error(nil, "checkout.cart.clear.fail", err, nil)
	}
	s.setStage(ctx, sid, StageReview)
	s.Metrics.IncCheckout("completed")
	return order, nil
}

func (s *CheckoutService) submitLine(ctx context.Context, it domain.CartItem, available int) error {
	_, err := s.Products.CreateOrder(ctx, domain.OrderRecord{
		ProductID: it.ID,
		Name:      it.Name,
		Quantity:  it.Quantity,
		Price:     it.Price,
		Date:      s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("post order: %w", err)
	}
	if _, err := s.Products.PatchQuantity(ctx, it.ID, available-it.Quantity); err != nil {
		return fmt.Errorf("patch quantity: %w", err)
	}
	return nil
}

// ConsumeLastOrder returns the last completed order once, then forgets it.
func (s *CheckoutService) ConsumeLastOrder(ctx context.Context, sid string) (*domain.LastOrder, error) {
	var order domain.LastOrder
	found, err := loadJSON(ctx, s.State, sid, KeyLastOrder, &order)
	if err != nil && !isDecodeError(err) {
		return nil, err
	}
	if delErr := s.State.Delete(ctx, sid, KeyLastOrder); delErr != nil && !errors.Is(delErr, repos.ErrStateNotFound) {
		applog.Error(nil, "checkout.last_order.delete.fail", delErr, nil)
	}
	if !found || err != nil {
		return nil, nil
	}
	return &order, nil
}
