package handlers

import (
	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	Layout           *Layout
	CatalogHandler   *CatalogHandler
	CartHandler      *CartHandler
	CheckoutHandler  *CheckoutHandler
	InventoryHandler *InventoryHandler
	AuthHandler      *AuthHandler
	AdminHandler     *AdminHandler

	Admin *services.AdminService
}

// NewDeps wires the services over the product API and the session state store.
func NewDeps(products services.ProductStore, state repos.StateStore, m *metrics.Metrics, cfg config.Config) *Deps {
	cartSvc := services.NewCartService(products, state, m)
	catalogSvc := services.NewCatalogService(products)
	checkoutSvc := services.NewCheckoutService(products, cartSvc, state, m)
	invSvc := services.NewInventoryService(products)
	adminSvc := services.NewAdminService(cfg.AdminCodeHash, state)
	flashSvc := services.NewFlashService(state)

	layout := &Layout{Flash: flashSvc, Cart: cartSvc, Admin: adminSvc}

	return &Deps{
		Layout:           layout,
		CatalogHandler:   &CatalogHandler{Layout: layout, Catalog: catalogSvc},
		CartHandler:      &CartHandler{Layout: layout, Cart: cartSvc},
		CheckoutHandler:  &CheckoutHandler{Layout: layout, Cart: cartSvc, Checkout: checkoutSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		AuthHandler:      &AuthHandler{Layout: layout, Admin: adminSvc},
		AdminHandler:     &AdminHandler{Layout: layout, Inv: invSvc},
		Admin:            adminSvc,
	}
}
