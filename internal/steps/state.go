// Package steps binds the Stocktake feature files to page objects, the
// purchase ledger and API fixtures.
package steps

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mmynk/stocktake/internal/config"
	"github.com/mmynk/stocktake/internal/fixtures"
	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/pages"
	"github.com/mmynk/stocktake/internal/uidriver"
)

// ScenarioState is everything one scenario accumulates across its steps.
// A fresh state is created for every scenario.
type ScenarioState struct {
	cfg    *config.Config
	logger *slog.Logger
	driver uidriver.Driver
	now    func() time.Time
	rand   func(lo, hi int) int

	newClient func() *fixtures.Client
	api       *fixtures.Client

	// Catalog entries created through the New Product module.
	productType  models.ProductType
	productUnit  models.ProductUnit
	productGroup models.ProductGroup
	supplier     models.Supplier
	product      models.Product

	// Products created through the API.
	products []models.Product

	orderPage   *pages.NewPurchaseOrderPage
	order       *ledger.Reconciler
	finalizedAt time.Time
}

// NewScenarioState returns the state of a scenario running on driver.
func NewScenarioState(cfg *config.Config, driver uidriver.Driver, logger *slog.Logger) *ScenarioState {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScenarioState{
		cfg:    cfg,
		logger: logger,
		driver: driver,
		now:    time.Now,
		rand:   func(lo, hi int) int { return lo + rand.IntN(hi-lo+1) },
	}
	s.newClient = func() *fixtures.Client {
		return fixtures.NewClient(cfg.APIURL, fixtures.WithLogger(logger))
	}
	return s
}

func (s *ScenarioState) timeout() time.Duration { return s.cfg.Timeout }

func (s *ScenarioState) menu() *pages.Menu { return pages.NewMenu(s.driver, s.timeout()) }

// fixtures returns an API client logged in with the suite credentials.
func (s *ScenarioState) fixtures(ctx context.Context) (*fixtures.Client, error) {
	if s.api != nil {
		return s.api, nil
	}
	c := s.newClient()
	if err := c.Login(ctx, s.cfg.Email, s.cfg.Password); err != nil {
		return nil, err
	}
	s.api = c
	return c, nil
}

// requireOrder fails steps that need an open purchase order.
func (s *ScenarioState) requireOrder() error {
	if s.order == nil {
		return fmt.Errorf("%w: no purchase order is open", ledger.ErrPrecondition)
	}
	return nil
}

// productAt returns the n-th (1-based) product created through the API.
func (s *ScenarioState) productAt(n int) (models.Product, error) {
	if n < 1 || n > len(s.products) {
		return models.Product{}, fmt.Errorf("%w: product %d requested, %d created", ledger.ErrPrecondition, n, len(s.products))
	}
	return s.products[n-1], nil
}

func (s *ScenarioState) suffix() int { return s.rand(10000, 99999) }
