package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
	"github.com/mmynk/stocktake/internal/pages"
)

func registerPurchaseSteps(sc *godog.ScenarioContext, state func() *ScenarioState) {
	sc.Step(`^(\d+) products? (?:is|are) created$`, func(ctx context.Context, n int) error {
		return state().productsAreCreated(ctx, n)
	})
	sc.Step(`^the user opens the new purchase order modal$`, func() error {
		return state().opensNewPurchaseOrder()
	})
	sc.Step(`^the user populates all Purchase Order fields$`, func() error {
		return state().populatesAllFields()
	})
	sc.Step(`^the user fills the purchase order header( unifying same items)?$`, func(unify string) error {
		return state().fillsHeader(unify != "")
	})
	sc.Step(`^the user adds product (\d+) with quantity (\d+) and cost "([^"]*)"$`, func(n, quantity int, cost string) error {
		return state().addsProduct(n, quantity, cost)
	})
	sc.Step(`^the user adds the following line items:$`, func(table *godog.Table) error {
		return state().addsLineItems(table)
	})
	sc.Step(`^the user edits line item (\d+) to quantity (\d+) and cost "([^"]*)"$`, func(index, quantity int, cost string) error {
		return state().editsLineItem(index, quantity, cost)
	})
	sc.Step(`^the user deletes line item (\d+)$`, func(index int) error {
		return state().deletesLineItem(index)
	})
	sc.Step(`^the order total is "([^"]*)"$`, func(total string) error {
		return state().orderTotalIs(total)
	})
	sc.Step(`^the order shows one row per product with summed quantities$`, func() error {
		return state().rowsAreUnified()
	})
	sc.Step(`^the user submits the purchase order$`, func() error {
		return state().submitsOrder()
	})
	sc.Step(`^the user saves the purchase order as draft$`, func() error {
		return state().savesDraft()
	})
	sc.Step(`^the new Purchase Order is created successfully$`, func() error {
		return state().orderIsInHistory()
	})
	sc.Step(`^the draft is listed in Draft Purchase Orders$`, func() error {
		return state().draftIsListed()
	})
}

func (s *ScenarioState) productsAreCreated(ctx context.Context, n int) error {
	s.logger.Info("Create preliminary product data", "products", n)
	api, err := s.fixtures(ctx)
	if err != nil {
		return err
	}
	products, err := api.SeedProducts(ctx, n)
	if err != nil {
		return err
	}
	s.products = products
	return nil
}

func (s *ScenarioState) opensNewPurchaseOrder() error {
	if err := s.menu().OpenNewPurchaseOrder(); err != nil {
		return err
	}
	s.orderPage = pages.NewNewPurchaseOrderPage(s.driver, s.timeout())
	return nil
}

// fillsHeader opens a ledger for an invoice from the supplier of the first
// created product and fills the header with it.
func (s *ScenarioState) fillsHeader(unify bool) error {
	if s.orderPage == nil {
		return fmt.Errorf("%w: the new purchase order modal is not open", ledger.ErrPrecondition)
	}
	first, err := s.productAt(1)
	if err != nil {
		return err
	}
	now := s.now()
	order := models.PurchaseOrder{
		Supplier:       first.Supplier,
		PurchaseDate:   now,
		Type:           models.Invoice,
		Reference:      fmt.Sprintf("INV_%d_%s", s.suffix(), now.Format("20060102150405")),
		UnifySameItems: unify,
	}
	if err := s.orderPage.FillHeader(order); err != nil {
		return err
	}
	s.order = ledger.NewReconciler(ledger.New(order), s.orderPage, s.logger)
	return nil
}

// populatesAllFields fills a whole order with every created product at a
// random quantity and cost, then submits it.
func (s *ScenarioState) populatesAllFields() error {
	s.logger.Info("Populate new Purchase Order fields")
	if err := s.fillsHeader(true); err != nil {
		return err
	}
	for i := range s.products {
		quantity := s.rand(1, 20)
		cost := decimal.New(int64(s.rand(1, 10000)), -2)
		if err := s.addsProduct(i+1, quantity, cost.String()); err != nil {
			return err
		}
	}
	return s.submitsOrder()
}

func (s *ScenarioState) addsProduct(n, quantity int, cost string) error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	product, err := s.productAt(n)
	if err != nil {
		return err
	}
	amount, err := money.Parse(cost)
	if err != nil {
		return err
	}
	product.Quantity = quantity
	product.Cost = amount
	_, err = s.order.AddLineItem(product.Entry())
	return err
}

// addsLineItems reads rows of product (1-based), quantity and cost.
func (s *ScenarioState) addsLineItems(table *godog.Table) error {
	for i, row := range table.Rows {
		if len(row.Cells) != 3 {
			return fmt.Errorf("line item row %d: expected product, quantity and cost", i+1)
		}
		if i == 0 && strings.EqualFold(row.Cells[0].Value, "product") {
			continue
		}
		n, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("line item row %d: bad product %q", i+1, row.Cells[0].Value)
		}
		quantity, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("line item row %d: bad quantity %q", i+1, row.Cells[1].Value)
		}
		if err := s.addsProduct(n, quantity, row.Cells[2].Value); err != nil {
			return err
		}
	}
	return nil
}

// editsLineItem changes the n-th (1-based) committed item.
func (s *ScenarioState) editsLineItem(n, quantity int, cost string) error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	item, err := s.order.Ledger().Item(n - 1)
	if err != nil {
		return err
	}
	amount, err := money.Parse(cost)
	if err != nil {
		return err
	}
	updated := item.Entry()
	updated.Quantity = quantity
	updated.Cost = amount
	_, err = s.order.EditLineItem(n-1, updated)
	return err
}

func (s *ScenarioState) deletesLineItem(n int) error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	return s.order.DeleteLineItem(n - 1)
}

func (s *ScenarioState) orderTotalIs(total string) error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	if err := ledger.CompareAmount("order", "total", s.order.Ledger().FormattedTotal(), total); err != nil {
		return err
	}
	return s.order.VerifyTotal()
}

func (s *ScenarioState) rowsAreUnified() error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	_, err := s.order.UnifyDuplicateItems()
	return err
}

func (s *ScenarioState) submitsOrder() error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	if err := s.order.Ledger().Submit(); err != nil {
		return err
	}
	if err := s.orderPage.Submit(); err != nil {
		return err
	}
	s.finalizedAt = s.now()
	return nil
}

func (s *ScenarioState) savesDraft() error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	if err := s.order.Ledger().SaveDraft(); err != nil {
		return err
	}
	if err := s.orderPage.SaveDraft(); err != nil {
		return err
	}
	s.finalizedAt = s.now()
	return nil
}

func (s *ScenarioState) orderIsInHistory() error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	if err := s.menu().OpenPurchaseOrderHistory(); err != nil {
		return err
	}
	actual, err := pages.NewPurchaseOrderHistoryPage(s.driver, s.timeout()).LastCreated()
	if err != nil {
		return err
	}
	expected := ledger.ExpectedHistoryListing(s.order.Ledger(), s.finalizedAt)
	s.logger.Info("Verify purchase order history", "reference", expected.Reference, "total", expected.Total)
	return ledger.VerifyListing(expected, actual, ledger.SkipPurchaseDate())
}

func (s *ScenarioState) draftIsListed() error {
	if err := s.requireOrder(); err != nil {
		return err
	}
	if err := s.menu().OpenDraftPurchaseOrders(); err != nil {
		return err
	}
	actual, err := pages.NewDraftPurchaseOrdersPage(s.driver, s.timeout()).LastSaved()
	if err != nil {
		return err
	}
	expected := ledger.ExpectedDraftListing(s.order.Ledger(), s.finalizedAt)
	s.logger.Info("Verify draft purchase orders", "reference", expected.Reference, "total", expected.Total)
	return ledger.VerifyListing(expected, actual)
}
