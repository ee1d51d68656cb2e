package steps

import (
	"fmt"
	"slices"

	"github.com/cucumber/godog"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/pages"
)

var kindsByWord = map[string]models.ReferenceKind{
	"type":     models.KindType,
	"unit":     models.KindUnit,
	"group":    models.KindGroup,
	"supplier": models.KindSupplier,
}

var createdMessages = map[models.ReferenceKind]string{
	models.KindType:     pages.TypeCreatedMessage,
	models.KindUnit:     pages.UnitCreatedMessage,
	models.KindGroup:    pages.GroupCreatedMessage,
	models.KindSupplier: pages.SupplierCreatedMessage,
}

func registerProductSteps(sc *godog.ScenarioContext, state func() *ScenarioState) {
	sc.Step(`^the user wants to create New (Type|Unit|Group|Supplier|Product) from the New Product module$`, func(what string) error {
		state().logger.Info("Create from the New Product module", "entity", what)
		return nil
	})
	sc.Step(`^there is an existing product (type|unit|group|supplier)$`, func(word string) error {
		return state().submitReferenceForm(word)
	})
	sc.Step(`^the user submits the (type|unit|group|supplier) form after filling correctly all required fields$`, func(word string) error {
		return state().submitReferenceForm(word)
	})
	sc.Step(`^the user submits the product form after filling correctly all required fields$`, func() error {
		return state().submitProductForm()
	})
	sc.Step(`^the new (type|unit|group|supplier) has been created successfully$`, func(word string) error {
		return state().referenceCreated(word)
	})
	sc.Step(`^the new product is created successfully$`, func() error {
		return state().productCreated()
	})
}

func (s *ScenarioState) productPage() *pages.ProductPage {
	return pages.NewProductPage(s.driver, s.timeout())
}

func (s *ScenarioState) submitReferenceForm(word string) error {
	kind, ok := kindsByWord[word]
	if !ok {
		return fmt.Errorf("unknown catalog entry %q", word)
	}
	page := s.productPage()
	if err := page.OpenNewProduct(); err != nil {
		return err
	}

	switch kind {
	case models.KindType:
		s.productType = models.ProductType{
			Name:        fmt.Sprintf("Test Type (%d)", s.suffix()),
			Description: fmt.Sprintf("Test Type Description (%d)", s.suffix()),
		}
		return page.CreateType(s.productType)
	case models.KindUnit:
		s.productUnit = models.ProductUnit{
			Name:        fmt.Sprintf("Test Unit (%d)", s.suffix()),
			Yield:       float64(s.rand(1, 100)),
			Description: fmt.Sprintf("Test Unit Description (%d)", s.suffix()),
		}
		return page.CreateUnit(s.productUnit)
	case models.KindGroup:
		s.productGroup = models.ProductGroup{
			Name:        fmt.Sprintf("Test Group (%d)", s.suffix()),
			Description: fmt.Sprintf("Test Group Description (%d)", s.suffix()),
		}
		return page.CreateGroup(s.productGroup)
	default:
		s.supplier = models.Supplier{
			Name:  fmt.Sprintf("Test Supplier (%d)", s.suffix()),
			Email: fmt.Sprintf("test_supplier_%d@gmail.com", s.suffix()),
		}
		return page.CreateSupplier(s.supplier)
	}
}

func (s *ScenarioState) createdName(kind models.ReferenceKind) string {
	switch kind {
	case models.KindType:
		return s.productType.Name
	case models.KindUnit:
		return s.productUnit.Name
	case models.KindGroup:
		return s.productGroup.Name
	default:
		return s.supplier.Name
	}
}

func (s *ScenarioState) submitProductForm() error {
	for word, kind := range kindsByWord {
		if s.createdName(kind) == "" {
			return fmt.Errorf("a product needs an existing %s", word)
		}
	}
	page := s.productPage()
	if err := page.OpenNewProduct(); err != nil {
		return err
	}
	s.product = models.Product{
		Name:     fmt.Sprintf("Test Product (%d)", s.suffix()),
		Type:     models.Reference{Name: s.productType.Name},
		Unit:     models.Reference{Name: s.productUnit.Name},
		Group:    models.Reference{Name: s.productGroup.Name},
		Supplier: models.Reference{Name: s.supplier.Name},
	}
	return page.CreateProduct(s.product.Name, s.product.Type.Name, s.product.Unit.Name, s.product.Group.Name, s.product.Supplier.Name)
}

func (s *ScenarioState) referenceCreated(word string) error {
	kind := kindsByWord[word]
	name := s.createdName(kind)
	s.logger.Info("Validate new entry exists in the dropdown", "kind", kind, "name", name)

	page := s.productPage()
	if err := expectMessage(page.Menu, createdMessages[kind]); err != nil {
		return err
	}
	if err := page.OpenNewProduct(); err != nil {
		return err
	}
	options, err := page.Options(kind)
	if err != nil {
		return err
	}
	if !slices.Contains(options, name) {
		return fmt.Errorf("expected %s %q to be in the list of existing entries: %v", word, name, options)
	}
	return nil
}

func (s *ScenarioState) productCreated() error {
	s.logger.Info("Validate new product created", "name", s.product.Name)
	menu := s.menu()
	if err := expectMessage(menu, pages.ProductCreatedMessage); err != nil {
		return err
	}

	if err := menu.OpenNewPurchaseOrder(); err != nil {
		return err
	}
	order := pages.NewNewPurchaseOrderPage(s.driver, s.timeout())
	if err := order.SelectSupplier(s.product.Supplier.Name); err != nil {
		return err
	}
	options, err := order.ProductOptions()
	if err != nil {
		return err
	}
	if !slices.Contains(options, s.product.Name) {
		return fmt.Errorf("expected product %q to be in the list of existing products: %v", s.product.Name, options)
	}
	return nil
}

func expectMessage(menu *pages.Menu, expected string) error {
	actual, err := menu.SuccessMessage()
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("expected %q message to be displayed, but got %q", expected, actual)
	}
	return nil
}
