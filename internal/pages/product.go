package pages

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/uidriver"
)

const (
	productNameInput   = "#productName"
	createProductBtn   = "#createProductBtn"
	newProductModalX   = "//div[@id='newProductModal']//span[text()='×']"
	newUnitYieldInput  = "#newUnitYield"
	newSupplierEmail   = "#newSupplierEmail"
	productTypeSelect  = "#productType"
	productUnitSelect  = "#productUnit"
	productGroupSelect = "#productGroup"
	supplierSelect     = "#productSupplier"
)

// Success messages shown after each create form.
const (
	TypeCreatedMessage     = "Product type created successfully!"
	UnitCreatedMessage     = "Product unit created successfully!"
	GroupCreatedMessage    = "Product group created successfully!"
	SupplierCreatedMessage = "Supplier created successfully!"
	ProductCreatedMessage  = "Product created successfully!"
)

// referenceForm holds the selectors of one "+ New" sub-form.
type referenceForm struct {
	selectID    string
	nameInput   string
	description string
	create      string
}

var referenceForms = map[models.ReferenceKind]referenceForm{
	models.KindType:     {selectID: "productType", nameInput: "#newTypeName", description: "#newTypeDescription", create: "#createTypeBtn"},
	models.KindUnit:     {selectID: "productUnit", nameInput: "#newUnitName", description: "#newUnitDescription", create: "#createUnitBtn"},
	models.KindGroup:    {selectID: "productGroup", nameInput: "#newGroupName", description: "#newGroupDescription", create: "#createGroupBtn"},
	models.KindSupplier: {selectID: "productSupplier", nameInput: "#newSupplierName", create: "#createSupplierBtn"},
}

func (f referenceForm) newButton() string {
	return fmt.Sprintf("//select[@id='%s']/following-sibling::button[text()='+ New']", f.selectID)
}

func (f referenceForm) dropdown() string {
	return "#" + f.selectID
}

// ProductPage is the New Product module with its type, unit, group and
// supplier sub-forms.
type ProductPage struct {
	*Menu
	d uidriver.Driver
}

func NewProductPage(d uidriver.Driver, timeout time.Duration) *ProductPage {
	return &ProductPage{Menu: NewMenu(d, timeout), d: d}
}

func (p *ProductPage) CreateType(t models.ProductType) error {
	slog.Info("Create new Type from New Product module", "name", t.Name)
	return p.createReference(models.KindType, t.Name, t.Description, nil)
}

func (p *ProductPage) CreateUnit(u models.ProductUnit) error {
	slog.Info("Create new Unit from New Product module", "name", u.Name)
	return p.createReference(models.KindUnit, u.Name, u.Description, func() error {
		return p.d.Field(newUnitYieldInput).Fill(strconv.FormatFloat(u.Yield, 'f', -1, 64))
	})
}

func (p *ProductPage) CreateGroup(g models.ProductGroup) error {
	slog.Info("Create new Group from New Product module", "name", g.Name)
	return p.createReference(models.KindGroup, g.Name, g.Description, nil)
}

func (p *ProductPage) CreateSupplier(s models.Supplier) error {
	slog.Info("Create new Supplier from New Product module", "name", s.Name)
	return p.createReference(models.KindSupplier, s.Name, "", func() error {
		return p.d.Field(newSupplierEmail).Fill(s.Email)
	})
}

func (p *ProductPage) createReference(kind models.ReferenceKind, name, description string, extra func() error) error {
	form := referenceForms[kind]
	if err := p.d.Field(form.newButton()).Click(); err != nil {
		return err
	}
	if err := p.d.Field(form.nameInput).Fill(name); err != nil {
		return err
	}
	if extra != nil {
		if err := extra(); err != nil {
			return err
		}
	}
	if form.description != "" {
		if err := p.d.Field(form.description).Fill(description); err != nil {
			return err
		}
	}
	if err := p.d.Field(form.create).Click(); err != nil {
		return err
	}
	return p.d.Field(newProductModalX).Click()
}

// CreateProduct fills the product form with references chosen by name.
func (p *ProductPage) CreateProduct(name string, typ, unit, group, supplier string) error {
	slog.Info("Create new Product from New Product module", "name", name)
	if err := p.d.Field(productNameInput).Fill(name); err != nil {
		return err
	}
	for _, sel := range []struct{ selector, option string }{
		{productTypeSelect, typ},
		{productUnitSelect, unit},
		{productGroupSelect, group},
		{supplierSelect, supplier},
	} {
		if err := p.d.Field(sel.selector).Select(sel.option); err != nil {
			return err
		}
	}
	return p.d.Field(createProductBtn).Click()
}

// Options returns the dropdown labels for kind on the product form.
func (p *ProductPage) Options(kind models.ReferenceKind) ([]string, error) {
	form, ok := referenceForms[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	return p.d.Options(form.dropdown())
}
