package models

import "github.com/shopspring/decimal"

// ReferenceKind names the catalog collections a Reference can belong to.
type ReferenceKind string

const (
	KindType     ReferenceKind = "product-types"
	KindUnit     ReferenceKind = "product-units"
	KindGroup    ReferenceKind = "product-groups"
	KindSupplier ReferenceKind = "suppliers"
)

// Reference is a catalog entry referred to by both id and display name.
// The API speaks ids, the UI speaks names.
type Reference struct {
	ID   string
	Name string
}

// IsZero reports whether the reference carries neither id nor name.
func (r Reference) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// Product is a catalog product created as a scenario fixture.
type Product struct {
	// ID is the identifier returned by the API.
	ID string

	// Name is the display name; unique per scenario.
	Name string

	Type     Reference
	Unit     Reference
	Group    Reference
	Supplier Reference

	// Quantity and Cost are assigned by the scenario when the product is
	// placed on a purchase order. They are not catalog attributes.
	Quantity int
	Cost     decimal.Decimal
}

// Entry converts the product into the pending entry used to add it to an order.
func (p Product) Entry() PendingEntry {
	return PendingEntry{
		Product:  p.Name,
		Unit:     p.Unit,
		Quantity: p.Quantity,
		Cost:     p.Cost,
	}
}

// ProductType, ProductUnit, ProductGroup and Supplier are the payloads of
// the catalog forms. Unset fields get random values from the fixtures package.
type ProductType struct {
	Name        string
	Description string
}

type ProductUnit struct {
	Name        string
	Yield       float64
	Description string
}

type ProductGroup struct {
	Name        string
	Description string
}

type Supplier struct {
	Name  string
	Email string
}
