package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseType is the document type of a purchase order.
type PurchaseType int

const (
	Invoice PurchaseType = iota
	Other
)

// String returns the label shown in the type dropdown.
func (t PurchaseType) String() string {
	switch t {
	case Invoice:
		return "Invoice"
	case Other:
		return "Other"
	default:
		return "Unknown"
	}
}

// ParsePurchaseType accepts the dropdown label in any case.
func ParsePurchaseType(s string) (PurchaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invoice":
		return Invoice, nil
	case "other":
		return Other, nil
	default:
		return 0, fmt.Errorf("unknown purchase type %q", s)
	}
}

// PurchaseOrder holds the header fields of a purchase order.
// Line items are owned by the ledger that tracks the order.
type PurchaseOrder struct {
	Supplier     Reference
	PurchaseDate time.Time
	Type         PurchaseType

	// Reference is the supplier document number; required for submission.
	Reference string

	// UnifySameItems asks the form to merge entries of the same product.
	UnifySameItems bool
}

// PendingEntry is the staging area of the order form: the fields filled in
// before the "add" action commits them as a LineItem.
type PendingEntry struct {
	Product  string
	Unit     Reference
	Quantity int
	Cost     decimal.Decimal
}

// IsZero reports whether nothing has been staged.
func (e PendingEntry) IsZero() bool {
	return e.Product == "" && e.Unit.IsZero() && e.Quantity == 0 && e.Cost.IsZero()
}

// LineItem is one committed product entry of a purchase order.
type LineItem struct {
	ProductName string
	Unit        Reference
	Quantity    int
	UnitCost    decimal.Decimal

	// LineTotal is round(Quantity * UnitCost, 2), set on commit.
	LineTotal decimal.Decimal
}

// Entry stages the item's fields back into a pending entry.
func (i LineItem) Entry() PendingEntry {
	return PendingEntry{
		Product:  i.ProductName,
		Unit:     i.Unit,
		Quantity: i.Quantity,
		Cost:     i.UnitCost,
	}
}

// Purchase is a purchase order as stored by the stub API.
type Purchase struct {
	ID           string
	Supplier     Reference
	PurchaseDate time.Time
	Type         PurchaseType
	Reference    string
	Draft        bool
	Lines        []PurchaseLine
	Total        decimal.Decimal

	// CreatedAt is the Unix timestamp of creation; SavedAt of the last save.
	CreatedAt int64
	SavedAt   int64
}

// PurchaseLine is a stored line item with the id of its product.
type PurchaseLine struct {
	ProductID string
	LineItem
}
