package pages

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/uidriver"
)

const (
	purchaseSupplier  = "#purchaseSupplier"
	purchaseDate      = "#purchaseDate"
	purchaseType      = "#purchaseType"
	purchaseReference = "#purchaseReference"
	unifySameItems    = "#unifySameItems"

	currentProduct  = "#currentProduct"
	currentUnit     = "#currentUnit"
	currentQuantity = "#currentQuantity"
	currentCost     = "#currentCost"
	addItemBtn      = "#addItemBtn"

	purchaseTotal     = "#purchaseTotal"
	submitPurchaseBtn = "#submitPurchaseBtn"
	saveDraftBtn      = "#saveDraftBtn"
	cancelPurchaseBtn = "#cancelPurchaseBtn"

	itemRows = "//table[@id='purchaseItems']//tbody/tr"

	// PurchaseDateInputLayout is the value format of the date input.
	PurchaseDateInputLayout = "2006-01-02"
)

// Item cells, by class.
const (
	CellName      = "item-name"
	CellUnit      = "item-unit"
	CellQuantity  = "item-quantity"
	CellCost      = "item-cost"
	CellLineTotal = "item-total"
)

// RowSelector addresses the last rendered item row for product.
func RowSelector(product string) string {
	return fmt.Sprintf("xpath=(%s[td[contains(@class,'%s') and normalize-space()=%s]])[last()]",
		itemRows, CellName, xpathLiteral(product))
}

// CellSelector addresses one cell of the last item row for product.
func CellSelector(product, cell string) string {
	return fmt.Sprintf("%s/td[contains(@class,'%s')]", RowSelector(product), cell)
}

// EditButton and DeleteButton address the row actions for product.
func EditButton(product string) string {
	return RowSelector(product) + "//button[contains(@class,'edit-item')]"
}

func DeleteButton(product string) string {
	return RowSelector(product) + "//button[contains(@class,'delete-item')]"
}

// NewPurchaseOrderPage is the new purchase order modal. It implements
// ledger.Form so a Reconciler can drive it.
type NewPurchaseOrderPage struct {
	*Menu
	d       uidriver.Driver
	timeout time.Duration
}

func NewNewPurchaseOrderPage(d uidriver.Driver, timeout time.Duration) *NewPurchaseOrderPage {
	return &NewPurchaseOrderPage{Menu: NewMenu(d, timeout), d: d, timeout: orDefault(timeout)}
}

// SelectSupplier picks the supplier; the product dropdown is filtered by it.
func (p *NewPurchaseOrderPage) SelectSupplier(name string) error {
	return p.d.Field(purchaseSupplier).Select(name)
}

// ProductOptions returns the products offered for the selected supplier.
func (p *NewPurchaseOrderPage) ProductOptions() ([]string, error) {
	return p.d.Options(currentProduct)
}

// FillHeader fills the order header fields.
func (p *NewPurchaseOrderPage) FillHeader(order models.PurchaseOrder) error {
	slog.Info("Populate purchase order header",
		"supplier", order.Supplier.Name,
		"type", order.Type.String(),
		"reference", order.Reference,
		"unify", order.UnifySameItems,
	)
	if err := p.SelectSupplier(order.Supplier.Name); err != nil {
		return err
	}
	if !order.PurchaseDate.IsZero() {
		if err := p.d.Field(purchaseDate).Fill(order.PurchaseDate.Format(PurchaseDateInputLayout)); err != nil {
			return err
		}
	}
	if err := p.d.Field(purchaseType).Select(order.Type.String()); err != nil {
		return err
	}
	if err := p.d.Field(purchaseReference).Fill(order.Reference); err != nil {
		return err
	}
	return p.d.Field(unifySameItems).SetChecked(order.UnifySameItems)
}

func (p *NewPurchaseOrderPage) AddItem(entry models.PendingEntry) error {
	if err := p.d.Field(currentProduct).Select(entry.Product); err != nil {
		return err
	}
	if err := p.d.Field(currentUnit).Select(entry.Unit.Name); err != nil {
		return err
	}
	if err := p.d.Field(currentQuantity).Fill(strconv.Itoa(entry.Quantity)); err != nil {
		return err
	}
	if err := p.d.Field(currentCost).Fill(entry.Cost.String()); err != nil {
		return err
	}
	return p.d.Field(addItemBtn).Click()
}

func (p *NewPurchaseOrderPage) EditItem(product string) error {
	return p.d.Field(EditButton(product)).Click()
}

func (p *NewPurchaseOrderPage) DeleteItem(product string) error {
	return p.d.Field(DeleteButton(product)).Click()
}

// HasItem waits for a row of product to render and reports whether it did.
func (p *NewPurchaseOrderPage) HasItem(product string) (bool, error) {
	err := p.d.Field(RowSelector(product)).WaitUntil(uidriver.Visible, p.timeout)
	if errors.Is(err, uidriver.ErrTimeout) {
		return false, nil
	}
	return err == nil, err
}

func (p *NewPurchaseOrderPage) Row(product string) (ledger.Row, error) {
	var row ledger.Row
	for _, c := range []struct {
		cell string
		dst  *string
	}{
		{CellUnit, &row.Unit},
		{CellQuantity, &row.Quantity},
		{CellCost, &row.Cost},
		{CellLineTotal, &row.LineTotal},
	} {
		text, err := p.d.Field(CellSelector(product, c.cell)).Text()
		if err != nil {
			return ledger.Row{}, err
		}
		*c.dst = text
	}
	return row, nil
}

func (p *NewPurchaseOrderPage) RowCount() (int, error) {
	return p.d.Field(itemRows).Count()
}

func (p *NewPurchaseOrderPage) Total() (string, error) {
	return p.d.Field(purchaseTotal).Text()
}

// Pending reads the staged quantity and cost inputs.
func (p *NewPurchaseOrderPage) Pending() (ledger.Row, error) {
	quantity, err := p.d.Field(currentQuantity).Value()
	if err != nil {
		return ledger.Row{}, err
	}
	cost, err := p.d.Field(currentCost).Value()
	if err != nil {
		return ledger.Row{}, err
	}
	return ledger.Row{Quantity: quantity, Cost: cost}, nil
}

// Submit creates the purchase order.
func (p *NewPurchaseOrderPage) Submit() error {
	slog.Info("Submit new purchase order")
	return p.d.Field(submitPurchaseBtn).Click()
}

// SaveDraft stores the order as a draft.
func (p *NewPurchaseOrderPage) SaveDraft() error {
	slog.Info("Save purchase order as draft")
	return p.d.Field(saveDraftBtn).Click()
}

// Cancel discards the order.
func (p *NewPurchaseOrderPage) Cancel() error {
	slog.Info("Cancel purchase order")
	return p.d.Field(cancelPurchaseBtn).Click()
}

var (
	_ ledger.Form          = (*NewPurchaseOrderPage)(nil)
	_ ledger.PendingReader = (*NewPurchaseOrderPage)(nil)
)
