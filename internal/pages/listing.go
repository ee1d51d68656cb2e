package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/uidriver"
)

const (
	historyFirstRow = "//tbody/tr[1]"
	draftsLastRow   = "xpath=(//tbody/tr)[last()]"
)

// PurchaseOrderHistoryPage lists submitted orders, newest first.
type PurchaseOrderHistoryPage struct {
	*Menu
	d       uidriver.Driver
	timeout time.Duration
}

func NewPurchaseOrderHistoryPage(d uidriver.Driver, timeout time.Duration) *PurchaseOrderHistoryPage {
	return &PurchaseOrderHistoryPage{Menu: NewMenu(d, timeout), d: d, timeout: orDefault(timeout)}
}

// LastCreated reads the most recently created order.
func (p *PurchaseOrderHistoryPage) LastCreated() (ledger.Listing, error) {
	var l ledger.Listing
	err := readCells(p.d, historyFirstRow, p.timeout, []*string{
		&l.Reference, &l.Type, &l.Supplier, &l.Total, &l.PurchaseDate, &l.CreatedDate,
	})
	return l, err
}

// DraftPurchaseOrdersPage lists saved drafts, oldest first.
type DraftPurchaseOrdersPage struct {
	*Menu
	d       uidriver.Driver
	timeout time.Duration
}

func NewDraftPurchaseOrdersPage(d uidriver.Driver, timeout time.Duration) *DraftPurchaseOrdersPage {
	return &DraftPurchaseOrdersPage{Menu: NewMenu(d, timeout), d: d, timeout: orDefault(timeout)}
}

// LastSaved reads the most recently saved draft.
func (p *DraftPurchaseOrdersPage) LastSaved() (ledger.Listing, error) {
	var l ledger.Listing
	err := readCells(p.d, draftsLastRow, p.timeout, []*string{
		&l.Reference, &l.Supplier, &l.CreatedDate, &l.Total, &l.SavedDate,
	})
	return l, err
}

// readCells waits for row and copies the text of its cells, in order, into dst.
func readCells(d uidriver.Driver, row string, timeout time.Duration, dst []*string) error {
	if err := d.Field(row).WaitUntil(uidriver.Visible, timeout); err != nil {
		return fmt.Errorf("listing row should be displayed: %w", err)
	}
	for i, p := range dst {
		text, err := d.Field(fmt.Sprintf("%s/td[%d]", row, i+1)).Text()
		if err != nil {
			return err
		}
		*p = strings.TrimSpace(text)
	}
	return nil
}
