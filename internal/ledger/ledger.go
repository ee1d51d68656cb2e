// Package ledger models the line items of an in-progress purchase order and
// reconciles the running total against what the order form renders.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
)

// State is the lifecycle position of an order.
type State int

const (
	Open State = iota
	Submitted
	Drafted
	Cancelled
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Submitted:
		return "submitted"
	case Drafted:
		return "drafted"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Ledger tracks the committed line items of one purchase order, its running
// total and the single pending entry of the form.
//
// Invariant: total == round(sum(item.LineTotal), 2) after every operation.
type Ledger struct {
	order   models.PurchaseOrder
	items   []models.LineItem
	pending models.PendingEntry
	total   decimal.Decimal
	state   State
}

// New opens an empty order with the given header.
func New(order models.PurchaseOrder) *Ledger {
	return &Ledger{
		order: order,
		total: money.Zero,
		state: Open,
	}
}

// Order returns the header fields.
func (l *Ledger) Order() models.PurchaseOrder { return l.order }

// SetOrder replaces the header fields while the order is open.
func (l *Ledger) SetOrder(order models.PurchaseOrder) error {
	if err := l.requireOpen("set order"); err != nil {
		return err
	}
	l.order = order
	return nil
}

// State returns the lifecycle state.
func (l *Ledger) State() State { return l.state }

// Total returns the running order total.
func (l *Ledger) Total() decimal.Decimal { return l.total }

// FormattedTotal returns the total with exactly two decimals.
func (l *Ledger) FormattedTotal() string { return money.String(l.total) }

// Len returns the number of committed items.
func (l *Ledger) Len() int { return len(l.items) }

// Items returns a copy of the committed items in insertion order.
func (l *Ledger) Items() []models.LineItem {
	out := make([]models.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the committed item at index.
func (l *Ledger) Item(index int) (models.LineItem, error) {
	if index < 0 || index >= len(l.items) {
		return models.LineItem{}, precondition("item", "index %d out of range [0, %d)", index, len(l.items))
	}
	return l.items[index], nil
}

// IndexOf returns the index of the last item named product, or -1.
// The form renders duplicates as separate rows and acts on the most recent one.
func (l *Ledger) IndexOf(product string) int {
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].ProductName == product {
			return i
		}
	}
	return -1
}

// Pending returns the staged entry.
func (l *Ledger) Pending() models.PendingEntry { return l.pending }

// Stage replaces the pending entry. It is not validated until Commit.
func (l *Ledger) Stage(entry models.PendingEntry) error {
	if err := l.requireOpen("stage"); err != nil {
		return err
	}
	l.pending = entry
	return nil
}

// ClearPending discards the staged entry.
func (l *Ledger) ClearPending() {
	l.pending = models.PendingEntry{}
}

// Commit validates the pending entry, appends it as a LineItem and clears it.
func (l *Ledger) Commit() (models.LineItem, error) {
	if err := l.requireOpen("commit"); err != nil {
		return models.LineItem{}, err
	}
	if err := validateEntry(l.pending); err != nil {
		return models.LineItem{}, err
	}

	item := models.LineItem{
		ProductName: l.pending.Product,
		Unit:        l.pending.Unit,
		Quantity:    l.pending.Quantity,
		UnitCost:    l.pending.Cost,
		LineTotal:   money.LineTotal(l.pending.Quantity, l.pending.Cost),
	}
	l.items = append(l.items, item)
	l.recompute()
	l.ClearPending()
	return item, nil
}

// Add stages entry and commits it.
func (l *Ledger) Add(entry models.PendingEntry) (models.LineItem, error) {
	if err := l.Stage(entry); err != nil {
		return models.LineItem{}, err
	}
	item, err := l.Commit()
	if err != nil {
		l.ClearPending()
		return models.LineItem{}, err
	}
	return item, nil
}

// Unstage removes the item at index and stages its fields back into the
// pending entry. This is the first half of an edit.
func (l *Ledger) Unstage(index int) (models.LineItem, error) {
	removed, err := l.remove("unstage", index)
	if err != nil {
		return models.LineItem{}, err
	}
	l.pending = removed.Entry()
	return removed, nil
}

// Edit replaces the item at index with updated. The new item is appended,
// matching the form, which re-adds edited rows at the bottom.
func (l *Ledger) Edit(index int, updated models.PendingEntry) (removed, added models.LineItem, err error) {
	if err := validateEntry(updated); err != nil {
		return models.LineItem{}, models.LineItem{}, err
	}
	removed, err = l.Unstage(index)
	if err != nil {
		return models.LineItem{}, models.LineItem{}, err
	}
	l.pending = updated
	added, err = l.Commit()
	if err != nil {
		return removed, models.LineItem{}, err
	}
	return removed, added, nil
}

// Delete removes the item at index.
func (l *Ledger) Delete(index int) (models.LineItem, error) {
	return l.remove("delete", index)
}

// DeleteProduct removes every item named product and returns them in
// insertion order. With "unify same items" the form renders them as one row,
// so deleting or editing that row drops all of them.
func (l *Ledger) DeleteProduct(product string) ([]models.LineItem, error) {
	if err := l.requireOpen("delete product"); err != nil {
		return nil, err
	}
	var removed []models.LineItem
	kept := l.items[:0]
	for _, item := range l.items {
		if item.ProductName == product {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		return nil, precondition("delete product", "no item for %s", product)
	}
	l.items = kept
	l.recompute()
	return removed, nil
}

// Unified returns the items merged by product name. The ledger itself is
// left untouched; the merged view is what the form shows with "unify same
// items" enabled.
func (l *Ledger) Unified() []models.LineItem {
	return Unify(l.items)
}

// Submit finalizes the order. Requires a reference.
func (l *Ledger) Submit() error {
	return l.finalize("submit", Submitted, true)
}

// SaveDraft persists the order without submitting it. Requires a reference.
func (l *Ledger) SaveDraft() error {
	return l.finalize("save draft", Drafted, true)
}

// Cancel discards the order.
func (l *Ledger) Cancel() error {
	return l.finalize("cancel", Cancelled, false)
}

func (l *Ledger) finalize(op string, to State, needsReference bool) error {
	if err := l.requireOpen(op); err != nil {
		return err
	}
	if needsReference && l.order.Reference == "" {
		return precondition(op, "reference is required")
	}
	l.state = to
	l.ClearPending()
	return nil
}

func (l *Ledger) remove(op string, index int) (models.LineItem, error) {
	if err := l.requireOpen(op); err != nil {
		return models.LineItem{}, err
	}
	if index < 0 || index >= len(l.items) {
		return models.LineItem{}, precondition(op, "index %d out of range [0, %d)", index, len(l.items))
	}
	removed := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.recompute()
	return removed, nil
}

func (l *Ledger) recompute() {
	totals := make([]decimal.Decimal, len(l.items))
	for i, item := range l.items {
		totals[i] = item.LineTotal
	}
	l.total = money.Sum(totals...)
}

func (l *Ledger) requireOpen(op string) error {
	if l.state != Open {
		return precondition(op, "order is %s", l.state)
	}
	return nil
}

func validateEntry(e models.PendingEntry) error {
	if e.Product == "" {
		return precondition("commit", "product is required")
	}
	if e.Unit.Name == "" {
		return precondition("commit", "unit is required for %s", e.Product)
	}
	if e.Quantity <= 0 {
		return precondition("commit", "quantity must be positive for %s, got %d", e.Product, e.Quantity)
	}
	if e.Cost.IsNegative() {
		return precondition("commit", "cost must not be negative for %s, got %s", e.Product, e.Cost)
	}
	return nil
}
