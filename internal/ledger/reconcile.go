package ledger

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
)

// Row is what the order form renders for one line item. Values are raw text;
// the form may print amounts with any number of decimals.
type Row struct {
	Unit      string
	Quantity  string
	Cost      string
	LineTotal string
}

// Form is the rendered side of an order: the new purchase order form as seen
// through the UI driver. Rows are addressed by product name; when several
// rows share a name, the most recently rendered one is used.
type Form interface {
	// AddItem fills the pending fields with entry and triggers "add".
	AddItem(entry models.PendingEntry) error
	// EditItem triggers "edit" on the row for product. The form removes the
	// row and stages its values back into the pending fields.
	EditItem(product string) error
	// DeleteItem triggers "delete" on the row for product.
	DeleteItem(product string) error
	HasItem(product string) (bool, error)
	Row(product string) (Row, error)
	RowCount() (int, error)
	// Total returns the rendered running order total.
	Total() (string, error)
}

// PendingReader is implemented by forms that can report the staged fields.
// When available, edits also check that the removed item was staged back.
type PendingReader interface {
	Pending() (Row, error)
}

// Reconciler applies mutations to a Ledger and the Form together and
// verifies after each one that the form shows what the ledger computed.
type Reconciler struct {
	ledger *Ledger
	form   Form
	logger *slog.Logger
}

// NewReconciler binds a ledger to a form. A nil logger uses slog.Default().
func NewReconciler(ledger *Ledger, form Form, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{ledger: ledger, form: form, logger: logger}
}

// Ledger returns the underlying ledger.
func (r *Reconciler) Ledger() *Ledger { return r.ledger }

// AddLineItem commits entry and verifies the new row and the running total.
func (r *Reconciler) AddLineItem(entry models.PendingEntry) (models.LineItem, error) {
	r.logger.Info("Adding line item",
		"product", entry.Product,
		"unit", entry.Unit.Name,
		"quantity", entry.Quantity,
		"cost", entry.Cost.String(),
	)

	item, err := r.ledger.Add(entry)
	if err != nil {
		return models.LineItem{}, err
	}
	if err := r.form.AddItem(entry); err != nil {
		return models.LineItem{}, fmt.Errorf("failed to add %s on the form: %w", entry.Product, err)
	}

	if err := r.verifyRow(r.rendered(item)); err != nil {
		return models.LineItem{}, err
	}
	if err := r.VerifyTotal(); err != nil {
		return models.LineItem{}, err
	}

	r.logger.Debug("Line item reconciled", "product", item.ProductName, "line_total", money.String(item.LineTotal), "order_total", r.ledger.FormattedTotal())
	return item, nil
}

// EditLineItem removes the item at index, checks the total dropped by its
// line total, re-adds it with updated values and checks the total rose by
// the new line total. The form edits the last row of a product, so index is
// resolved to the last occurrence of its product.
func (r *Reconciler) EditLineItem(index int, updated models.PendingEntry) (models.LineItem, error) {
	if err := validateEntry(updated); err != nil {
		return models.LineItem{}, err
	}
	previous := r.ledger.Total()

	removed, err := r.take(index)
	if err != nil {
		return models.LineItem{}, err
	}
	r.logger.Info("Editing line item",
		"product", removed.ProductName,
		"index", index,
		"old_quantity", removed.Quantity,
		"new_quantity", updated.Quantity,
	)
	if err := r.ledger.Stage(removed.Entry()); err != nil {
		return models.LineItem{}, err
	}

	if err := r.form.EditItem(removed.ProductName); err != nil {
		return models.LineItem{}, fmt.Errorf("failed to edit %s on the form: %w", removed.ProductName, err)
	}

	afterRemoval := money.Round(previous.Sub(removed.LineTotal))
	if !afterRemoval.Equal(r.ledger.Total()) {
		return models.LineItem{}, mismatch("order", "total after removal", money.String(afterRemoval), r.ledger.FormattedTotal())
	}
	if err := r.VerifyTotal(); err != nil {
		return models.LineItem{}, err
	}
	if err := r.verifyStaged(removed); err != nil {
		return models.LineItem{}, err
	}

	if err := r.ledger.Stage(updated); err != nil {
		return models.LineItem{}, err
	}
	added, err := r.ledger.Commit()
	if err != nil {
		return models.LineItem{}, err
	}
	if err := r.form.AddItem(updated); err != nil {
		return models.LineItem{}, fmt.Errorf("failed to re-add %s on the form: %w", updated.Product, err)
	}

	expected := money.Round(afterRemoval.Add(added.LineTotal))
	if !expected.Equal(r.ledger.Total()) {
		return models.LineItem{}, mismatch("order", "total after re-commit", money.String(expected), r.ledger.FormattedTotal())
	}
	if err := r.verifyRow(r.rendered(added)); err != nil {
		return models.LineItem{}, err
	}
	if err := r.VerifyTotal(); err != nil {
		return models.LineItem{}, err
	}
	return added, nil
}

// DeleteLineItem removes the item at index and verifies exactly one row
// disappeared and the total dropped by its line total. As with edits, the
// last occurrence of the product is the one removed.
func (r *Reconciler) DeleteLineItem(index int) error {
	if _, err := r.ledger.Item(index); err != nil {
		return err
	}
	before, err := r.form.RowCount()
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	previous := r.ledger.Total()

	removed, err := r.take(index)
	if err != nil {
		return err
	}
	r.logger.Info("Deleting line item", "product", removed.ProductName, "index", index)

	if err := r.form.DeleteItem(removed.ProductName); err != nil {
		return fmt.Errorf("failed to delete %s on the form: %w", removed.ProductName, err)
	}

	after, err := r.form.RowCount()
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if after != before-1 {
		return mismatch("order", "row count", strconv.Itoa(before-1), strconv.Itoa(after))
	}

	expected := money.Round(previous.Sub(removed.LineTotal))
	if !expected.Equal(r.ledger.Total()) {
		return mismatch("order", "total after delete", money.String(expected), r.ledger.FormattedTotal())
	}
	return r.VerifyTotal()
}

// take removes from the ledger what the form drops when the row of the
// product at index is edited or deleted: its last occurrence, or every
// occurrence merged into one item when the order unifies same items. The
// returned line total is what the ledger total dropped by.
func (r *Reconciler) take(index int) (models.LineItem, error) {
	item, err := r.ledger.Item(index)
	if err != nil {
		return models.LineItem{}, err
	}

	if r.ledger.Order().UnifySameItems {
		removed, err := r.ledger.DeleteProduct(item.ProductName)
		if err != nil {
			return models.LineItem{}, err
		}
		merged := Unify(removed)[0]
		totals := make([]decimal.Decimal, len(removed))
		for i, it := range removed {
			totals[i] = it.LineTotal
		}
		merged.LineTotal = money.Sum(totals...)
		return merged, nil
	}

	last := r.ledger.IndexOf(item.ProductName)
	if last != index {
		r.logger.Debug("Resolved line item to the last row of its product", "product", item.ProductName, "index", index, "last", last)
	}
	return r.ledger.Delete(last)
}

// UnifyDuplicateItems verifies the form shows one row per product with the
// summed quantity, and returns the merged items.
func (r *Reconciler) UnifyDuplicateItems() ([]models.LineItem, error) {
	merged := r.ledger.Unified()
	r.logger.Info("Verifying unified items", "items", r.ledger.Len(), "unified", len(merged))

	count, err := r.form.RowCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	if count != len(merged) {
		return nil, mismatch("order", "row count", strconv.Itoa(len(merged)), strconv.Itoa(count))
	}

	for _, item := range merged {
		if err := r.verifyRow(item); err != nil {
			return nil, err
		}
	}
	if err := r.VerifyTotal(); err != nil {
		return nil, err
	}
	return merged, nil
}

// VerifyTotal checks the rendered running total against the ledger.
func (r *Reconciler) VerifyTotal() error {
	rendered, err := r.form.Total()
	if err != nil {
		return fmt.Errorf("failed to read order total: %w", err)
	}
	return CompareAmount("order", "total", r.ledger.FormattedTotal(), rendered)
}

// rendered returns the row the form should show for item: the item itself,
// or its merged counterpart when the order unifies same items.
func (r *Reconciler) rendered(item models.LineItem) models.LineItem {
	if !r.ledger.Order().UnifySameItems {
		return item
	}
	for _, merged := range r.ledger.Unified() {
		if merged.ProductName == item.ProductName {
			return merged
		}
	}
	return item
}

func (r *Reconciler) verifyRow(item models.LineItem) error {
	ok, err := r.form.HasItem(item.ProductName)
	if err != nil {
		return fmt.Errorf("failed to look up row for %s: %w", item.ProductName, err)
	}
	if !ok {
		return mismatch(item.ProductName, "row", "present", "missing")
	}

	row, err := r.form.Row(item.ProductName)
	if err != nil {
		return fmt.Errorf("failed to read row for %s: %w", item.ProductName, err)
	}
	return CompareRow(item, row)
}

func (r *Reconciler) verifyStaged(removed models.LineItem) error {
	reader, ok := r.form.(PendingReader)
	if !ok {
		return nil
	}
	staged, err := reader.Pending()
	if err != nil {
		return fmt.Errorf("failed to read pending fields: %w", err)
	}
	if err := compareQuantity(removed.ProductName, "staged quantity", removed.Quantity, staged.Quantity); err != nil {
		return err
	}
	if !money.Equal(removed.UnitCost, staged.Cost) {
		return mismatch(removed.ProductName, "staged cost", money.String(removed.UnitCost), staged.Cost)
	}
	return nil
}

// CompareRow checks a rendered row against a committed item. Cost is
// compared numerically, line total after normalizing to two decimals.
func CompareRow(item models.LineItem, row Row) error {
	if unit := strings.TrimSpace(row.Unit); unit != item.Unit.Name {
		return mismatch(item.ProductName, "unit", item.Unit.Name, unit)
	}
	if err := compareQuantity(item.ProductName, "quantity", item.Quantity, row.Quantity); err != nil {
		return err
	}
	if !money.Equal(item.UnitCost, row.Cost) {
		return mismatch(item.ProductName, "cost", money.String(item.UnitCost), row.Cost)
	}
	return CompareAmount(item.ProductName, "line total", money.String(item.LineTotal), row.LineTotal)
}

// CompareAmount checks that rendered, normalized to two decimals, equals expected.
func CompareAmount(subject, field, expected, rendered string) error {
	got, err := money.Format(rendered)
	if err != nil {
		return mismatch(subject, field, expected, rendered)
	}
	if got != expected {
		return mismatch(subject, field, expected, got)
	}
	return nil
}

func compareQuantity(subject, field string, expected int, rendered string) error {
	got, err := strconv.Atoi(strings.TrimSpace(rendered))
	if err != nil || got != expected {
		return mismatch(subject, field, strconv.Itoa(expected), rendered)
	}
	return nil
}
