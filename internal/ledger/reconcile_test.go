package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
)

// fakeForm behaves like the order form: rows are appended on add, edit
// removes the last row of a product and stages it, amounts are printed
// with a variable number of decimals.
type fakeForm struct {
	rows    []fakeRow
	pending models.PendingEntry
	unify   bool

	// fault injection
	skipAdd      bool
	totalOffset  decimal.Decimal
	keepOnDelete bool
}

type fakeRow struct {
	name     string
	unit     string
	quantity int
	cost     decimal.Decimal
}

func (f *fakeForm) AddItem(e models.PendingEntry) error {
	f.pending = models.PendingEntry{}
	if f.skipAdd {
		return nil
	}
	if f.unify {
		for i := range f.rows {
			if f.rows[i].name == e.Product {
				f.rows[i].quantity += e.Quantity
				return nil
			}
		}
	}
	f.rows = append(f.rows, fakeRow{name: e.Product, unit: e.Unit.Name, quantity: e.Quantity, cost: e.Cost})
	return nil
}

func (f *fakeForm) last(name string) int {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].name == name {
			return i
		}
	}
	return -1
}

func (f *fakeForm) EditItem(name string) error {
	i := f.last(name)
	if i < 0 {
		return fmt.Errorf("no row for %s", name)
	}
	r := f.rows[i]
	f.pending = models.PendingEntry{Product: r.name, Unit: models.Reference{Name: r.unit}, Quantity: r.quantity, Cost: r.cost}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

func (f *fakeForm) DeleteItem(name string) error {
	i := f.last(name)
	if i < 0 {
		return fmt.Errorf("no row for %s", name)
	}
	if !f.keepOnDelete {
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
	}
	return nil
}

func (f *fakeForm) HasItem(name string) (bool, error) { return f.last(name) >= 0, nil }

func (f *fakeForm) Row(name string) (Row, error) {
	i := f.last(name)
	if i < 0 {
		return Row{}, errors.New("missing")
	}
	r := f.rows[i]
	return Row{
		Unit:      " " + r.unit + " ",
		Quantity:  fmt.Sprint(r.quantity),
		Cost:      r.cost.String(),
		LineTotal: money.LineTotal(r.quantity, r.cost).String(),
	}, nil
}

func (f *fakeForm) RowCount() (int, error) { return len(f.rows), nil }

func (f *fakeForm) Total() (string, error) {
	total := decimal.Zero
	for _, r := range f.rows {
		total = total.Add(money.LineTotal(r.quantity, r.cost))
	}
	return "$" + total.Add(f.totalOffset).String(), nil
}

func (f *fakeForm) Pending() (Row, error) {
	return Row{Quantity: fmt.Sprint(f.pending.Quantity), Cost: f.pending.Cost.String()}, nil
}

func newReconciler(f *fakeForm) *Reconciler {
	return NewReconciler(openLedger(), f, nil)
}

func TestReconcilerAdd(t *testing.T) {
	r := newReconciler(&fakeForm{})

	item, err := r.AddLineItem(entry("Widget", 3, "2.50"))
	require.NoError(t, err)

	assert.Equal(t, "7.50", money.String(item.LineTotal))
	assert.Equal(t, "7.50", r.Ledger().FormattedTotal())
}

func TestReconcilerAddMissingRow(t *testing.T) {
	r := newReconciler(&fakeForm{skipAdd: true})

	_, err := r.AddLineItem(entry("Widget", 3, "2.50"))

	var ve *VerificationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, ErrVerification)
	assert.Equal(t, "row", ve.Field)
	assert.Equal(t, "Widget", ve.Subject)
}

func TestReconcilerAddWrongTotal(t *testing.T) {
	r := newReconciler(&fakeForm{totalOffset: decimal.RequireFromString("0.01")})

	_, err := r.AddLineItem(entry("Widget", 3, "2.50"))

	var ve *VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "total", ve.Field)
	assert.Equal(t, "7.50", ve.Expected)
	assert.Equal(t, "7.51", ve.Actual)
}

func TestReconcilerEdit(t *testing.T) {
	f := &fakeForm{}
	r := newReconciler(f)
	_, err := r.AddLineItem(entry("Filler", 1, "80"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Widget", 4, "5"))
	require.NoError(t, err)

	added, err := r.EditLineItem(1, entry("Widget", 2, "5.00"))
	require.NoError(t, err)

	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, "90.00", r.Ledger().FormattedTotal())
	assert.Len(t, f.rows, 2)
}

func TestReconcilerEditDuplicateUsesLastRow(t *testing.T) {
	f := &fakeForm{}
	r := newReconciler(f)
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	_, err = r.EditLineItem(r.Ledger().IndexOf("Apple"), entry("Apple", 1, "1.00"))
	require.NoError(t, err)

	assert.Equal(t, "4.00", r.Ledger().FormattedTotal())
	require.Len(t, f.rows, 2)
	assert.Equal(t, 3, f.rows[0].quantity)
	assert.Equal(t, 1, f.rows[1].quantity)
}

func TestReconcilerEditEarlierDuplicateActsOnLastRow(t *testing.T) {
	f := &fakeForm{}
	r := newReconciler(f)
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	added, err := r.EditLineItem(0, entry("Apple", 1, "1.00"))
	require.NoError(t, err)

	assert.Equal(t, 1, added.Quantity)
	assert.Equal(t, "4.00", r.Ledger().FormattedTotal())
	items := r.Ledger().Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	require.Len(t, f.rows, 2)
	assert.Equal(t, 3, f.rows[0].quantity)
	assert.Equal(t, 1, f.rows[1].quantity)
}

func TestReconcilerDeleteEarlierDuplicateActsOnLastRow(t *testing.T) {
	f := &fakeForm{}
	r := newReconciler(f)
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	require.NoError(t, r.DeleteLineItem(0))

	assert.Equal(t, "3.00", r.Ledger().FormattedTotal())
	items := r.Ledger().Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.Len(t, f.rows, 1)
	assert.Equal(t, 3, f.rows[0].quantity)
}

func TestReconcilerUnifiedDeleteRemovesEveryOccurrence(t *testing.T) {
	f := &fakeForm{unify: true}
	r := NewReconciler(New(models.PurchaseOrder{Reference: "INV_3", UnifySameItems: true}), f, nil)
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Pear", 1, "2.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	require.NoError(t, r.DeleteLineItem(2))

	assert.Equal(t, "2.00", r.Ledger().FormattedTotal())
	assert.Equal(t, 1, r.Ledger().Len())
	assert.Equal(t, -1, r.Ledger().IndexOf("Apple"))
	assert.Len(t, f.rows, 1)
}

func TestReconcilerUnifiedEditReplacesMergedRow(t *testing.T) {
	f := &fakeForm{unify: true}
	r := NewReconciler(New(models.PurchaseOrder{Reference: "INV_4", UnifySameItems: true}), f, nil)
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	added, err := r.EditLineItem(0, entry("Apple", 2, "1.50"))
	require.NoError(t, err)

	assert.Equal(t, "3.00", money.String(added.LineTotal))
	assert.Equal(t, "3.00", r.Ledger().FormattedTotal())
	assert.Equal(t, 1, r.Ledger().Len())
	require.Len(t, f.rows, 1)
	assert.Equal(t, 2, f.rows[0].quantity)
}

func TestReconcilerEditInvalidIndex(t *testing.T) {
	r := newReconciler(&fakeForm{})
	_, err := r.EditLineItem(0, entry("Widget", 1, "1.00"))
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestReconcilerDelete(t *testing.T) {
	f := &fakeForm{}
	r := newReconciler(f)
	_, err := r.AddLineItem(entry("Other", 1, "37.66"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Gadget", 2, "6.17"))
	require.NoError(t, err)
	require.Equal(t, "50.00", r.Ledger().FormattedTotal())

	require.NoError(t, r.DeleteLineItem(1))

	assert.Equal(t, "37.66", r.Ledger().FormattedTotal())
	assert.Len(t, f.rows, 1)
}

func TestReconcilerDeleteRowNotRemoved(t *testing.T) {
	r := newReconciler(&fakeForm{keepOnDelete: true})
	_, err := r.AddLineItem(entry("Gadget", 1, "12.34"))
	require.NoError(t, err)

	err = r.DeleteLineItem(0)

	var ve *VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "row count", ve.Field)
	assert.Equal(t, "0", ve.Expected)
	assert.Equal(t, "1", ve.Actual)
}

func TestReconcilerUnify(t *testing.T) {
	f := &fakeForm{unify: true}
	l := New(models.PurchaseOrder{Reference: "INV_2", UnifySameItems: true})
	r := NewReconciler(l, f, nil)

	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err, "the merged row should be checked, not the single entry")

	merged, err := r.UnifyDuplicateItems()
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, 8, merged[0].Quantity)
	assert.Equal(t, "8.00", money.String(merged[0].LineTotal))
	assert.Equal(t, 2, l.Len())
}

func TestReconcilerUnifyDetectsUnmergedRows(t *testing.T) {
	r := newReconciler(&fakeForm{})
	_, err := r.AddLineItem(entry("Apple", 3, "1.00"))
	require.NoError(t, err)
	_, err = r.AddLineItem(entry("Apple", 5, "1.00"))
	require.NoError(t, err)

	_, err = r.UnifyDuplicateItems()

	var ve *VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "row count", ve.Field)
}

func TestCompareRow(t *testing.T) {
	item := models.LineItem{
		ProductName: "Widget",
		Unit:        models.Reference{Name: "box"},
		Quantity:    3,
		UnitCost:    decimal.RequireFromString("2.5"),
		LineTotal:   decimal.RequireFromString("7.5"),
	}

	assert.NoError(t, CompareRow(item, Row{Unit: "box", Quantity: "3", Cost: "2.50", LineTotal: "7.5"}))
	assert.ErrorIs(t, CompareRow(item, Row{Unit: "kg", Quantity: "3", Cost: "2.50", LineTotal: "7.50"}), ErrVerification)
	assert.ErrorIs(t, CompareRow(item, Row{Unit: "box", Quantity: "three", Cost: "2.50", LineTotal: "7.50"}), ErrVerification)
	assert.ErrorIs(t, CompareRow(item, Row{Unit: "box", Quantity: "3", Cost: "2.49", LineTotal: "7.50"}), ErrVerification)
	assert.ErrorIs(t, CompareRow(item, Row{Unit: "box", Quantity: "3", Cost: "2.50", LineTotal: "7.49"}), ErrVerification)
}
