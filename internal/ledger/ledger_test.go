package ledger

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
)

func entry(name string, quantity int, cost string) models.PendingEntry {
	return models.PendingEntry{
		Product:  name,
		Unit:     models.Reference{ID: "u1", Name: "box"},
		Quantity: quantity,
		Cost:     decimal.RequireFromString(cost),
	}
}

func openLedger() *Ledger {
	return New(models.PurchaseOrder{Reference: "INV_1", Supplier: models.Reference{ID: "s1", Name: "Acme"}})
}

func TestNewLedgerIsEmpty(t *testing.T) {
	l := openLedger()

	assert.Equal(t, "0.00", l.FormattedTotal())
	assert.Zero(t, l.Len())
	assert.Equal(t, Open, l.State())
	assert.True(t, l.Pending().IsZero())
}

func TestAdd(t *testing.T) {
	l := openLedger()

	item, err := l.Add(entry("Widget", 3, "2.50"))
	require.NoError(t, err)

	assert.Equal(t, "7.50", money.String(item.LineTotal))
	assert.Equal(t, "7.50", l.FormattedTotal())
	assert.True(t, l.Pending().IsZero(), "pending entry should be cleared after commit")
}

func TestAddRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry models.PendingEntry
	}{
		{name: "missing product", entry: entry("", 1, "1.00")},
		{name: "missing unit", entry: models.PendingEntry{Product: "Widget", Quantity: 1, Cost: decimal.NewFromInt(1)}},
		{name: "zero quantity", entry: entry("Widget", 0, "1.00")},
		{name: "negative quantity", entry: entry("Widget", -2, "1.00")},
		{name: "negative cost", entry: entry("Widget", 1, "-0.01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := openLedger()
			_, err := l.Add(tt.entry)
			assert.ErrorIs(t, err, ErrPrecondition)
			assert.Zero(t, l.Len())
			assert.True(t, l.Pending().IsZero())
		})
	}
}

func TestAddAllowsZeroCost(t *testing.T) {
	l := openLedger()
	item, err := l.Add(entry("Sample", 2, "0"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", money.String(item.LineTotal))
}

func TestEditDelta(t *testing.T) {
	l := openLedger()
	_, err := l.Add(entry("Filler", 1, "80.00"))
	require.NoError(t, err)
	_, err = l.Add(entry("Widget", 4, "5.00"))
	require.NoError(t, err)
	require.Equal(t, "100.00", l.FormattedTotal())

	removed, err := l.Unstage(1)
	require.NoError(t, err)
	assert.Equal(t, "20.00", money.String(removed.LineTotal))
	assert.Equal(t, "80.00", l.FormattedTotal())
	assert.Equal(t, removed.Entry(), l.Pending(), "removed item should be staged back")

	require.NoError(t, l.Stage(entry("Widget", 2, "5.00")))
	added, err := l.Commit()
	require.NoError(t, err)

	assert.Equal(t, "10.00", money.String(added.LineTotal))
	assert.Equal(t, "90.00", l.FormattedTotal())
}

func TestEdit(t *testing.T) {
	l := openLedger()
	_, err := l.Add(entry("Widget", 4, "5.00"))
	require.NoError(t, err)

	removed, added, err := l.Edit(0, entry("Widget", 1, "9.99"))
	require.NoError(t, err)
	assert.Equal(t, 4, removed.Quantity)
	assert.Equal(t, "9.99", money.String(added.LineTotal))
	assert.Equal(t, "9.99", l.FormattedTotal())
	assert.Equal(t, 1, l.Len())
}

func TestEditRejectsInvalidUpdateWithoutRemoving(t *testing.T) {
	l := openLedger()
	_, err := l.Add(entry("Widget", 4, "5.00"))
	require.NoError(t, err)

	_, _, err = l.Edit(0, entry("Widget", 0, "5.00"))
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "20.00", l.FormattedTotal())
}

func TestEditOutOfRange(t *testing.T) {
	l := openLedger()
	_, _, err := l.Edit(3, entry("Widget", 1, "1.00"))

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "unstage", pe.Op)
}

func TestDeleteDelta(t *testing.T) {
	l := openLedger()
	_, err := l.Add(entry("Other", 1, "37.66"))
	require.NoError(t, err)
	_, err = l.Add(entry("Gadget", 1, "12.34"))
	require.NoError(t, err)
	require.Equal(t, "50.00", l.FormattedTotal())

	removed, err := l.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "12.34", money.String(removed.LineTotal))
	assert.Equal(t, "37.66", l.FormattedTotal())
	assert.Equal(t, 1, l.Len())
}

func TestDeleteOutOfRange(t *testing.T) {
	l := openLedger()
	_, err := l.Delete(0)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestDeleteProduct(t *testing.T) {
	l := openLedger()
	for _, e := range []models.PendingEntry{entry("Apple", 3, "1.00"), entry("Pear", 1, "2.00"), entry("Apple", 5, "1.00")} {
		_, err := l.Add(e)
		require.NoError(t, err)
	}

	removed, err := l.DeleteProduct("Apple")
	require.NoError(t, err)

	require.Len(t, removed, 2)
	assert.Equal(t, 3, removed[0].Quantity)
	assert.Equal(t, 5, removed[1].Quantity)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "2.00", l.FormattedTotal())

	_, err = l.DeleteProduct("Apple")
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestIndexOfUsesLastMatch(t *testing.T) {
	l := openLedger()
	for _, e := range []models.PendingEntry{entry("Apple", 1, "1.00"), entry("Pear", 1, "1.00"), entry("Apple", 2, "1.00")} {
		_, err := l.Add(e)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, l.IndexOf("Apple"))
	assert.Equal(t, 1, l.IndexOf("Pear"))
	assert.Equal(t, -1, l.IndexOf("Plum"))
}

func TestItemsReturnsCopy(t *testing.T) {
	l := openLedger()
	_, err := l.Add(entry("Widget", 1, "1.00"))
	require.NoError(t, err)

	items := l.Items()
	items[0].Quantity = 99

	got, err := l.Item(0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestLifecycle(t *testing.T) {
	t.Run("submit requires reference", func(t *testing.T) {
		l := New(models.PurchaseOrder{})
		assert.ErrorIs(t, l.Submit(), ErrPrecondition)
		assert.Equal(t, Open, l.State())
	})

	t.Run("draft requires reference", func(t *testing.T) {
		l := New(models.PurchaseOrder{})
		assert.ErrorIs(t, l.SaveDraft(), ErrPrecondition)
	})

	t.Run("cancel needs no reference", func(t *testing.T) {
		l := New(models.PurchaseOrder{})
		require.NoError(t, l.Cancel())
		assert.Equal(t, Cancelled, l.State())
	})

	t.Run("terminal states are exclusive", func(t *testing.T) {
		l := openLedger()
		require.NoError(t, l.Submit())
		assert.ErrorIs(t, l.SaveDraft(), ErrPrecondition)
		assert.ErrorIs(t, l.Cancel(), ErrPrecondition)
		assert.Equal(t, Submitted, l.State())
	})

	t.Run("finalized order refuses mutation", func(t *testing.T) {
		l := openLedger()
		_, err := l.Add(entry("Widget", 1, "1.00"))
		require.NoError(t, err)
		require.NoError(t, l.SaveDraft())

		_, err = l.Add(entry("Widget", 1, "1.00"))
		assert.ErrorIs(t, err, ErrPrecondition)
		_, err = l.Delete(0)
		assert.ErrorIs(t, err, ErrPrecondition)
		assert.ErrorIs(t, l.SetOrder(models.PurchaseOrder{}), ErrPrecondition)
		assert.Equal(t, "1.00", l.FormattedTotal())
	})
}

// Random add/edit/delete sequences must keep the total equal to the
// rounded sum of quantity * cost.
func TestTotalInvariantUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"Apple", "Pear", "Plum", "Fig"}

	for run := 0; run < 50; run++ {
		l := openLedger()
		for step := 0; step < 40; step++ {
			e := entry(names[rng.IntN(len(names))], rng.IntN(20)+1, money.String(decimal.New(int64(rng.IntN(10000)), -2)))

			switch op := rng.IntN(3); {
			case op == 0 || l.Len() == 0:
				_, err := l.Add(e)
				require.NoError(t, err)
			case op == 1:
				_, _, err := l.Edit(rng.IntN(l.Len()), e)
				require.NoError(t, err)
			default:
				_, err := l.Delete(rng.IntN(l.Len()))
				require.NoError(t, err)
			}

			expected := decimal.Zero
			for _, item := range l.Items() {
				expected = expected.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitCost))
			}
			require.Equal(t, money.String(money.Round(expected)), l.FormattedTotal(), "run %d step %d", run, step)
		}
	}
}
