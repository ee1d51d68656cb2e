package ledger

import (
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/money"
)

// Unify merges items that share a product name into one item per name, in
// first-seen order. Quantities are summed; unit and unit cost come from the
// first occurrence.
//
// Occurrences with different unit costs are merged anyway: the form's rule
// for that case is not known, so no reconciliation is attempted.
func Unify(items []models.LineItem) []models.LineItem {
	index := make(map[string]int, len(items))
	var merged []models.LineItem

	for _, item := range items {
		if i, ok := index[item.ProductName]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductName] = len(merged)
		merged = append(merged, item)
	}

	for i := range merged {
		merged[i].LineTotal = money.LineTotal(merged[i].Quantity, merged[i].UnitCost)
	}
	return merged
}
