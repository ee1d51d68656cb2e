// Package models defines the domain models shared by the Stocktake suite.
//
// # Catalog Models
//
// Fixtures created through the Stocktake API before a scenario runs:
//   - Reference: id + display name of a type, unit, group or supplier
//   - Product: a catalog product bound to one of each reference kind
//
// # Purchase Models
//
// Values the new purchase order form is driven with:
//   - PurchaseOrder: header fields of an order (supplier, date, type, reference)
//   - PendingEntry: the product/unit/quantity/cost fields before "add"
//   - LineItem: a committed entry with its derived line total
//
// # Accounts
//
//   - User: an account of the stub Stocktake API
//
// # Design Principles
//
// 1. **Amounts are decimals**: never float64, so two-decimal comparisons are exact
// 2. **Identifiers are strings**: the API returns string ids
// 3. **No behavior**: arithmetic lives in the ledger package
package models
