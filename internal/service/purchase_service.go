package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/storage"
)

// PurchaseRequest is a purchase order to create.
type PurchaseRequest struct {
	SupplierID     string
	PurchaseDate   time.Time
	Type           models.PurchaseType
	Reference      string
	Draft          bool
	UnifySameItems bool
	Items          []PurchaseItemRequest
}

// PurchaseItemRequest is one line of a PurchaseRequest. UnitID defaults to
// the product's unit.
type PurchaseItemRequest struct {
	ProductID string
	UnitID    string
	Quantity  int
	Cost      decimal.Decimal
}

// PurchaseService creates and lists purchase orders. Totals are computed by
// a ledger exactly as the suite expects to see them rendered.
type PurchaseService struct {
	store storage.Store
	now   func() time.Time
}

func NewPurchaseService(store storage.Store) *PurchaseService {
	return &PurchaseService{store: store, now: time.Now}
}

// CreatePurchase validates and stores a purchase order.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req PurchaseRequest) (*models.Purchase, error) {
	slog.Info("CreatePurchase request received",
		"supplier_id", req.SupplierID,
		"reference", req.Reference,
		"items", len(req.Items),
		"draft", req.Draft,
	)
	if req.SupplierID == "" {
		return nil, invalid("supplier_id is required")
	}
	if len(req.Items) == 0 {
		return nil, invalid("at least one item is required")
	}
	if req.PurchaseDate.IsZero() {
		req.PurchaseDate = s.now()
	}

	supplier, err := s.supplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	l := ledger.New(models.PurchaseOrder{
		Supplier:       supplier,
		PurchaseDate:   req.PurchaseDate,
		Type:           req.Type,
		Reference:      req.Reference,
		UnifySameItems: req.UnifySameItems,
	})
	// product IDs in ledger item order; names may repeat across products
	var productIDs []string
	var units map[string]models.Reference
	for i, item := range req.Items {
		product, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalid("item %d: unknown product %q", i, item.ProductID)
			}
			return nil, err
		}

		unit := product.Unit
		if item.UnitID != "" && item.UnitID != unit.ID {
			if units == nil {
				if units, err = s.references(ctx, models.KindUnit); err != nil {
					return nil, err
				}
			}
			var ok bool
			if unit, ok = units[item.UnitID]; !ok {
				return nil, invalid("item %d: unknown unit %q", i, item.UnitID)
			}
		}

		if _, err := l.Add(models.PendingEntry{Product: product.Name, Unit: unit, Quantity: item.Quantity, Cost: item.Cost}); err != nil {
			return nil, invalid("item %d: %v", i, err)
		}
		productIDs = append(productIDs, product.ID)
	}

	finalize := l.Submit
	if req.Draft {
		finalize = l.SaveDraft
	}
	if err := finalize(); err != nil {
		return nil, invalid("%v", err)
	}

	items, ids := l.Items(), productIDs
	if req.UnifySameItems {
		items, ids = l.Unified(), unifiedProductIDs(l.Items(), productIDs)
	}
	purchase := &models.Purchase{
		Supplier:     supplier,
		PurchaseDate: req.PurchaseDate,
		Type:         req.Type,
		Reference:    req.Reference,
		Draft:        req.Draft,
		Total:        l.Total(),
		CreatedAt:    s.now().Unix(),
	}
	for i, item := range items {
		purchase.Lines = append(purchase.Lines, models.PurchaseLine{ProductID: ids[i], LineItem: item})
	}

	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		slog.Error("CreatePurchase failed", "reference", req.Reference, "error", err)
		return nil, err
	}
	slog.Info("Purchase created", "purchase_id", purchase.ID, "total", l.FormattedTotal(), "state", l.State().String())
	return purchase, nil
}

func (s *PurchaseService) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	return s.store.GetPurchase(ctx, id)
}

// ListPurchases returns submitted orders or drafts, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, drafts bool) ([]*models.Purchase, error) {
	purchases, err := s.store.ListPurchases(ctx, drafts)
	if err != nil {
		slog.Error("ListPurchases failed", "drafts", drafts, "error", err)
		return nil, err
	}
	slog.Info("ListPurchases successful", "drafts", drafts, "count", len(purchases))
	return purchases, nil
}

func (s *PurchaseService) supplier(ctx context.Context, id string) (models.Reference, error) {
	suppliers, err := s.references(ctx, models.KindSupplier)
	if err != nil {
		return models.Reference{}, err
	}
	supplier, ok := suppliers[id]
	if !ok {
		return models.Reference{}, invalid("unknown supplier %q", id)
	}
	return supplier, nil
}

func (s *PurchaseService) references(ctx context.Context, kind models.ReferenceKind) (map[string]models.Reference, error) {
	refs, err := s.store.ListReferences(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}
	byID := make(map[string]models.Reference, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	return byID, nil
}

// unifiedProductIDs returns the product ID of each merged line. A merged
// line takes its first occurrence's ID, as it takes its unit and cost.
func unifiedProductIDs(items []models.LineItem, ids []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for i, item := range items {
		if seen[item.ProductName] {
			continue
		}
		seen[item.ProductName] = true
		out = append(out, ids[i])
	}
	return out
}
