package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/storage"
)

// CatalogService creates product types, units, groups, suppliers and products.
type CatalogService struct {
	store storage.Store
}

func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) CreateProductType(ctx context.Context, t models.ProductType) (string, error) {
	if err := requireName(t.Name); err != nil {
		return "", err
	}
	return s.created(models.KindType, t.Name)(s.store.CreateProductType(ctx, t))
}

func (s *CatalogService) CreateProductUnit(ctx context.Context, u models.ProductUnit) (string, error) {
	if err := requireName(u.Name); err != nil {
		return "", err
	}
	if u.Yield < 0 {
		return "", invalid("yield must not be negative")
	}
	if u.Yield == 0 {
		u.Yield = 1
	}
	return s.created(models.KindUnit, u.Name)(s.store.CreateProductUnit(ctx, u))
}

func (s *CatalogService) CreateProductGroup(ctx context.Context, g models.ProductGroup) (string, error) {
	if err := requireName(g.Name); err != nil {
		return "", err
	}
	return s.created(models.KindGroup, g.Name)(s.store.CreateProductGroup(ctx, g))
}

func (s *CatalogService) CreateSupplier(ctx context.Context, sup models.Supplier) (string, error) {
	if err := requireName(sup.Name); err != nil {
		return "", err
	}
	if sup.Email != "" && !strings.Contains(sup.Email, "@") {
		return "", invalid("invalid supplier email %q", sup.Email)
	}
	return s.created(models.KindSupplier, sup.Name)(s.store.CreateSupplier(ctx, sup))
}

// created logs the outcome of a catalog insert and passes it through.
func (s *CatalogService) created(kind models.ReferenceKind, name string) func(string, error) (string, error) {
	return func(id string, err error) (string, error) {
		if err != nil {
			slog.Error("Create catalog entry failed", "kind", kind, "name", name, "error", err)
			return "", err
		}
		slog.Info("Catalog entry created", "kind", kind, "id", id, "name", name)
		return id, nil
	}
}

func (s *CatalogService) ListReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error) {
	refs, err := s.store.ListReferences(ctx, kind)
	if err != nil {
		slog.Error("ListReferences failed", "kind", kind, "error", err)
		return nil, err
	}
	slog.Info("ListReferences successful", "kind", kind, "count", len(refs))
	return refs, nil
}

// CreateProduct creates a product bound to existing catalog entries.
func (s *CatalogService) CreateProduct(ctx context.Context, p storage.NewProduct) (*models.Product, error) {
	if err := requireName(p.Name); err != nil {
		return nil, err
	}
	for field, id := range map[string]string{
		"type_id": p.TypeID, "unit_id": p.UnitID, "group_id": p.GroupID, "supplier_id": p.SupplierID,
	} {
		if id == "" {
			return nil, invalid("%s is required", field)
		}
	}

	product, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		slog.Error("CreateProduct failed", "name", p.Name, "error", err)
		return nil, err
	}
	slog.Info("Product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name is required")
	}
	return nil
}
