package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/models"
)

type newIDResponse struct {
	NewID string `json:"new_id"`
}

// CreateType creates a product type. A zero value gets random fields.
func (c *Client) CreateType(ctx context.Context, t models.ProductType) (models.Reference, error) {
	if t.Name == "" {
		t.Name = fmt.Sprintf("Test_type_%d", c.suffix())
	}
	if t.Description == "" {
		t.Description = fmt.Sprintf("Description for type %d", c.suffix())
	}
	return c.create(ctx, TypeEndpoint, t.Name, map[string]any{"name": t.Name, "description": t.Description})
}

// CreateUnit creates a product unit. A zero value gets random fields.
func (c *Client) CreateUnit(ctx context.Context, u models.ProductUnit) (models.Reference, error) {
	if u.Name == "" {
		u.Name = fmt.Sprintf("Test_unit_%d", c.suffix())
	}
	if u.Yield == 0 {
		u.Yield = float64(c.rand(1, 10))
	}
	if u.Description == "" {
		u.Description = fmt.Sprintf("Description for unit %d", c.suffix())
	}
	return c.create(ctx, UnitEndpoint, u.Name, map[string]any{
		"name": u.Name, "yield_amount": u.Yield, "description": u.Description,
	})
}

// CreateGroup creates a product group. A zero value gets random fields.
func (c *Client) CreateGroup(ctx context.Context, g models.ProductGroup) (models.Reference, error) {
	if g.Name == "" {
		g.Name = fmt.Sprintf("Test_group_%d", c.suffix())
	}
	if g.Description == "" {
		g.Description = fmt.Sprintf("Description for group %d", c.suffix())
	}
	return c.create(ctx, GroupEndpoint, g.Name, map[string]any{"name": g.Name, "description": g.Description})
}

// CreateSupplier creates a supplier. A zero value gets random fields.
func (c *Client) CreateSupplier(ctx context.Context, s models.Supplier) (models.Reference, error) {
	if s.Name == "" {
		s.Name = fmt.Sprintf("Test_supplier_%d", c.suffix())
	}
	if s.Email == "" {
		s.Email = fmt.Sprintf("supplier_email_%d@gmail.com", c.suffix())
	}
	return c.create(ctx, SupplierEndpoint, s.Name, map[string]any{"name": s.Name, "email": s.Email})
}

func (c *Client) create(ctx context.Context, endpoint, name string, payload map[string]any) (models.Reference, error) {
	var resp newIDResponse
	if err := c.post(ctx, endpoint, payload, &resp); err != nil {
		return models.Reference{}, err
	}
	return models.Reference{ID: resp.NewID, Name: name}, nil
}

// CreateProduct creates a product bound to the given catalog entries. An
// empty name gets a random one.
func (c *Client) CreateProduct(ctx context.Context, name string, typ, unit, group, supplier models.Reference) (models.Product, error) {
	if name == "" {
		name = fmt.Sprintf("Test_product_%d", c.suffix())
	}
	var resp newIDResponse
	err := c.post(ctx, ProductEndpoint, map[string]any{
		"name":        name,
		"type_id":     typ.ID,
		"unit_id":     unit.ID,
		"group_id":    group.ID,
		"supplier_id": supplier.ID,
	}, &resp)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:       resp.NewID,
		Name:     name,
		Type:     typ,
		Unit:     unit,
		Group:    group,
		Supplier: supplier,
	}, nil
}

// SeedProducts creates one type, unit, group and supplier, then n products
// bound to them.
func (c *Client) SeedProducts(ctx context.Context, n int) ([]models.Product, error) {
	typ, err := c.CreateType(ctx, models.ProductType{})
	if err != nil {
		return nil, err
	}
	unit, err := c.CreateUnit(ctx, models.ProductUnit{})
	if err != nil {
		return nil, err
	}
	group, err := c.CreateGroup(ctx, models.ProductGroup{})
	if err != nil {
		return nil, err
	}
	supplier, err := c.CreateSupplier(ctx, models.Supplier{})
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, n)
	for range n {
		p, err := c.CreateProduct(ctx, "", typ, unit, group, supplier)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	c.logger.Info("Products seeded", "count", n, "supplier", supplier.Name)
	return products, nil
}

// Purchase is a purchase order to create through the API.
type Purchase struct {
	Order models.PurchaseOrder
	Draft bool
	Lines []PurchaseLine
}

// PurchaseLine is one product of a Purchase.
type PurchaseLine struct {
	ProductID string
	Quantity  int
	Cost      decimal.Decimal
}

// CreatePurchase creates a purchase order and returns its id and the total
// computed by the API.
func (c *Client) CreatePurchase(ctx context.Context, p Purchase) (id, total string, err error) {
	items := make([]map[string]any, 0, len(p.Lines))
	for _, line := range p.Lines {
		items = append(items, map[string]any{
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
			"cost":       line.Cost.String(),
		})
	}
	date := p.Order.PurchaseDate
	if date.IsZero() {
		date = time.Now()
	}

	var resp struct {
		NewID string `json:"new_id"`
		Total string `json:"total"`
	}
	err = c.post(ctx, PurchaseEndpoint, map[string]any{
		"supplier_id":      p.Order.Supplier.ID,
		"purchase_date":    date.Format(DateLayout),
		"type":             p.Order.Type.String(),
		"reference":        p.Order.Reference,
		"draft":            p.Draft,
		"unify_same_items": p.Order.UnifySameItems,
		"items":            items,
	}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.NewID, resp.Total, nil
}
