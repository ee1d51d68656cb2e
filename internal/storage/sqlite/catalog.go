package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/storage"
)

var referenceTables = map[models.ReferenceKind]string{
	models.KindType:     "product_types",
	models.KindUnit:     "product_units",
	models.KindGroup:    "product_groups",
	models.KindSupplier: "suppliers",
}

func (s *SQLiteStore) CreateProductType(ctx context.Context, t models.ProductType) (string, error) {
	return s.insert(ctx, "product type",
		"INSERT INTO product_types (id, name, description) VALUES (?, ?, ?)", t.Name, t.Description)
}

func (s *SQLiteStore) CreateProductUnit(ctx context.Context, u models.ProductUnit) (string, error) {
	return s.insert(ctx, "product unit",
		"INSERT INTO product_units (id, name, yield_amount, description) VALUES (?, ?, ?, ?)", u.Name, u.Yield, u.Description)
}

func (s *SQLiteStore) CreateProductGroup(ctx context.Context, g models.ProductGroup) (string, error) {
	return s.insert(ctx, "product group",
		"INSERT INTO product_groups (id, name, description) VALUES (?, ?, ?)", g.Name, g.Description)
}

func (s *SQLiteStore) CreateSupplier(ctx context.Context, sup models.Supplier) (string, error) {
	return s.insert(ctx, "supplier",
		"INSERT INTO suppliers (id, name, email) VALUES (?, ?, ?)", sup.Name, sup.Email)
}

// insert runs query with a fresh id prepended to args.
func (s *SQLiteStore) insert(ctx context.Context, what, query string, args ...any) (string, error) {
	id := uuid.New().String()
	if _, err := s.db.ExecContext(ctx, query, append([]any{id}, args...)...); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", what, err)
	}
	return id, nil
}

func (s *SQLiteStore) ListReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", kind)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	var refs []models.Reference
	for rows.Next() {
		var ref models.Reference
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", kind, err)
	}
	return refs, nil
}

// CreateProduct inserts a product and returns it with its references resolved.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p storage.NewProduct) (*models.Product, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO products (id, name, type_id, unit_id, group_id, supplier_id) VALUES (?, ?, ?, ?, ?, ?)",
		id, p.Name, p.TypeID, p.UnitID, p.GroupID, p.SupplierID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("product %s: %w", p.Name, storage.ErrUnknownReference)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.GetProduct(ctx, id)
}

const productQuery = `
	SELECT p.id, p.name, t.id, t.name, u.id, u.name, g.id, g.name, s.id, s.name
	FROM products p
	JOIN product_types t ON t.id = p.type_id
	JOIN product_units u ON u.id = p.unit_id
	JOIN product_groups g ON g.id = p.group_id
	JOIN suppliers s ON s.id = p.supplier_id
	WHERE p.id = ?
`

func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRowContext(ctx, productQuery, id).Scan(
		&p.ID, &p.Name,
		&p.Type.ID, &p.Type.Name,
		&p.Unit.ID, &p.Unit.Name,
		&p.Group.ID, &p.Group.Name,
		&p.Supplier.ID, &p.Supplier.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
