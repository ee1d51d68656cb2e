package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/storage"
)

const purchaseDateLayout = "2006-01-02"

// CreatePurchase persists a purchase order and its lines in one transaction.
func (s *SQLiteStore) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.SavedAt == 0 {
		p.SavedAt = p.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO purchases (id, supplier_id, purchase_date, type, reference, draft, total, created_at, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Supplier.ID, p.PurchaseDate.Format(purchaseDateLayout), int(p.Type), p.Reference,
		p.Draft, p.Total.StringFixed(2), p.CreatedAt, p.SavedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("purchase supplier %s: %w", p.Supplier.ID, storage.ErrUnknownReference)
		}
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	for i, line := range p.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO purchase_items (purchase_id, position, product_id, unit_id, quantity, cost, line_total)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, line.ProductID, line.Unit.ID, line.Quantity, line.UnitCost.String(), line.LineTotal.StringFixed(2),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("purchase line %d: %w", i, storage.ErrUnknownReference)
			}
			return fmt.Errorf("failed to insert purchase item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const purchaseColumns = `
	p.id, s.id, s.name, p.purchase_date, p.type, p.reference, p.draft, p.total, p.created_at, p.saved_at
	FROM purchases p JOIN suppliers s ON s.id = p.supplier_id
`

// GetPurchase retrieves a purchase order with its lines.
func (s *SQLiteStore) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	p, err := scanPurchase(s.db.QueryRowContext(ctx, "SELECT "+purchaseColumns+" WHERE p.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if p.Lines, err = s.purchaseLines(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPurchases returns headers and lines of drafts or submitted orders.
func (s *SQLiteStore) ListPurchases(ctx context.Context, drafts bool) ([]*models.Purchase, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+purchaseColumns+" WHERE p.draft = ? ORDER BY p.created_at DESC, p.rowid DESC", drafts)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	var purchases []*models.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}
	rows.Close()

	// Lines are loaded after the cursor is closed: the store holds a single connection.
	for _, p := range purchases {
		if p.Lines, err = s.purchaseLines(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row scanner) (*models.Purchase, error) {
	var (
		p     models.Purchase
		date  string
		typ   int
		total string
	)
	if err := row.Scan(&p.ID, &p.Supplier.ID, &p.Supplier.Name, &date, &typ, &p.Reference,
		&p.Draft, &total, &p.CreatedAt, &p.SavedAt); err != nil {
		return nil, err
	}

	var err error
	if p.PurchaseDate, err = time.Parse(purchaseDateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: %w", date, err)
	}
	if p.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid purchase total %q: %w", total, err)
	}
	p.Type = models.PurchaseType(typ)
	return &p, nil
}

func (s *SQLiteStore) purchaseLines(ctx context.Context, purchaseID string) ([]models.PurchaseLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.product_id, p.name, u.id, u.name, i.quantity, i.cost, i.line_total
		FROM purchase_items i
		JOIN products p ON p.id = i.product_id
		JOIN product_units u ON u.id = i.unit_id
		WHERE i.purchase_id = ?
		ORDER BY i.position`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase items: %w", err)
	}
	defer rows.Close()

	var lines []models.PurchaseLine
	for rows.Next() {
		var (
			line            models.PurchaseLine
			cost, lineTotal string
		)
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Unit.ID, &line.Unit.Name,
			&line.Quantity, &cost, &lineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		if line.UnitCost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("invalid cost %q: %w", cost, err)
		}
		if line.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
			return nil, fmt.Errorf("invalid line total %q: %w", lineTotal, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase items: %w", err)
	}
	return lines, nil
}
