// Package storage defines persistence for the stub Stocktake API.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/stocktake/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownReference is returned when a record refers to a missing one.
	ErrUnknownReference = errors.New("referenced record does not exist")
)

// NewProduct is a product to create, referring to catalog entries by id.
type NewProduct struct {
	Name       string
	TypeID     string
	UnitID     string
	GroupID    string
	SupplierID string
}

// Store persists users, the product catalog and purchase orders.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns ErrNotFound when no user has email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// The Create* catalog methods return the id of the new record.
	CreateProductType(ctx context.Context, t models.ProductType) (string, error)
	CreateProductUnit(ctx context.Context, u models.ProductUnit) (string, error)
	CreateProductGroup(ctx context.Context, g models.ProductGroup) (string, error)
	CreateSupplier(ctx context.Context, s models.Supplier) (string, error)
	// ListReferences returns the entries of one catalog collection by name.
	ListReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error)

	CreateProduct(ctx context.Context, p NewProduct) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	// CreatePurchase assigns ID and CreatedAt when unset.
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)
	// ListPurchases returns drafts or submitted orders, newest first.
	ListPurchases(ctx context.Context, drafts bool) ([]*models.Purchase, error)

	Close() error
}
