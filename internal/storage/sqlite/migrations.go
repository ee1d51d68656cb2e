package sqlite

import "database/sql"

// schema creates the tables on startup. Catalog tables come before products
// and purchases because of the foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS product_types (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS product_units (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    yield_amount REAL NOT NULL DEFAULT 1,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS product_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS suppliers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type_id TEXT NOT NULL REFERENCES product_types(id),
    unit_id TEXT NOT NULL REFERENCES product_units(id),
    group_id TEXT NOT NULL REFERENCES product_groups(id),
    supplier_id TEXT NOT NULL REFERENCES suppliers(id)
);

CREATE TABLE IF NOT EXISTS purchases (
    id TEXT PRIMARY KEY,
    supplier_id TEXT NOT NULL REFERENCES suppliers(id),
    purchase_date TEXT NOT NULL,
    type INTEGER NOT NULL,
    reference TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    total TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    saved_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_items (
    purchase_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_id TEXT NOT NULL REFERENCES products(id),
    unit_id TEXT NOT NULL REFERENCES product_units(id),
    quantity INTEGER NOT NULL,
    cost TEXT NOT NULL,
    line_total TEXT NOT NULL,
    PRIMARY KEY (purchase_id, position),
    FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_products_supplier_id ON products(supplier_id);
CREATE INDEX IF NOT EXISTS idx_purchases_draft ON purchases(draft, created_at);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
