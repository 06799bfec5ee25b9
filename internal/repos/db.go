package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: keeps ":memory:" databases shared and serializes sqlite writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Per-session client state (cart, lastOrder, checkout stage, flash)
CREATE TABLE IF NOT EXISTS local_state(
  session_id TEXT NOT NULL,
  key        TEXT NOT NULL,
  value      BLOB NOT NULL,
  updated_at TEXT,
  PRIMARY KEY (session_id, key)
);

-- Products served by the local product API
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Order records, one per purchased line
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  date TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedIfEmpty inserts demo products when the catalog is empty.
func SeedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	tx.MustExec(`INSERT INTO products(name,category,description,price,quantity,image) VALUES
	  ('Fountain Pen','Stationery','Steel nib, refillable converter',450,12,'placeholder.jpg'),
	  ('Notebook A5','Stationery','Dotted, 120 gsm paper',199,30,'placeholder.jpg'),
	  ('Desk Lamp','Home','Warm LED, adjustable arm',1299,4,'placeholder.jpg'),
	  ('Ceramic Mug','Home','350 ml, dishwasher safe',249,0,'placeholder.jpg')`)
	return tx.Commit()
}
