package devserver

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenDB opens the backing database. A postgres:// URL selects the pq
// driver; anything else is treated as a sqlite file path. Both drivers
// accept $N placeholders, so query code is shared.
func OpenDB(databaseURL string) (*sql.DB, string, error) {
	driver := "sqlite"
	dsn := databaseURL
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, driver, nil
}

// idColumn returns the auto-increment primary key DDL for the driver
func idColumn(driver string) string {
	if driver == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Migrate creates the schema if it does not exist
func Migrate(db *sql.DB, driver string) error {
	id := idColumn(driver)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + id + `,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			token TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			category_id ` + id + `,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id ` + id + `,
			category_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			rating_va INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			service_id ` + id + `,
			service_name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			duration TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS favourites (
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id ` + id + `,
			user_id BIGINT NOT NULL,
			items_total DOUBLE PRECISION NOT NULL,
			shipping DOUBLE PRECISION NOT NULL,
			grand_total DOUBLE PRECISION NOT NULL,
			address_id BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'placed',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			quantity INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			address_id ` + id + `,
			user_id BIGINT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			zip TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			feedback_id ` + id + `,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL DEFAULT 0,
			rating INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resources (
			resource_id ` + id + `,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			booking_id ` + id + `,
			user_id BIGINT NOT NULL,
			service_id BIGINT NOT NULL,
			scheduled_at TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Seed loads a small UPS catalog for local development. Idempotent: it
// does nothing when categories already exist.
func Seed(db *sql.DB) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	categories := []string{"Tower UPS", "Rackmount UPS", "Batteries", "Accessories"}
	catIDs := map[string]int64{}
	for _, name := range categories {
		var id int64
		if err := db.QueryRow(`INSERT INTO categories (name) VALUES ($1) RETURNING category_id`, name).Scan(&id); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
		catIDs[name] = id
	}

	products := []struct {
		category string
		name     string
		brand    string
		price    float64
		stock    int
		va       int
	}{
		{"Tower UPS", "PowerShield 650VA Line-Interactive", "PowerShield", 3800, 12, 650},
		{"Tower UPS", "PowerShield 1000VA Line-Interactive", "PowerShield", 5400, 8, 1000},
		{"Tower UPS", "VoltKeep 1500VA Pure Sine", "VoltKeep", 8900, 5, 1500},
		{"Tower UPS", "VoltKeep 2200VA Online Double-Conversion", "VoltKeep", 16500, 3, 2200},
		{"Rackmount UPS", "RackGuard 1U 1000VA", "RackGuard", 12400, 6, 1000},
		{"Rackmount UPS", "RackGuard 2U 3000VA", "RackGuard", 28900, 2, 3000},
		{"Batteries", "12V 7Ah Sealed Lead-Acid", "CellMax", 950, 40, 0},
		{"Batteries", "12V 9Ah Sealed Lead-Acid", "CellMax", 1250, 30, 0},
		{"Accessories", "Surge Protector Strip 6-way", "VoltKeep", 650, 25, 0},
		{"Accessories", "UPS Monitoring USB Cable", "RackGuard", 350, 18, 0},
	}
	for _, p := range products {
		_, err := db.Exec(`
			INSERT INTO products (category_id, name, brand, price, stock, rating_va)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			catIDs[p.category], p.name, p.brand, p.price, p.stock, p.va)
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.name, err)
		}
	}

	services := []struct {
		name     string
		price    float64
		duration string
		desc     string
	}{
		{"On-site installation", 1500, "2h", "Installation and load testing at your site"},
		{"Battery replacement", 450, "45m", "Swap worn batteries, old cells recycled"},
		{"Annual maintenance", 2500, "3h", "Full inspection, firmware and battery health check"},
	}
	for _, s := range services {
		_, err := db.Exec(`
			INSERT INTO services (service_name, price, duration, description)
			VALUES ($1, $2, $3, $4)`,
			s.name, s.price, s.duration, s.desc)
		if err != nil {
			return fmt.Errorf("failed to seed service %q: %w", s.name, err)
		}
	}

	resources := [][3]string{
		{"UPS sizing guide", "https://voltmart.example/guides/sizing", "guide"},
		{"Battery care handbook", "https://voltmart.example/guides/battery-care", "guide"},
		{"Warranty terms", "https://voltmart.example/warranty", "policy"},
	}
	for _, r := range resources {
		if _, err := db.Exec(`INSERT INTO resources (title, url, kind) VALUES ($1, $2, $3)`, r[0], r[1], r[2]); err != nil {
			return fmt.Errorf("failed to seed resource %q: %w", r[0], err)
		}
	}

	return nil
}
