package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/tmarwah/shopline-api/internal/config"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// Database represents a database connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New creates a new database connection
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDBConnString())

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the schema if it does not exist yet
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DECIMAL(10, 2) NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		stock INT NOT NULL DEFAULT 0,
		category_id VARCHAR(50) NOT NULL REFERENCES categories(id),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);

	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(50) PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(200) NOT NULL UNIQUE,
		password_hash VARCHAR(200) NOT NULL,
		full_name VARCHAR(200) NOT NULL,
		phone VARCHAR(50) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(50) PRIMARY KEY,
		customer_name VARCHAR(200) NOT NULL,
		customer_email VARCHAR(200) NOT NULL,
		customer_phone VARCHAR(50) NOT NULL,
		shipping_address TEXT NOT NULL,
		total_amount DECIMAL(12, 2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		payment_method VARCHAR(20) NOT NULL,
		payment_status VARCHAR(20) NOT NULL,
		tracking_number VARCHAR(100),
		estimated_delivery_date TIMESTAMP,
		delivered_date TIMESTAMP,
		notes VARCHAR(1000) NOT NULL DEFAULT '',
		order_date TIMESTAMP NOT NULL DEFAULT NOW(),
		last_updated TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date);

	CREATE TABLE IF NOT EXISTS order_items (
		id VARCHAR(50) PRIMARY KEY,
		order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id VARCHAR(50) NOT NULL,
		product_name VARCHAR(200) NOT NULL,
		product_image_url TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL,
		price DECIMAL(10, 2) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

	-- Outbox table for message publishing
	CREATE TABLE IF NOT EXISTS outbox_messages (
		id SERIAL PRIMARY KEY,
		aggregate_type VARCHAR(50) NOT NULL,
		aggregate_id VARCHAR(50) NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMP,
		next_attempt_at TIMESTAMP NOT NULL DEFAULT NOW(),
		processing_attempts INT NOT NULL DEFAULT 0,
		last_error TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
	);

	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_messages(status, next_attempt_at);
	CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON outbox_messages(aggregate_type, aggregate_id);
	`

	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}
