package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tmarwah/shopline-api/internal/models"
)

type seedProduct struct {
	name        string
	description string
	price       string
	imageURL    string
	stock       int
}

// SeedCatalog loads the initial category and product catalog. It runs
// only when the categories table is empty, so restarts are idempotent.
func (d *Database) SeedCatalog() error {
	var count int

	if err := d.DB.Get(&count, `SELECT COUNT(*) FROM categories`); err != nil {
		return fmt.Errorf("failed to check existing catalog: %w", err)
	}

	if count > 0 {
		d.logger.Debug("Catalog already seeded, skipping")
		return nil
	}

	catalog := map[string][]seedProduct{}

	categories := []*models.Category{
		models.NewCategory("Electronics", "Electronic devices and gadgets"),
		models.NewCategory("Clothing", "Fashion and apparel"),
		models.NewCategory("Books", "Books and literature"),
		models.NewCategory("Home & Kitchen", "Home and kitchen essentials"),
		models.NewCategory("Sports", "Sports and fitness equipment"),
	}

	catalog["Electronics"] = []seedProduct{
		{"Wireless Headphones", "Premium noise-cancelling wireless headphones with 30-hour battery life", "89.99", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500", 50},
		{"Smart Watch", "Fitness tracker with heart rate monitor and GPS", "199.99", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500", 30},
		{"Laptop Stand", "Ergonomic aluminum laptop stand for better posture", "45.99", "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500", 100},
		{"Bluetooth Speaker", "Portable waterproof speaker with amazing sound quality", "59.99", "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=500", 75},
		{"USB-C Hub", "7-in-1 USB-C hub with HDMI, USB 3.0, and SD card reader", "34.99", "https://images.unsplash.com/photo-1625948515291-69613efd103f?w=500", 120},
	}

	catalog["Clothing"] = []seedProduct{
		{"Classic White T-Shirt", "100% cotton comfortable white t-shirt", "19.99", "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500", 200},
		{"Denim Jeans", "Slim fit blue denim jeans", "49.99", "https://images.unsplash.com/photo-1542272604-787c3835535d?w=500", 150},
		{"Leather Jacket", "Genuine leather jacket with modern design", "149.99", "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=500", 40},
		{"Running Shoes", "Lightweight running shoes with excellent cushioning", "79.99", "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500", 80},
		{"Winter Coat", "Warm winter coat with hood", "129.99", "https://images.unsplash.com/photo-1539533018447-63fcce2678e3?w=500", 60},
	}

	catalog["Books"] = []seedProduct{
		{"The Art of Programming", "Comprehensive guide to software development", "39.99", "https://images.unsplash.com/photo-1532012197267-da84d127e765?w=500", 90},
		{"Mystery Novel Collection", "Bestselling mystery novels bundle", "29.99", "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=500", 70},
		{"Cooking Masterclass", "Professional cooking techniques and recipes", "34.99", "https://images.unsplash.com/photo-1589998059171-988d887df646?w=500", 55},
		{"Science Fiction Anthology", "Classic sci-fi stories collection", "24.99", "https://images.unsplash.com/photo-1495446815901-a7297e633e8d?w=500", 65},
	}

	catalog["Home & Kitchen"] = []seedProduct{
		{"Coffee Maker", "Programmable coffee maker with thermal carafe", "79.99", "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=500", 45},
		{"Blender", "High-speed blender for smoothies and soups", "69.99", "https://images.unsplash.com/photo-1585515320310-259814833e62?w=500", 50},
		{"Cookware Set", "10-piece non-stick cookware set", "149.99", "https://images.unsplash.com/photo-1584990347449-39b4aa02d0c6?w=500", 35},
		{"Air Fryer", "Digital air fryer with 8 preset cooking functions", "99.99", "https://images.unsplash.com/photo-1585515320310-259814833e62?w=500", 40},
		{"Vacuum Cleaner", "Cordless stick vacuum with powerful suction", "199.99", "https://images.unsplash.com/photo-1558317374-067fb5f30001?w=500", 30},
	}

	catalog["Sports"] = []seedProduct{
		{"Yoga Mat", "Premium non-slip yoga mat with carrying strap", "29.99", "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=500", 100},
		{"Dumbbells Set", "Adjustable dumbbells 5-50 lbs", "149.99", "https://images.unsplash.com/photo-1517836357463-d25dfeac3438?w=500", 25},
		{"Resistance Bands", "Set of 5 resistance bands with different strengths", "24.99", "https://images.unsplash.com/photo-1598289431512-b97b0917affc?w=500", 150},
		{"Tennis Racket", "Professional tennis racket with carbon fiber frame", "89.99", "https://images.unsplash.com/photo-1617083278159-7d1e6c935a6e?w=500", 40},
		{"Basketball", "Official size basketball for indoor/outdoor use", "34.99", "https://images.unsplash.com/photo-1546519638-68e109498ffc?w=500", 80},
	}

	tx, err := d.DB.Beginx()

	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	productCount := 0

	for _, category := range categories {
		_, err = tx.Exec(
			`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`,
			category.ID, category.Name, category.Description,
		)

		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", category.Name, err)
		}

		for _, sp := range catalog[category.Name] {
			product := models.NewProduct(
				sp.name,
				sp.description,
				decimal.RequireFromString(sp.price),
				sp.imageURL,
				sp.stock,
				category.ID,
			)

			_, err = tx.Exec(
				`INSERT INTO products (id, name, description, price, image_url, stock, category_id, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				product.ID, product.Name, product.Description, product.Price,
				product.ImageURL, product.Stock, product.CategoryID,
				product.CreatedAt, product.UpdatedAt,
			)

			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", sp.name, err)
			}

			productCount++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	d.logger.Info("Seeded catalog", "categories", len(categories), "products", productCount)
	return nil
}
