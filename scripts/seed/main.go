// Seeds the launch catalog. Safe to rerun: products already present (matched
// by name) are skipped.
package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/sokophones/storefront/internal/config"
	"github.com/sokophones/storefront/internal/database"
	"github.com/sokophones/storefront/internal/models"
	"github.com/sokophones/storefront/internal/store"
)

var catalog = []store.CreateProductRequest{
	{
		Name:     "iPhone 17 Pro Max",
		Price:    decimal.NewFromInt(129900),
		ImageURL: "https://i.pinimg.com/736x/19/b2/f6/19b2f6dc397a1be6fd5005303264a7c9.jpg",
		Specs:    models.ProductSpecs{Display: `6.9" Super Retina XDR`, Processor: "A19 Pro", Storage: "256GB"},
		Brand:    "iPhone",
		Category: "flagship",
		Colors:   []string{"Titanium", "Blue", "White", "Black"},
		Stock:    50,
		IsNew:    true,
	},
	{
		Name:     "Samsung Galaxy S24 Ultra",
		Price:    decimal.NewFromInt(119900),
		ImageURL: "https://i.pinimg.com/736x/24/22/32/24223258deb2711a6cfb6ffe2ba3b5e9.jpg",
		Specs:    models.ProductSpecs{Display: `6.8" Dynamic AMOLED`, Processor: "Snapdragon 8 Gen 3", Storage: "256GB"},
		Brand:    "Samsung",
		Category: "flagship",
		Colors:   []string{"Titanium Gray", "Phantom Black", "Cream"},
		Stock:    40,
		IsNew:    true,
	},
	{
		Name:     "iPhone 17 Air",
		Price:    decimal.NewFromInt(99999),
		ImageURL: "https://i.pinimg.com/736x/06/f2/fc/06f2fce304cbbd6bc50fb773c6615b8f.jpg",
		Specs:    models.ProductSpecs{Display: `6.1" Retina XDR`, Processor: "A19", Storage: "128GB"},
		Brand:    "iPhone",
		Category: "flagship",
		Colors:   []string{"Silver", "Gold", "Space Black"},
		Stock:    60,
		IsNew:    true,
	},
	{
		Name:     "Samsung Galaxy Z Fold 6",
		Price:    decimal.NewFromInt(179900),
		ImageURL: "https://i.pinimg.com/736x/4a/0e/72/4a0e729aeaf14e4887f47dc21fd989a3.jpg",
		Specs:    models.ProductSpecs{Display: `7.6" Foldable Dynamic AMOLED`, Processor: "Snapdragon 8 Gen 3", Storage: "512GB"},
		Brand:    "Samsung",
		Category: "foldable",
		Colors:   []string{"Navy", "Silver Shadow", "Pink"},
		Stock:    25,
		IsNew:    true,
	},
	{
		Name:     "iPhone 16 Pro",
		Price:    decimal.NewFromInt(99999),
		ImageURL: "https://i.pinimg.com/736x/75/5f/44/755f44e406776455518d3af39a2a9bfe.jpg",
		Specs:    models.ProductSpecs{Display: `6.1" Super Retina XDR`, Processor: "A18 Pro", Storage: "256GB"},
		Brand:    "iPhone",
		Category: "flagship",
		Colors:   []string{"Natural Titanium", "Blue Titanium", "White Titanium"},
		Stock:    45,
	},
	{
		Name:     "iPhone 15 Pro Max",
		Price:    decimal.NewFromInt(99999),
		ImageURL: "https://i.pinimg.com/1200x/18/84/24/1884248df0286062436ea23d29ef5183.jpg",
		Specs:    models.ProductSpecs{Display: `6.7" Super Retina XDR`, Processor: "A17 Pro", Storage: "256GB"},
		Brand:    "iPhone",
		Category: "flagship",
		Colors:   []string{"Green", "Gray", "Gold"},
		Stock:    30,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	seeded := 0

	for _, req := range catalog {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE name = $1)`,
			req.Name).Scan(&exists)
		if err != nil {
			log.Fatalf("Check product %q: %v", req.Name, err)
		}
		if exists {
			continue
		}

		if _, err := store.CreateProduct(ctx, db, req); err != nil {
			log.Fatalf("Seed product %q: %v", req.Name, err)
		}
		seeded++
	}

	log.Printf("Seeded %d product(s)", seeded)
}
