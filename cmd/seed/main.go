package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ecommerce-api/config"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ecommerce-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

type seedCategory struct {
	slug, name, description string
	sortOrder               int
}

type seedProduct struct {
	category, slug, name, description string
	price                             int64 // kobo
	color, size                       string
	stock                             int
	featured                          bool
}

var categories = []seedCategory{
	{"women", "Women", "Dresses, tops and two-piece sets", 1},
	{"men", "Men", "Kaftans, agbada and casual wear", 2},
	{"accessories", "Accessories", "Bags, caps and jewellery", 3},
}

var products = []seedProduct{
	{"women", "ankara-wrap-dress", "Ankara Wrap Dress", "Midi wrap dress in bold ankara print", 2500000, "Multi", "M", 25, true},
	{"women", "adire-two-piece", "Adire Two Piece", "Hand-dyed adire top and trousers", 3200000, "Indigo", "L", 12, true},
	{"women", "lace-peplum-top", "Lace Peplum Top", "Corded lace peplum blouse", 1850000, "Gold", "S", 30, false},
	{"men", "senator-kaftan", "Senator Kaftan", "Tailored two-piece senator outfit", 4500000, "Navy", "XL", 10, true},
	{"men", "agbada-set", "Agbada Set", "Three-piece embroidered agbada", 9500000, "White", "L", 5, false},
	{"men", "dashiki-shirt", "Dashiki Shirt", "Short-sleeve cotton dashiki", 1200000, "Red", "M", 40, false},
	{"accessories", "aso-oke-cap", "Aso Oke Cap", "Hand-woven fila", 650000, "Wine", "", 50, false},
	{"accessories", "beaded-clutch", "Beaded Clutch", "Evening clutch with glass beads", 1500000, "Coral", "", 0, false},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		log.Fatal("SEED_USER_PASSWORD is required")
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	catIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		var id string
		err := db.QueryRowContext(ctx, `
			INSERT INTO categories (slug, name, description, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, sort_order = EXCLUDED.sort_order
			RETURNING id
		`, c.slug, c.name, c.description, c.sortOrder).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed category %s: %v", c.slug, err)
		}
		catIDs[c.slug] = id
	}
	fmt.Printf("seeded %d categories\n", len(catIDs))

	for _, p := range products {
		_, err := db.ExecContext(ctx, `
			INSERT INTO products (category_id, name, slug, description, price, image_alt, color, size, stock, is_featured)
			VALUES ($1, $2, $3, $4, $5, $2, $6, $7, $8, $9)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
				price = EXCLUDED.price, is_featured = EXCLUDED.is_featured, updated_at = now()
		`, catIDs[p.category], p.name, p.slug, p.description, p.price, p.color, p.size, p.stock, p.featured)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.slug, err)
		}
	}
	fmt.Printf("seeded %d products\n", len(products))

	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	users := []struct{ email, phone, name, role string }{
		{"customer@jemi.ng", "+2348010000001", "Test Customer", "customer"},
		{"admin@jemi.ng", "+2348010000002", "Store Admin", "admin"},
	}
	for _, u := range users {
		var id string
		err := db.QueryRowContext(ctx, `
			INSERT INTO users (email, phone, password_hash, name, role, is_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
			RETURNING id
		`, u.email, u.phone, hash, u.name, u.role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded %s: id=%s email=%s\n", u.role, id, u.email)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if err := reindex(ctx, cfg, addrs); err != nil {
			log.Fatalf("failed to index products: %v", err)
		}
	}
}

// reindex pushes every product, active or not, into the search index.
func reindex(ctx context.Context, cfg *config.Config, addrs []string) error {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := pginfra.NewStore(pool, helpers.NewNopLogger())

	es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return err
	}
	idx := search.NewProductIndex(es, cfg.ESProductsIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		return err
	}

	list, _, err := store.Repos().Products.List(ctx, repository.ProductFilter{IncludeInactive: true, Limit: 1000})
	if err != nil {
		return err
	}
	for i := range list {
		if err := idx.IndexProduct(ctx, &list[i]); err != nil {
			return fmt.Errorf("index %s: %w", list[i].Slug, err)
		}
	}
	fmt.Printf("indexed %d products into %s\n", len(list), cfg.ESProductsIndex)
	return nil
}
