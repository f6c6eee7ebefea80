// Command seed-db loads the initial catalog, discount rules and admin
// account into PostgreSQL. It is idempotent: every write is an upsert,
// so re-running it refreshes the seed data without duplicating rows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/user"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/storage/postgres"
)

type productJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@hanfoods.local", "email for the seeded admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account (or HANFOODS_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("HANFOODS_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or HANFOODS_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedDiscounts(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discounts")
	}

	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin account")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	const query = `
		INSERT INTO products (id, name, price, sale_price, stock, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			sale_price = EXCLUDED.sale_price,
			stock = EXCLUDED.stock,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			updated_at = now()`

	for _, p := range products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		if _, err := pool.Exec(ctx, query,
			id, p.Name, p.Price, p.SalePrice, p.Stock, p.Category, p.ImageURL,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.Name)
		}

		slog.Info("upserted product", slog.String("id", id), slog.String("name", p.Name))
	}

	return nil
}

type discountSeed struct {
	code          string
	discountType  string
	value         decimal.Decimal
	minOrderValue decimal.Decimal
	maxDiscount   decimal.Decimal
	maxUses       int
	description   string
}

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding discount rules")

	seeds := []discountSeed{
		{
			code:          "SAVE10",
			discountType:  "fixed",
			value:         decimal.NewFromInt(30000),
			minOrderValue: decimal.NewFromInt(100000),
			description:   "30.000d off orders over 100.000d",
		},
		{
			code:         "WELCOME15",
			discountType: "percentage",
			value:        decimal.NewFromInt(15),
			maxDiscount:  decimal.NewFromInt(50000),
			maxUses:      1000,
			description:  "15% off for new customers, capped at 50.000d",
		},
		{
			code:          "COCOLOVE",
			discountType:  "percentage",
			value:         decimal.NewFromInt(20),
			minOrderValue: decimal.NewFromInt(300000),
			maxDiscount:   decimal.NewFromInt(100000),
			description:   "20% off orders over 300.000d",
		},
	}

	const query = `
		INSERT INTO discounts (id, code, type, value, min_order_value, max_discount,
			start_date, end_date, max_uses, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			type = EXCLUDED.type,
			value = EXCLUDED.value,
			min_order_value = EXCLUDED.min_order_value,
			max_discount = EXCLUDED.max_discount,
			end_date = EXCLUDED.end_date,
			max_uses = EXCLUDED.max_uses,
			description = EXCLUDED.description,
			deleted = FALSE,
			updated_at = now()`

	now := time.Now()
	for _, s := range seeds {
		if _, err := pool.Exec(ctx, query,
			uuid.NewString(), s.code, s.discountType, s.value, s.minOrderValue,
			s.maxDiscount, now, now.AddDate(1, 0, 0), s.maxUses, s.description,
		); err != nil {
			return errors.Wrapf(err, "upsert discount %s", s.code)
		}

		slog.Info("upserted discount", slog.String("code", s.code))
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	const query = `
		INSERT INTO users (id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			updated_at = now()`

	if _, err := pool.Exec(ctx, query,
		uuid.NewString(), email, string(hash), "Administrator", user.RoleAdmin,
	); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	return nil
}
