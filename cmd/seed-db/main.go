// Command seed-db provisions a database for local development: it runs
// migrations, loads catalog products from JSON files (optionally gzipped),
// and creates the admin account.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/altruria/farmstore/internal/auth"
	"github.com/altruria/farmstore/internal/domain/product"
	"github.com/altruria/farmstore/internal/domain/user"
	"github.com/altruria/farmstore/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

func main() {
	var (
		databaseURL   string
		productsGlob  string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsGlob, "products", "db/seed/products*.json*", "glob of product JSON files (.json or .json.gz)")
	flag.StringVar(&adminEmail, "admin-email", "admin@farmstore.local", "email of the admin account to seed")
	flag.StringVar(&adminPassword, "admin-password", "", "password of the admin account (or FARM_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("FARM_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or FARM_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsGlob, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsGlob, adminEmail, adminPassword string) error {
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

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsGlob); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedAdmin(ctx, postgres.NewUserRepository(pool), adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, glob string) error {
	files, err := filepath.Glob(glob)
	if err != nil {
		return errors.Wrap(err, "expand products glob")
	}
	if len(files) == 0 {
		slog.Warn("no product files matched, skipping catalog seed", slog.String("glob", glob))
		return nil
	}

	// Parse files concurrently, then upsert sequentially so log output
	// stays deterministic per file.
	parsed := make([][]productJSON, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			products, err := readProductsFile(f)
			if err != nil {
				return errors.Wrapf(err, "read %s", f)
			}
			parsed[i] = products
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, f := range files {
		slog.Info("upserting products", slog.String("file", f), slog.Int("count", len(parsed[i])))
		for _, pj := range parsed[i] {
			cat := product.Category(pj.Category)
			if !cat.Valid() {
				return errors.Errorf("product %s has unknown category %q", pj.ID, pj.Category)
			}
			p := &product.Product{
				ID:          pj.ID,
				Name:        pj.Name,
				Category:    cat,
				Price:       pj.Price,
				Description: pj.Description,
				Stock:       pj.Stock,
			}
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if err := repo.Upsert(ctx, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
		}
	}

	return nil
}

// readProductsFile parses one JSON array of products, transparently
// decompressing .gz files.
func readProductsFile(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}

func seedAdmin(ctx context.Context, repo *postgres.UserRepository, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := repo.Upsert(ctx, u); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	slog.Info("admin account ready", slog.String("id", u.ID))
	return nil
}
