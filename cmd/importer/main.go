package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-cart/internal/backend/store"
	"marketplace-cart/internal/config"
	"marketplace-cart/internal/db"
	"marketplace-cart/internal/importer"
)

type poolWriter struct {
	pool *pgxpool.Pool
}

func (w poolWriter) Upsert(ctx context.Context, sku store.SKU) error {
	return store.UpsertSKU(ctx, w.pool, sku)
}

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.DBConnString == "" {
		log.Fatal("DB_DSN is required")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, poolWriter{pool: pool})

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d SKUs in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
