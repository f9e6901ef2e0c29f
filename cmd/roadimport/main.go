// Command roadimport copies the village road sheet into a sqlite database
// that the server can read with DATA_SOURCE=sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/config"
	"github.com/jengzang/roads-dashboard-go/internal/database"
	"github.com/jengzang/roads-dashboard-go/internal/loader"
	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/repository"
	"github.com/jengzang/roads-dashboard-go/internal/stats"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", cfg.DataFile, "xlsx workbook to import")
	sheet := flag.String("sheet", cfg.DataSheet, "sheet holding the road rows")
	dbPath := flag.String("db", cfg.DBPath, "sqlite database to write")
	flag.Parse()

	if err := log.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), *file, *sheet, *dbPath); err != nil {
		log.Fatalf("import failed: %v", err)
	}
}

func run(ctx context.Context, file, sheet, dbPath string) error {
	start := time.Now()

	table, err := loader.NewXLSXSource(file, sheet).Load(ctx)
	if err != nil {
		return err
	}
	for _, w := range stats.SchemaWarnings(table.Schema) {
		log.Warnw("schema", "warning", w)
	}

	conn, err := database.Open(database.Config{Path: dbPath})
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := database.NewMigrationManager(conn, database.Migrations()).RunMigrations(); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}

	repo := repository.NewRoadSegmentRepository(conn)
	if err := repo.Replace(ctx, table); err != nil {
		return err
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	log.Infow("import finished",
		"source", table.Source,
		"db", dbPath,
		"rows", n,
		"duration", time.Since(start),
	)
	return nil
}
