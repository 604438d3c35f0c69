/*
Kompilasi manual:
  go build -o tools/gen_dummy/load_to_mysql ./tools/gen_dummy

Pakai contoh:
  ./tools/gen_dummy/load_to_mysql \
    -csv tools/gen_dummy/sample_prod_monthly.csv \
    -dsn "root:password@tcp(127.0.0.1:3306)/dca?parseTime=true" \
    -batch 500 -truncate

Header CSV: well_id,period_index,oil_volume,water_volume,gas_volume
("-" = bulan tanpa data). Tanpa kolom well_id, pakai -well.
*/

// [FILE] tools/gen_dummy/load_to_mysql.go
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"time"

	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	"dca-oilgas/pkg/db"
)

var (
	csvPath   = flag.String("csv", "tools/gen_dummy/sample_prod_monthly.csv", "CSV path")
	dsn       = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/dca?parseTime=true", "MySQL DSN")
	wellID    = flag.String("well", "", "default well_id when the CSV has no well_id column")
	batchSize = flag.Int("batch", mysqlrepo.DefaultUpsertBatch, "Rows per INSERT (all batches run in one transaction)")
	truncate  = flag.Bool("truncate", false, "TRUNCATE prod_monthly first")
	validate  = flag.Bool("validate", true, "run the normalizer over every well before writing")
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	flag.Parse()

	f, err := os.Open(*csvPath)
	must(err)
	defer f.Close()

	wells, err := services.ReadProductionCSV(bufio.NewReader(f), *wellID)
	must(err)

	if *validate {
		for _, w := range wells {
			if _, err := services.Normalize(w.Rows, services.AverageDaysPerMonth); err != nil {
				log.Fatalf("well %s: %v", w.WellID, err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, *dsn, db.Options{PingTries: 3, PingDelay: time.Second})
	must(err)
	defer conn.Close()

	repo := &mysqlrepo.ProductionRepo{DB: conn, BatchSize: *batchSize}
	if *truncate {
		_, err := conn.ExecContext(ctx, "TRUNCATE TABLE prod_monthly")
		must(err)
		log.Printf("[ok] truncated prod_monthly")
	}

	total, err := repo.UpsertWells(ctx, wells)
	if err != nil {
		log.Fatalf("load rolled back: %v", err)
	}
	for _, w := range wells {
		log.Printf("[ok] %s: %d rows", w.WellID, len(w.Rows))
	}
	log.Printf("[done] %d wells, %d rows affected", len(wells), total)
}
