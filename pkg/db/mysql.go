// Helper koneksi MySQL (menggunakan database/sql)

package db

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type Options struct {
	MaxOpen   int
	MaxIdle   int
	PingTries int
	PingDelay time.Duration
}

// Open membuka pool MySQL lalu ping berulang agar tahan saat container DB baru up.
func Open(ctx context.Context, dsn string, o Options) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty mysql dsn")
	}
	if o.PingTries <= 0 {
		o.PingTries = 20
	}
	if o.PingDelay <= 0 {
		o.PingDelay = 3 * time.Second
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if o.MaxOpen > 0 {
		db.SetMaxOpenConns(o.MaxOpen)
	}
	if o.MaxIdle > 0 {
		db.SetMaxIdleConns(o.MaxIdle)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	var pingErr error
	for i := 0; i < o.PingTries; i++ {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			return db, nil
		}
		log.Printf("[WARN] ping mysql failed (try %d): %v", i+1, pingErr)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(o.PingDelay):
		}
	}
	db.Close()
	return nil, pingErr
}
