// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB.  lib/pq is
// registered for PostgreSQL deployments; queries written with `?`
// placeholders are rebound per driver by sqlx.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)                – conservative pool sizes.
//	OpenWithOptions(ctx, driver, dsn, o)  – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Supported driver names, as registered with database/sql.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options tunes the pool and the startup ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra ping attempts after the first
	RetryBackoff    time.Duration // wait between ping attempts
}

// DefaultOptions returns 15 max open, 5 idle, a 30-minute connection
// lifetime, and three ping retries one second apart.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         3,
		RetryBackoff:    time.Second,
	}
}

// Open returns a *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, DefaultOptions())
}

// OpenWithOptions opens a pool for driver and pings it, retrying while the
// database comes up (docker-compose style boots).
func OpenWithOptions(ctx context.Context, driver, dsn string, o Options) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= o.Retries {
			break
		}
		zap.S().Warnw("database ping failed, retrying",
			"driver", driver, "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(o.RetryBackoff):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("database: ping %s: %w", driver, err)
}
