package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PoolSettings bounds the connection pool. The batch runs one query at a time,
// so the defaults are small.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxOpen:     4,
		MaxIdle:     2,
		MaxLifetime: 5 * time.Minute,
		MaxIdleTime: time.Minute,
		PingTimeout: 5 * time.Second,
	}
}

// NewPostgresConnection opens a pool for dsn with the default settings.
func NewPostgresConnection(ctx context.Context, dsn string) (*sql.DB, error) {
	return OpenPool(ctx, dsn, DefaultPoolSettings())
}

// OpenPool validates dsn, opens the pool and checks that the server answers
// within settings.PingTimeout.
func OpenPool(ctx context.Context, dsn string, settings PoolSettings) (*sql.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(settings.MaxOpen)
	db.SetMaxIdleConns(settings.MaxIdle)
	db.SetConnMaxLifetime(settings.MaxLifetime)
	db.SetConnMaxIdleTime(settings.MaxIdleTime)

	pingCtx := ctx
	if settings.PingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, settings.PingTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
