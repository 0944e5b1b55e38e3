package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

// PoolConfig sizes the connection pool and the startup ping retry.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	PingAttempts int
	PingBackoff  time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    4,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		PingAttempts:    5,
		PingBackoff:     2 * time.Second,
	}
}

// NewPostgresConnection opens the pool and waits until the database answers a
// ping, retrying while it is still starting up.
func NewPostgresConnection(ctx context.Context, dataSourceName string, pool PoolConfig, logger *logrus.Entry) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	applyPool(db, pool)

	if err = pingWithRetry(ctx, db, pool, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func applyPool(db *sql.DB, pool PoolConfig) {
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
}

func pingWithRetry(ctx context.Context, db *sql.DB, pool PoolConfig, logger *logrus.Entry) error {
	attempts := max(pool.PingAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		logger.WithError(err).WithField("attempt", attempt).Warn("Database not reachable yet, retrying")
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(pool.PingBackoff):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}
