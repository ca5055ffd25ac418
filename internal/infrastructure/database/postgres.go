package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/config"
	"marketplace-backend/pkg/logger"
)

const (
	connectRetries = 5
	connectTimeout = 5 * time.Second
	retryBaseDelay = time.Second
)

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	config *config.DatabaseConfig
}

func NewPostgresDB(cfg *config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s",
		db.config.User,
		db.config.Password,
		db.config.Host,
		db.config.Port,
		db.config.Database,
	)
}

// Connect establishes the pool with exponential backoff between attempts.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = db.config.MaxConns
	poolCfg.MinConns = db.config.MinConns
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= connectRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, lastErr = pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if lastErr == nil {
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				lastErr = err
			} else {
				db.Pool = pool
				logger.Info("database connected", map[string]interface{}{"attempt": attempt})
				return nil
			}
		}

		if attempt < connectRetries {
			delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			logger.Warn(fmt.Sprintf("database connection attempt %d failed, retrying in %v", attempt, delay), lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", connectRetries, lastErr)
}

// HealthCheck is called by the health endpoint.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
