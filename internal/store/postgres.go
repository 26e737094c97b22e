package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"grasfrei/internal/config"
	"grasfrei/internal/models"
)

// Postgres is the shared multi-user store backend used by the bot host.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, verifies the connection, and ensures the schema.
func NewPostgres(cfg config.DBConfig) (*Postgres, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Postgres{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Postgres) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Postgres) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return nil
}

func (s *Postgres) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *Postgres) put(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *Postgres) LoadProfile(ctx context.Context) (*models.Profile, error) {
	blob, err := s.get(ctx, keyProfile)
	if err != nil || blob == nil {
		return nil, err
	}
	var p models.Profile
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

func (s *Postgres) SaveProfile(ctx context.Context, p models.Profile) error {
	blob, err := marshal(p)
	if err != nil {
		return err
	}
	return s.put(ctx, keyProfile, blob)
}

func (s *Postgres) LoadDayLogs(ctx context.Context) (map[string]models.DayLog, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM kv WHERE key LIKE $1`, dayLogPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query day logs: %w", err)
	}
	defer rows.Close()

	logs := make(map[string]models.DayLog)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		date, ok := dateFromKey(key)
		if !ok {
			continue
		}
		var log models.DayLog
		if err := json.Unmarshal(value, &log); err != nil {
			return nil, fmt.Errorf("failed to decode day log %s: %w", date, err)
		}
		logs[date] = log
	}
	return logs, rows.Err()
}

// UpsertDayLog patch-merges inside a transaction; the row lock keeps
// concurrent check-in and quick-log writes from dropping each other's
// fields.
func (s *Postgres) UpsertDayLog(ctx context.Context, dateKey string, patch models.DayLog) error {
	return s.mutateDayLog(ctx, dateKey, func(existing []byte) ([]byte, error) {
		return mergeDayLogBlob(existing, patch)
	})
}

// AddDayLog sums a quick-log delta onto the stored totals under the same
// row lock, so the addition sees the committed state.
func (s *Postgres) AddDayLog(ctx context.Context, dateKey string, delta models.DayLog) error {
	return s.mutateDayLog(ctx, dateKey, func(existing []byte) ([]byte, error) {
		return addDayLogBlob(existing, delta)
	})
}

func (s *Postgres) mutateDayLog(ctx context.Context, dateKey string, apply func([]byte) ([]byte, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var existing []byte
	scanErr := tx.QueryRow(ctx,
		`SELECT value FROM kv WHERE key = $1 FOR UPDATE`, dayLogKey(dateKey)).Scan(&existing)
	if scanErr != nil && !errors.Is(scanErr, pgx.ErrNoRows) {
		err = scanErr
		return fmt.Errorf("failed to read day log: %w", err)
	}

	blob, applyErr := apply(existing)
	if applyErr != nil {
		err = applyErr
		return err
	}
	if _, err = tx.Exec(ctx,
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		dayLogKey(dateKey), blob); err != nil {
		return fmt.Errorf("failed to write day log: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Postgres) LoadDashboard(ctx context.Context) (models.DashboardStats, error) {
	blob, err := s.get(ctx, keyDashboard)
	if err != nil || blob == nil {
		return models.DashboardStats{}, err
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(blob, &stats); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to decode dashboard: %w", err)
	}
	return stats, nil
}

func (s *Postgres) SaveDashboard(ctx context.Context, stats models.DashboardStats) error {
	blob, err := marshal(stats)
	if err != nil {
		return err
	}
	return s.put(ctx, keyDashboard, blob)
}
