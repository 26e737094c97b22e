package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"grasfrei/internal/models"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite is the local single-user store backend.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database file and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

func (s *SQLite) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLite) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value))
	return err
}

func (s *SQLite) LoadProfile(ctx context.Context) (*models.Profile, error) {
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

func (s *SQLite) SaveProfile(ctx context.Context, p models.Profile) error {
	blob, err := marshal(p)
	if err != nil {
		return err
	}
	return s.put(ctx, keyProfile, blob)
}

func (s *SQLite) LoadDayLogs(ctx context.Context) (map[string]models.DayLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE key LIKE ?`, dayLogPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make(map[string]models.DayLog)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		date, ok := dateFromKey(key)
		if !ok {
			continue
		}
		var log models.DayLog
		if err := json.Unmarshal([]byte(value), &log); err != nil {
			return nil, fmt.Errorf("failed to decode day log %s: %w", date, err)
		}
		logs[date] = log
	}
	return logs, rows.Err()
}

func (s *SQLite) UpsertDayLog(ctx context.Context, dateKey string, patch models.DayLog) error {
	return s.mutateDayLog(ctx, dateKey, func(existing []byte) ([]byte, error) {
		return mergeDayLogBlob(existing, patch)
	})
}

func (s *SQLite) AddDayLog(ctx context.Context, dateKey string, delta models.DayLog) error {
	return s.mutateDayLog(ctx, dateKey, func(existing []byte) ([]byte, error) {
		return addDayLogBlob(existing, delta)
	})
}

// mutateDayLog runs a read-apply-write cycle on one date's blob inside a
// transaction.
func (s *SQLite) mutateDayLog(ctx context.Context, dateKey string, apply func([]byte) ([]byte, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing []byte
	var value string
	scanErr := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, dayLogKey(dateKey)).Scan(&value)
	switch {
	case scanErr == nil:
		existing = []byte(value)
	case errors.Is(scanErr, sql.ErrNoRows):
		// Lazily created on first event for the date.
	default:
		err = scanErr
		return err
	}

	blob, applyErr := apply(existing)
	if applyErr != nil {
		err = applyErr
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		dayLogKey(dateKey), string(blob)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) LoadDashboard(ctx context.Context) (models.DashboardStats, error) {
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

func (s *SQLite) SaveDashboard(ctx context.Context, stats models.DashboardStats) error {
	blob, err := marshal(stats)
	if err != nil {
		return err
	}
	return s.put(ctx, keyDashboard, blob)
}
