// Package store persists the tracker state as opaque key-value JSON
// blobs. The engine never sees the store; hosts load snapshots, run the
// pure computations, and write mutations back through here.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grasfrei/internal/models"
)

const (
	keyProfile   = "profile"
	keyDashboard = "dashboard"
	dayLogPrefix = "daylog:"
)

// Store is the persisted key-value state. UpsertDayLog must patch-merge:
// fields absent from the patch stay untouched. AddDayLog must sum the
// delta onto the stored totals inside the same transaction, so
// concurrent quick logs never clobber each other.
type Store interface {
	LoadProfile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, p models.Profile) error
	LoadDayLogs(ctx context.Context) (map[string]models.DayLog, error)
	UpsertDayLog(ctx context.Context, dateKey string, patch models.DayLog) error
	AddDayLog(ctx context.Context, dateKey string, delta models.DayLog) error
	LoadDashboard(ctx context.Context) (models.DashboardStats, error)
	SaveDashboard(ctx context.Context, s models.DashboardStats) error
	Close() error
}

func dayLogKey(dateKey string) string {
	return dayLogPrefix + dateKey
}

func dateFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, dayLogPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, dayLogPrefix), true
}

func marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blob: %w", err)
	}
	return b, nil
}

// mergeDayLogBlob applies a patch onto the stored JSON blob (empty for a
// lazily created date) and returns the new blob.
func mergeDayLogBlob(existing []byte, patch models.DayLog) ([]byte, error) {
	var base models.DayLog
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &base); err != nil {
			return nil, fmt.Errorf("failed to decode day log blob: %w", err)
		}
	}
	return marshal(models.MergeDayLog(base, patch))
}

// addDayLogBlob sums a delta onto the stored JSON blob.
func addDayLogBlob(existing []byte, delta models.DayLog) ([]byte, error) {
	var base models.DayLog
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &base); err != nil {
			return nil, fmt.Errorf("failed to decode day log blob: %w", err)
		}
	}
	return marshal(models.AccumulateDayLog(base, delta))
}
