package storage

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gamezone/internal/adapters/http/perf"
)

// TestTimedDB_RecordsQuerySamples verifies queries land in the collector.
func TestTimedDB_RecordsQuerySamples(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	collector := perf.NewCollector(16)
	timed := NewTimedDB(db, collector)
	ctx := context.Background()

	if _, err := timed.ExecContext(ctx,
		`INSERT INTO games (name, size, url, description, created_at) VALUES (?, '', ?, '', ?)`,
		"Game A", "http://x/a", "2025-01-01T00:00:00Z"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	rows, err := timed.QueryContext(ctx, `SELECT id FROM games`)
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()

	var n int
	if err := timed.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	if got := collector.TotalRecorded(); got != 3 {
		t.Errorf("TotalRecorded = %d, want 3", got)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) == 0 {
		t.Error("Snapshot should contain query samples")
	}
}

// TestTimedDB_NilCollector works without a collector attached.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTestDB(t)
	timed := NewTimedDB(db, nil)
	var one int
	if err := timed.QueryRowContext(context.Background(), `SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if one != 1 {
		t.Errorf("got %d, want 1", one)
	}
}

// TestTimedDB_RawDB returns the wrapped handle.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTestDB(t)
	timed := NewTimedDB(db, nil)
	if timed.RawDB() != db {
		t.Error("RawDB should return the wrapped *sql.DB")
	}
}
