package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
	CREATE TABLE recurring_contributions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		trxn_id TEXT,
		amount REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'GBP',
		frequency_unit TEXT NOT NULL DEFAULT 'month',
		frequency_interval INTEGER NOT NULL DEFAULT 1,
		installments INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		is_test INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE contributions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		contribution_recur_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		trxn_id TEXT,
		total_amount REAL NOT NULL DEFAULT 0,
		receive_date TEXT,
		is_test INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE checkout_sessions (
		flow_id TEXT PRIMARY KEY,
		test_mode INTEGER NOT NULL DEFAULT 0,
		session_token TEXT NOT NULL,
		description TEXT,
		contact_id INTEGER NOT NULL,
		contribution_id INTEGER NOT NULL DEFAULT 0,
		contribution_recur_id INTEGER NOT NULL DEFAULT 0,
		membership_id INTEGER NOT NULL DEFAULT 0,
		entry_url TEXT,
		expires_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE webhook_deliveries (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		action TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT,
		created_at INTEGER NOT NULL
	);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
