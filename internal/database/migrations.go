package database

import (
	"database/sql"
	"fmt"
)

// schema creates the event store tables. The analytics core never
// touches the database; only the repository layer reads from it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT 'medium',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_location ON events(lat, lon)`,
}

// migrate applies the schema statements in order
func migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
