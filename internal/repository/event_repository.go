package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// EventRepository handles database operations for events. It is the
// point/event source the analytics service queries; the analytics core
// itself never performs I/O.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// QueryWindow retrieves events inside bounds that occurred within the
// lookback window ending at now. An empty result is a valid snapshot,
// not an error.
func (r *EventRepository) QueryWindow(bounds models.GeoBounds, now time.Time, lookback time.Duration) ([]models.Event, error) {
	query := `SELECT id, lat, lon, occurred_at, type, severity
		FROM events
		WHERE lat >= ? AND lat <= ? AND lon >= ? AND lon <= ?
		AND occurred_at >= ? AND occurred_at <= ?
		ORDER BY occurred_at`

	rows, err := r.db.Query(query,
		bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon,
		now.Add(-lookback), now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Lat, &e.Lon, &e.OccurredAt, &e.Type, &e.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Insert stores a single event and returns its id
func (r *EventRepository) Insert(e models.Event) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO events (lat, lon, occurred_at, type, severity) VALUES (?, ?, ?, ?, ?)`,
		e.Lat, e.Lon, e.OccurredAt, e.Type, e.Severity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return result.LastInsertId()
}
