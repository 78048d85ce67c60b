// Package store is the persistence adapter: a SQLite-backed snapshot
// provider and commit sink for the scheduling core. The core itself only
// ever sees plain snapshots; everything stateful lives here.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"plume/internal/events"
)

// Store wraps sql.DB and publishes a change event after every commit.
type Store struct {
	db    *sql.DB
	bus   *events.Bus
	cache *snapshotCache
}

// Open opens the database at path, runs migrations and attaches the bus.
// A nil bus disables change events.
func Open(path string, bus *events.Bus) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &Store{db: db, bus: bus}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// PingContext verifies the database connection.
func (s *Store) PingContext(ctx context.Context) error { return s.db.PingContext(ctx) }

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			duration INTEGER NOT NULL,
			price REAL NOT NULL DEFAULT 0,
			requires_confirmation BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS technicians (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Skill rows reference services loosely: deleting a service keeps
		// the skill row harmless but stale, matching catalog semantics.
		`CREATE TABLE IF NOT EXISTS technician_skills (
			tech_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			PRIMARY KEY (tech_id, service_id),
			FOREIGN KEY (tech_id) REFERENCES technicians(id) ON DELETE CASCADE
		)`,

		// tech_name is denormalized for presentation; tech_id is the
		// matching key. Deleting a technician orphans tech_id on past
		// appointments, which stay valid records.
		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			client_phone TEXT NOT NULL DEFAULT '',
			client_email TEXT NOT NULL DEFAULT '',
			client_user_id TEXT NOT NULL DEFAULT '',
			tech_id TEXT NOT NULL,
			tech_name TEXT NOT NULL,
			specialist_id TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			start_min INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			price REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS appointment_services (
			appointment_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			service_id TEXT NOT NULL,
			service_name TEXT NOT NULL,
			PRIMARY KEY (appointment_id, position),
			FOREIGN KEY (appointment_id) REFERENCES appointments(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS laser_dates (
			date TEXT PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			for_admin BOOLEAN NOT NULL DEFAULT 1,
			tech_id TEXT NOT NULL DEFAULT '',
			read BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_appointments_tech_date ON appointments(tech_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(read, for_admin)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func (s *Store) publish(topic events.Topic, action, id string) {
	s.invalidateCache()
	if s.bus != nil {
		s.bus.Publish(events.Event{Topic: topic, Action: action, EntityID: id})
	}
}
