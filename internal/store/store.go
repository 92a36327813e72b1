// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package store archives exported motion logs in SQLite so that earlier
// sessions survive a reset or a restart.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

type DB struct {
	*sql.DB
}

// Session describes one archived export.
type Session struct {
	ID         uuid.UUID     `json:"id"`
	ExportedAt time.Time     `json:"exported_at"`
	Rows       int           `json:"rows"`
	Bias       motion.Vector `json:"bias"`
}

// NewDB opens (or creates) the archive at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id        TEXT PRIMARY KEY,
			exported_at_us    BIGINT NOT NULL,
			row_count         BIGINT NOT NULL,
			bias_x            DOUBLE,
			bias_y            DOUBLE,
			bias_z            DOUBLE
		);
		CREATE TABLE IF NOT EXISTS motion_records (
			session_id        TEXT NOT NULL,
			seq               BIGINT NOT NULL,
			duration_us       BIGINT,
			timestamp_us      BIGINT,
			accel_x           DOUBLE,
			accel_y           DOUBLE,
			accel_z           DOUBLE,
			rate_x            DOUBLE,
			rate_y            DOUBLE,
			rate_z            DOUBLE,
			velocity_x        DOUBLE,
			velocity_y        DOUBLE,
			velocity_z        DOUBLE,
			position_x        DOUBLE,
			position_y        DOUBLE,
			position_z        DOUBLE,
			distance          DOUBLE,
			PRIMARY KEY (session_id, seq),
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	return &DB{db}, nil
}

// SaveSession stores records under a new session ID in one transaction.
func (db *DB) SaveSession(ctx context.Context, exportedAt time.Time, bias motion.Vector, records iter.Seq[motion.Record]) (Session, error) {
	s := Session{ID: uuid.New(), ExportedAt: exportedAt, Bias: bias}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO motion_records (
			session_id, seq, duration_us, timestamp_us,
			accel_x, accel_y, accel_z, rate_x, rate_y, rate_z,
			velocity_x, velocity_y, velocity_z, position_x, position_y, position_z,
			distance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Session{}, fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	id := s.ID.String()
	for r := range records {
		_, err := stmt.ExecContext(ctx, id, s.Rows, r.DurationMicros, r.TimestampMicros,
			r.Acceleration.X, r.Acceleration.Y, r.Acceleration.Z,
			r.AngularRate.X, r.AngularRate.Y, r.AngularRate.Z,
			r.Velocity.X, r.Velocity.Y, r.Velocity.Z,
			r.Position.X, r.Position.Y, r.Position.Z,
			r.Distance,
		)
		if err != nil {
			return Session{}, fmt.Errorf("insert record %d: %w", s.Rows, err)
		}
		s.Rows++
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (session_id, exported_at_us, row_count, bias_x, bias_y, bias_z)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, exportedAt.UnixMicro(), s.Rows, bias.X, bias.Y, bias.Z)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("commit archive tx: %w", err)
	}
	return s, nil
}

// Sessions lists archived sessions, newest first.
func (db *DB) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT session_id, exported_at_us, row_count, bias_x, bias_y, bias_z
		FROM sessions ORDER BY exported_at_us DESC, session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			id string
			at int64
			s  Session
		)
		if err := rows.Scan(&id, &at, &s.Rows, &s.Bias.X, &s.Bias.Y, &s.Bias.Z); err != nil {
			return nil, err
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("session id %q: %w", id, err)
		}
		s.ExportedAt = time.UnixMicro(at)
		out = append(out, s)
	}
	return out, rows.Err()
}

// SessionRecords returns the records of one session in their original order.
func (db *DB) SessionRecords(ctx context.Context, id uuid.UUID) ([]motion.Record, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT duration_us, timestamp_us,
			accel_x, accel_y, accel_z, rate_x, rate_y, rate_z,
			velocity_x, velocity_y, velocity_z, position_x, position_y, position_z,
			distance
		FROM motion_records WHERE session_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []motion.Record
	for rows.Next() {
		var r motion.Record
		err := rows.Scan(&r.DurationMicros, &r.TimestampMicros,
			&r.Acceleration.X, &r.Acceleration.Y, &r.Acceleration.Z,
			&r.AngularRate.X, &r.AngularRate.Y, &r.AngularRate.Z,
			&r.Velocity.X, &r.Velocity.Y, &r.Velocity.Z,
			&r.Position.X, &r.Position.Y, &r.Position.Z,
			&r.Distance,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
