// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/subroute/internal/util"
)

// Memory is the path of an in-memory store.
const Memory = ":memory:"

// Schema creates the player table.
const Schema = `
CREATE TABLE IF NOT EXISTS players (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	name_fold  TEXT NOT NULL,
	first_seen INTEGER NOT NULL,
	last_seen  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_players_name_fold ON players(name_fold);
`

// Record is a known player.
type Record struct {
	ID        uuid.UUID
	Name      string
	FirstSeen time.Time
	LastSeen  time.Time
}

// PlayerStore is a SQLite-backed directory of known players.
type PlayerStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*PlayerStore, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	if path != Memory {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PlayerStore{db: db, path: path}, nil
}

// Path returns the database path.
func (s *PlayerStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *PlayerStore) Close() error {
	return s.db.Close()
}

// Record upserts a sighting of a player. The first sighting time is kept;
// the name follows the latest sighting.
func (s *PlayerStore) Record(ctx context.Context, id uuid.UUID, name string, at time.Time) error {
	ms := at.UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, name_fold, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_fold = excluded.name_fold,
			last_seen = excluded.last_seen`,
		id.String(), name, util.Fold(name), ms, ms)
	if err != nil {
		return fmt.Errorf("failed to record player %s: %w", name, err)
	}
	return nil
}

// ByName finds a player by case-insensitive name. When several players have
// used the name, the most recently seen wins.
func (s *PlayerStore) ByName(ctx context.Context, name string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, first_seen, last_seen FROM players
		WHERE name_fold = ?
		ORDER BY last_seen DESC
		LIMIT 1`, util.Fold(name))
	return scanOne(row)
}

// ByID finds a player by id.
func (s *PlayerStore) ByID(ctx context.Context, id uuid.UUID) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, first_seen, last_seen FROM players WHERE id = ?`, id.String())
	return scanOne(row)
}

// All returns every known player ordered by name.
func (s *PlayerStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, first_seen, last_seen FROM players ORDER BY name_fold, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of known players.
func (s *PlayerStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (Record, bool, error) {
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func scan(s scanner) (Record, error) {
	var (
		id          string
		rec         Record
		first, last int64
	)
	if err := s.Scan(&id, &rec.Name, &first, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("failed to scan player: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("corrupt player id %q: %w", id, err)
	}
	rec.ID = parsed
	rec.FirstSeen = time.UnixMilli(first)
	rec.LastSeen = time.UnixMilli(last)
	return rec, nil
}
