package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"skycast/weather"
)

// WeatherCache persists recent weather snapshots so repeated lookups for the
// same location inside the TTL window skip the network round trip.
type WeatherCache struct {
	db  *sql.DB
	ttl time.Duration
}

func NewWeatherCache(dataDir string, ttl time.Duration) (*WeatherCache, error) {
	dbPath := filepath.Join(dataDir, "weather.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cache := &WeatherCache{db: db, ttl: ttl}

	if err := cache.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cache, nil
}

func (wc *WeatherCache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS weather_snapshots (
		location TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`

	_, err := wc.db.Exec(schema)
	return err
}

// Get returns the cached record for a location, or nil when the entry is
// missing or older than the TTL. Stale rows are left in place; Put
// overwrites them on the next successful fetch.
func (wc *WeatherCache) Get(location string) (*weather.Record, error) {
	var payload string
	var fetchedAt time.Time

	row := wc.db.QueryRow(
		`SELECT record, fetched_at FROM weather_snapshots WHERE location = ?`,
		normalizeLocation(location),
	)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Since(fetchedAt) > wc.ttl {
		return nil, nil
	}

	var rec weather.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	return &rec, nil
}

// Put stores a snapshot, replacing any previous entry for the location.
func (wc *WeatherCache) Put(location string, rec *weather.Record) error {
	if rec == nil {
		return fmt.Errorf("cannot cache a nil record")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = wc.db.Exec(
		`INSERT INTO weather_snapshots (location, record, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(location) DO UPDATE SET record = excluded.record, fetched_at = excluded.fetched_at`,
		normalizeLocation(location), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Prune drops entries older than the TTL.
func (wc *WeatherCache) Prune() error {
	cutoff := time.Now().UTC().Add(-wc.ttl)
	_, err := wc.db.Exec(`DELETE FROM weather_snapshots WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	return nil
}

func (wc *WeatherCache) Close() error {
	return wc.db.Close()
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
