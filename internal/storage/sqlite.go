// Package storage provides a SQLite-backed cache of rendered sound buffers.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rigel/internal/audio/sound"
)

// Store manages the SQLite database connection for the render cache.
type Store struct {
	db *sql.DB
}

// Ensure Store implements sound.Cache
var _ sound.Cache = (*Store)(nil)

// Stats summarises the cache contents.
type Stats struct {
	Entries      int
	TotalSamples int64
	Bytes        int64
	LastWritten  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sound_buffers (
			cache_key TEXT PRIMARY KEY,
			sound_id INTEGER NOT NULL,
			sample_rate INTEGER NOT NULL,
			style TEXT NOT NULL,
			emulator TEXT NOT NULL,
			source_hash TEXT NOT NULL,
			num_samples INTEGER NOT NULL,
			samples BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sound_buffers_sound_id ON sound_buffers(sound_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBuffer stores buf under key, replacing any previous entry.
func (s *Store) SaveBuffer(key sound.CacheKey, buf sound.Buffer) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sound_buffers
		 (cache_key, sound_id, sample_rate, style, emulator, source_hash, num_samples, samples)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.String(),
		int(key.ID),
		key.SampleRate,
		key.Style.String(),
		key.Emulator.String(),
		fmt.Sprintf("%016x", key.SourceHash),
		len(buf.Samples),
		encodeSamples(buf.Samples),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save buffer: %w", err)
	}
	return nil
}

// LoadBuffer returns the buffer stored under key. The boolean is false when
// there is no entry.
func (s *Store) LoadBuffer(key sound.CacheKey) (sound.Buffer, bool, error) {
	var rate, count int
	var blob []byte
	err := s.db.QueryRow(
		"SELECT sample_rate, num_samples, samples FROM sound_buffers WHERE cache_key = ?",
		key.String(),
	).Scan(&rate, &count, &blob)

	if err == sql.ErrNoRows {
		return sound.Buffer{}, false, nil
	}
	if err != nil {
		return sound.Buffer{}, false, fmt.Errorf("storage: cannot query buffer: %w", err)
	}
	if len(blob) != count*2 {
		return sound.Buffer{}, false, fmt.Errorf("storage: buffer %s holds %d bytes, expected %d", key, len(blob), count*2)
	}

	return sound.Buffer{SampleRate: rate, Samples: decodeSamples(blob)}, true, nil
}

// Stats returns aggregated cache statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastWritten any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(num_samples), 0), COALESCE(SUM(LENGTH(samples)), 0), MAX(created_at)
		 FROM sound_buffers`,
	).Scan(&stats.Entries, &stats.TotalSamples, &stats.Bytes, &lastWritten)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get cache stats: %w", err)
	}

	// Parse the datetime - handle both time.Time and string
	switch v := lastWritten.(type) {
	case time.Time:
		stats.LastWritten = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			stats.LastWritten = parsed
		}
	}

	return stats, nil
}

// Clear deletes every cached buffer and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sound_buffers")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared rows: %w", err)
	}
	return n, nil
}

func encodeSamples(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func decodeSamples(blob []byte) []int16 {
	out := make([]int16, len(blob)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(blob[i*2:]))
	}
	return out
}
