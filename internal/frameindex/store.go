package frameindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"cinepress/internal/media"
)

// Info is the stored record for one written frame.
type Info struct {
	Offset int64
	Size   int64
	Hash   string
}

// ErrNotFound is returned when no info exists for a frame.
var ErrNotFound = errors.New("frame info not found")

const schema = `
CREATE TABLE IF NOT EXISTS frame_info (
    reel   INTEGER NOT NULL,
    frame  INTEGER NOT NULL,
    eyes   INTEGER NOT NULL,
    byte_offset INTEGER NOT NULL,
    size   INTEGER NOT NULL,
    hash   TEXT    NOT NULL,
    PRIMARY KEY (reel, frame, eyes)
);
CREATE TABLE IF NOT EXISTS offloads (
    reel  INTEGER NOT NULL,
    frame INTEGER NOT NULL,
    eyes  INTEGER NOT NULL,
    path  TEXT    NOT NULL,
    PRIMARY KEY (reel, frame, eyes)
);
`

// Store manages frame info persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the frame index database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put records info for one frame, replacing any existing record.
func (s *Store) Put(ctx context.Context, reel int, frame int64, eyes media.Eyes, info Info) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO frame_info (reel, frame, eyes, byte_offset, size, hash)
         VALUES (?, ?, ?, ?, ?, ?)`,
		reel, frame, int(eyes), info.Offset, info.Size, info.Hash,
	)
	if err != nil {
		return fmt.Errorf("put frame info: %w", err)
	}
	return nil
}

// Get returns the info recorded for one frame.
func (s *Store) Get(ctx context.Context, reel int, frame int64, eyes media.Eyes) (Info, error) {
	var info Info
	err := s.db.QueryRowContext(
		ctx,
		`SELECT byte_offset, size, hash FROM frame_info WHERE reel = ? AND frame = ? AND eyes = ?`,
		reel, frame, int(eyes),
	).Scan(&info.Offset, &info.Size, &info.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("%w: reel %d frame %d eyes %s", ErrNotFound, reel, frame, eyes)
	}
	if err != nil {
		return Info{}, fmt.Errorf("get frame info: %w", err)
	}
	return info, nil
}

// FirstNonexistentFrame returns the lowest frame index in the reel with no
// recorded info, assuming frames are recorded contiguously from zero.
func (s *Store) FirstNonexistentFrame(ctx context.Context, reel int) (int64, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT MAX(frame) FROM frame_info WHERE reel = ?`,
		reel,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max frame: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64 + 1, nil
}

// PutOffload records that a frame's payload was pushed to a temporary file.
func (s *Store) PutOffload(ctx context.Context, reel int, frame int64, eyes media.Eyes, path string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO offloads (reel, frame, eyes, path) VALUES (?, ?, ?, ?)`,
		reel, frame, int(eyes), path,
	)
	if err != nil {
		return fmt.Errorf("put offload: %w", err)
	}
	return nil
}

// DeleteOffload removes the offload record once the payload is reclaimed.
func (s *Store) DeleteOffload(ctx context.Context, reel int, frame int64, eyes media.Eyes) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM offloads WHERE reel = ? AND frame = ? AND eyes = ?`,
		reel, frame, int(eyes),
	)
	if err != nil {
		return fmt.Errorf("delete offload: %w", err)
	}
	return nil
}

// OffloadCount reports how many offloaded payloads remain unreclaimed.
func (s *Store) OffloadCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offloads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count offloads: %w", err)
	}
	return n, nil
}
