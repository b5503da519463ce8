package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS replays (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT    NOT NULL,
	names       TEXT    NOT NULL,
	recorded_at INTEGER NOT NULL,
	duel_flags  INTEGER NOT NULL,
	blocks      INTEGER NOT NULL,
	has_legacy  INTEGER NOT NULL,
	document    BLOB    NOT NULL
);
CREATE INDEX IF NOT EXISTS replays_path ON replays (path);
`

// ErrNotFound is returned by SQLiteStore.Get for an unknown id
var ErrNotFound = errors.New("replay not found")

// SQLiteStore keeps replays in a local SQLite file; the document column
// holds the BSON encoding
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) a replay database
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts the record
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) (*Result, error) {
	startTime := time.Now()

	doc, err := bson.Marshal(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("marshal replay: %w", err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO replays (path, names, recorded_at, duel_flags, blocks, has_legacy, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Path, rec.Names, rec.RecordedAt.Unix(), int64(rec.DuelFlags), rec.Blocks, rec.HasLegacy, doc,
	)
	if err != nil {
		return nil, fmt.Errorf("insert replay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert replay: %w", err)
	}
	return &Result{ID: strconv.FormatInt(id, 10), Duration: time.Since(startTime)}, nil
}

// Count returns the number of stored replays
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM replays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count replays: %w", err)
	}
	return n, nil
}

// Get loads a stored record by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var (
		rec        Record
		recordedAt int64
		duelFlags  int64
		doc        []byte
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT path, names, recorded_at, duel_flags, blocks, has_legacy, document FROM replays WHERE id = ?`, id,
	).Scan(&rec.Path, &rec.Names, &recordedAt, &duelFlags, &rec.Blocks, &rec.HasLegacy, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get replay: %w", err)
	}
	rec.RecordedAt = time.Unix(recordedAt, 0).UTC()
	rec.DuelFlags = uint64(duelFlags)
	if err := bson.Unmarshal(doc, &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal replay: %w", err)
	}
	return &rec, nil
}
