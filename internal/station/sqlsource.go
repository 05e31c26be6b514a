package station

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"oceanqc/pkg/qc"
)

// SQLSource resolves stations from a single-table SQL store with JSON
// metadata payloads. The same implementation backs SQLite and Postgres;
// only the driver and placeholder style differ.
type SQLSource struct {
	db      *sql.DB
	selectQ string
	upsertQ string
}

var _ qc.StationLookup = (*SQLSource)(nil)

const stationsDDL = `CREATE TABLE IF NOT EXISTS stations (
	id TEXT PRIMARY KEY,
	metadata TEXT NOT NULL
)`

// OpenSQLite opens, and initializes when needed, a SQLite-backed source at
// the given file path.
func OpenSQLite(path string) (*SQLSource, error) {
	if path == "" {
		path = "oceanqc.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLSource(db,
		`SELECT metadata FROM stations WHERE id = ?`,
		`INSERT INTO stations (id, metadata) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET metadata = excluded.metadata`)
}

// OpenPostgres opens a Postgres-backed source at the given DSN.
func OpenPostgres(dsn string) (*SQLSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLSource(db,
		`SELECT metadata FROM stations WHERE id = $1`,
		`INSERT INTO stations (id, metadata) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET metadata = excluded.metadata`)
}

func newSQLSource(db *sql.DB, selectQ, upsertQ string) (*SQLSource, error) {
	if _, err := db.Exec(stationsDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create stations table: %w", err)
	}
	return &SQLSource{db: db, selectQ: selectQ, upsertQ: upsertQ}, nil
}

// Station resolves a station by identifier. A miss is not an error.
func (s *SQLSource) Station(ctx context.Context, id string) (qc.Station, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.selectQ, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select station %s: %w", id, err)
	}
	st := &Station{ID: id}
	if err := json.Unmarshal(payload, &st.Metadata); err != nil {
		return nil, false, fmt.Errorf("decode station %s metadata: %w", id, err)
	}
	return st, true, nil
}

// Put inserts or replaces a station.
func (s *SQLSource) Put(ctx context.Context, st *Station) error {
	payload, err := json.Marshal(st.Metadata)
	if err != nil {
		return fmt.Errorf("encode station %s metadata: %w", st.ID, err)
	}
	if _, err := s.db.ExecContext(ctx, s.upsertQ, st.ID, payload); err != nil {
		return fmt.Errorf("upsert station %s: %w", st.ID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLSource) Close() error { return s.db.Close() }
