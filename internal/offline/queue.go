// Package offline persists mutations recorded while the service is
// unreachable, so they survive restarts and replay once connectivity
// returns.
package offline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/packsync/packsync/internal/query"
)

const (
	queueFileName = "queue.sqlite"
	schemaVersion = 1
)

// OpKind is the kind of a recorded mutation.
type OpKind string

// Recorded mutation kinds.
const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Op is one pending mutation, recorded while offline and consumed when
// connectivity allows. EntityID is nil for creates; the server assigns
// the real ID on replay.
type Op struct {
	ID         string
	Kind       OpKind
	Entity     query.EntityKind
	EntityID   *int
	ListID     int
	Payload    []byte
	RecordedAt time.Time
	Attempts   int
}

// Queue is the durable pending-operation store.
type Queue struct {
	db   *sql.DB
	path string
}

// Open initializes the queue database under dir, creating the schema on
// first use. A schema-version mismatch recreates the table; a stale
// queue format is not worth migrating, the user just re-syncs.
func Open(ctx context.Context, dir string) (*Queue, error) {
	if dir == "" {
		return nil, errors.New("open queue: directory is empty")
	}

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("open queue: create directory: %w", err)
	}

	path := filepath.Join(dir, queueFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open queue: ping: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	err = ensureSchema(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Queue{db: db, path: path}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("open queue: %s: %w", stmt, err)
		}
	}

	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	var version int

	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("open queue: read user_version: %w", err)
	}

	if version == schemaVersion {
		return nil
	}

	statements := []string{
		"DROP TABLE IF EXISTS pending_ops",
		`CREATE TABLE pending_ops (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			entity      TEXT NOT NULL,
			entity_id   INTEGER,
			list_id     INTEGER NOT NULL,
			payload     BLOB NOT NULL,
			recorded_at TEXT NOT NULL,
			attempts    INTEGER NOT NULL DEFAULT 0,
			dead        INTEGER NOT NULL DEFAULT 0,
			dead_reason TEXT
		)`,
		"CREATE INDEX pending_ops_list ON pending_ops (list_id)",
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("open queue: create schema: %w", err)
		}
	}

	return nil
}

// Enqueue records op. A missing ID gets a fresh uuid; a zero RecordedAt
// gets the current time.
func (q *Queue) Enqueue(ctx context.Context, op Op) (Op, error) {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	if op.RecordedAt.IsZero() {
		op.RecordedAt = time.Now().UTC()
	}

	var entityID sql.NullInt64
	if op.EntityID != nil {
		entityID = sql.NullInt64{Int64: int64(*op.EntityID), Valid: true}
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO pending_ops (id, kind, entity, entity_id, list_id, payload, recorded_at, attempts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, string(op.Kind), string(op.Entity), entityID, op.ListID,
		op.Payload, op.RecordedAt.Format(time.RFC3339Nano), op.Attempts)
	if err != nil {
		return Op{}, fmt.Errorf("enqueue: %w", err)
	}

	return op, nil
}

// Pending returns live operations in recording order (FIFO).
func (q *Queue) Pending(ctx context.Context) ([]Op, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, kind, entity, entity_id, list_id, payload, recorded_at, attempts
		 FROM pending_ops WHERE dead = 0 ORDER BY recorded_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var ops []Op

	for rows.Next() {
		var (
			op       Op
			entityID sql.NullInt64
			recorded string
		)

		err = rows.Scan(&op.ID, &op.Kind, &op.Entity, &entityID, &op.ListID,
			&op.Payload, &recorded, &op.Attempts)
		if err != nil {
			return nil, fmt.Errorf("pending: scan: %w", err)
		}

		if entityID.Valid {
			id := int(entityID.Int64)
			op.EntityID = &id
		}

		op.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, fmt.Errorf("pending: parse recorded_at: %w", err)
		}

		ops = append(ops, op)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}

	return ops, nil
}

// CountPending returns the number of live operations.
func (q *Queue) CountPending(ctx context.Context) (int, error) {
	var count int

	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pending_ops WHERE dead = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}

	return count, nil
}

// MarkDone removes a successfully replayed operation.
func (q *Queue) MarkDone(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM pending_ops WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark done: %w", err)
	}

	return nil
}

// MarkDead parks an operation that failed terminally (the server
// rejected it). Dead operations are kept for inspection but never
// replayed again.
func (q *Queue) MarkDead(ctx context.Context, id, reason string) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE pending_ops SET dead = 1, dead_reason = ? WHERE id = ?", reason, id)
	if err != nil {
		return fmt.Errorf("mark dead: %w", err)
	}

	return nil
}

// BumpAttempts increments the replay attempt counter of an operation.
func (q *Queue) BumpAttempts(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE pending_ops SET attempts = attempts + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("bump attempts: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (q *Queue) Close() error {
	err := q.db.Close()
	if err != nil {
		return fmt.Errorf("close queue: %w", err)
	}

	return nil
}
