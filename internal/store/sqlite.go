package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/ticketboard/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite stores the board in a single SQLite database file.
// Uses WAL mode and a single connection, so writes are serialised.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ Store      = (*SQLite)(nil)
	_ Transactor = (*SQLite)(nil)
)

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// This also keeps ":memory:" databases on a single shared connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger := slog.Default().With("component", "store", "driver", "sqlite")
	logger.Debug("sqlite store ready", "path", path)
	return &SQLite{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// runMigrations applies every embedded up migration.
//
// The migrate instance is not closed: closing it would close db as well.
// Only the source driver is released.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	defer src.Close()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (s *SQLite) SchemaVersion(ctx context.Context) (uint, error) {
	var version uint
	var dirty bool
	err := s.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sqliteWriter runs writes against either the database or a transaction.
type sqliteWriter struct {
	ex execer
}

// PutTicket inserts a new ticket when ID is zero, otherwise upserts by id.
func (w sqliteWriter) PutTicket(ctx context.Context, t model.Ticket) (int64, error) {
	created := formatTime(t.CreatedAt)
	if t.ID == 0 {
		res, err := w.ex.ExecContext(ctx, `
			INSERT INTO tickets (title, description, list_id, ord, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, t.Title, t.Description, t.ListID, t.Order, created)
		if err != nil {
			return 0, fmt.Errorf("put ticket: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("put ticket: last insert id: %w", err)
		}
		return id, nil
	}

	if err := w.upsertTicket(ctx, t); err != nil {
		return 0, fmt.Errorf("put ticket %d: %w", t.ID, err)
	}
	return t.ID, nil
}

func (w sqliteWriter) upsertTicket(ctx context.Context, t model.Ticket) error {
	_, err := w.ex.ExecContext(ctx, `
		INSERT INTO tickets (id, title, description, list_id, ord, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			list_id = excluded.list_id,
			ord = excluded.ord,
			created_at = excluded.created_at
	`, t.ID, t.Title, t.Description, t.ListID, t.Order, formatTime(t.CreatedAt))
	return err
}

// BulkPutTickets upserts every ticket. Outside a transaction the writes are
// not atomic; use InTx when they must land together.
func (w sqliteWriter) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	if err := validateBulk(tickets); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := w.upsertTicket(ctx, t); err != nil {
			return fmt.Errorf("bulk put ticket %d: %w", t.ID, err)
		}
	}
	return nil
}

// DeleteTicket removes a ticket by id. Missing ids are ignored.
func (w sqliteWriter) DeleteTicket(ctx context.Context, id int64) error {
	if _, err := w.ex.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	return nil
}

// PutList upserts a list column.
func (w sqliteWriter) PutList(ctx context.Context, l model.ListColumn) error {
	_, err := w.ex.ExecContext(ctx, `
		INSERT INTO lists (id, name, ord)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ord = excluded.ord
	`, l.ID, l.Name, l.Order)
	if err != nil {
		return fmt.Errorf("put list %q: %w", l.ID, err)
	}
	return nil
}

// PutTicket implements Writer.
func (s *SQLite) PutTicket(ctx context.Context, t model.Ticket) (int64, error) {
	return sqliteWriter{ex: s.db}.PutTicket(ctx, t)
}

// BulkPutTickets implements Writer. The batch is wrapped in a transaction.
func (s *SQLite) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	return s.InTx(ctx, func(w Writer) error {
		return w.BulkPutTickets(ctx, tickets)
	})
}

// DeleteTicket implements Writer.
func (s *SQLite) DeleteTicket(ctx context.Context, id int64) error {
	return sqliteWriter{ex: s.db}.DeleteTicket(ctx, id)
}

// PutList implements Writer.
func (s *SQLite) PutList(ctx context.Context, l model.ListColumn) error {
	return sqliteWriter{ex: s.db}.PutList(ctx, l)
}

// InTx implements Transactor.
func (s *SQLite) InTx(ctx context.Context, fn func(w Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(sqliteWriter{ex: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetTicket retrieves a single ticket by id.
// Returns ErrNotFound if absent.
func (s *SQLite) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, list_id, ord, created_at
		FROM tickets
		WHERE id = ?
	`, id)

	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	return t, err
}

// TicketsByList returns the tickets of one list ordered by position.
// Returns an empty slice (not nil) if the list has no tickets.
func (s *SQLite) TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, list_id, ord, created_at
		FROM tickets
		WHERE list_id = ?
		ORDER BY ord ASC, id ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("query tickets by list: %w", err)
	}
	return collectTickets(rows)
}

// AllTickets returns every ticket ordered by position then id.
func (s *SQLite) AllTickets(ctx context.Context) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, list_id, ord, created_at
		FROM tickets
		ORDER BY ord ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all tickets: %w", err)
	}
	return collectTickets(rows)
}

// GetList retrieves a list column by id.
func (s *SQLite) GetList(ctx context.Context, id string) (model.ListColumn, error) {
	var l model.ListColumn
	err := s.db.QueryRowContext(ctx, `SELECT id, name, ord FROM lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListColumn{}, fmt.Errorf("list %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.ListColumn{}, fmt.Errorf("get list %q: %w", id, err)
	}
	return l, nil
}

// Lists returns every list column ordered by position.
func (s *SQLite) Lists(ctx context.Context) ([]model.ListColumn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, ord FROM lists ORDER BY ord ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	lists := []model.ListColumn{}
	for rows.Next() {
		var l model.ListColumn
		if err := rows.Scan(&l.ID, &l.Name, &l.Order); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(sc scanner) (model.Ticket, error) {
	var t model.Ticket
	var created string
	if err := sc.Scan(&t.ID, &t.Title, &t.Description, &t.ListID, &t.Order, &created); err != nil {
		return model.Ticket{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("ticket %d: parse created_at %q: %w", t.ID, created, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// formatTime stores timestamps as UTC RFC3339Nano text.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
